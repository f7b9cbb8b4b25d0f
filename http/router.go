package http

import (
	"net/http"
)

// NewRouter wires the handlers. Every API route goes through the rate
// limiter and the metrics instrumentation.
func NewRouter(
	analysisHandler *AnalysisHandler,
	bandHandler *BandHandler,
	rateLimiter *RateLimiter,
) *http.ServeMux {
	mux := http.NewServeMux()

	route := func(path, name string, h http.HandlerFunc) {
		mux.Handle(path, Instrument(name, RateLimitMiddleware(rateLimiter, h)))
	}

	route("/salary/analyze", "analyze", analysisHandler.Analyze)
	route("/band/normalize", "normalize", bandHandler.Normalize)
	route("/bands", "bands", bandHandler.Bands)

	mux.Handle("/metrics", MetricsHandler())

	return mux
}
