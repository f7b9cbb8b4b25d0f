package http

//
// Metrics definitions
//

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// metricRequestsCount counts the requests served per handler and status code.
	metricRequestsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salaryband_requests_count",
		Help: "Total number of processed requests",
	}, []string{"handler", "code"})

	// metricRequestDurationSeconds summarizes the time spent serving a request.
	metricRequestDurationSeconds = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "salaryband_request_duration_seconds",
		Help:       "Summarizes the time to serve a request (in seconds)",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"handler"})

	// metricRejectedRecords counts raw band records excluded by the normalizer.
	metricRejectedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salaryband_rejected_records_count",
		Help: "Total number of band records rejected during normalization",
	}, []string{"kind"})

	// metricProjections counts analyses by projection outcome.
	metricProjections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salaryband_projections_count",
		Help: "Total number of analyses by projection status",
	}, []string{"status"})

	// metricRateLimited counts requests refused by the rate limiter.
	metricRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salaryband_rate_limited_count",
		Help: "Total number of requests refused by the rate limiter",
	})
)

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument records count and duration of the requests served by next.
func Instrument(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rec, r)

		metricRequestDurationSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
		metricRequestsCount.WithLabelValues(name, strconv.Itoa(rec.code)).Inc()
	})
}
