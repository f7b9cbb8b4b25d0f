package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apex/log"

	"salary-band/domain"
	"salary-band/service"
)

type AnalysisHandler struct {
	analysis *service.AnalysisService
	bands    *service.BandService
}

func NewAnalysisHandler(
	analysis *service.AnalysisService,
	bands *service.BandService,
) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, bands: bands}
}

// analyzeRequest takes bands from Ranges, else Records, else the store.
type analyzeRequest struct {
	Level        string                 `json:"level"`
	Ranges       []domain.YearRange     `json:"ranges"`
	Records      []domain.RawBandRecord `json:"records"`
	Observations map[int]float64        `json:"observations"`
	BaseYear     int                    `json:"base_year"`
	HorizonYears int                    `json:"horizon_years"`
}

type analyzeResponse struct {
	Result   domain.AnalysisResult   `json:"result"`
	Rejected []domain.RejectedRecord `json:"rejected,omitempty"`
}

var errNoBands = errors.New("no band data: provide ranges, records or a stored level")

func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !requireJSON(w, r) {
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var req analyzeRequest
	if err := dec.Decode(&req); err != nil {
		log.WithError(err).Debug("decoding analyze request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var ranges []domain.YearRange
	var rejected []domain.RejectedRecord
	switch {
	case len(req.Ranges) > 0:
		ranges = req.Ranges
	case len(req.Records) > 0:
		ranges, rejected = service.NormalizeAll(req.Records)
	case req.Level != "":
		var err error
		ranges, rejected, err = h.bands.Ranges(r.Context(), req.Level)
		if err != nil {
			log.WithError(err).WithField("level", req.Level).Error("loading bands")
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, errNoBands)
		return
	}
	recordRejections(rejected)

	input := service.BuildInput(ranges, req.Observations, req.BaseYear, req.HorizonYears)
	result, err := h.analysis.Analyze(input)
	if err != nil {
		log.WithError(err).WithField("base_year", req.BaseYear).Info("analysis failed")
		writeError(w, statusFor(err), err)
		return
	}
	metricProjections.WithLabelValues(string(result.Projection.Status)).Inc()

	writeJSON(w, http.StatusOK, analyzeResponse{Result: result, Rejected: rejected})
}
