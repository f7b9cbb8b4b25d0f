package http

import (
	"encoding/json"
	"net/http"

	"github.com/apex/log"

	"salary-band/domain"
	"salary-band/service"
)

type BandHandler struct {
	service *service.BandService
}

func NewBandHandler(service *service.BandService) *BandHandler {
	return &BandHandler{service: service}
}

type rangesResponse struct {
	Level    string                  `json:"level"`
	Ranges   []domain.YearRange      `json:"ranges"`
	Rejected []domain.RejectedRecord `json:"rejected,omitempty"`
}

// Normalize converts a single raw record into its canonical range.
func (h *BandHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !requireJSON(w, r) {
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var rec domain.RawBandRecord
	if err := dec.Decode(&rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	yr, err := service.Normalize(rec)
	if err != nil {
		recordRejections([]domain.RejectedRecord{{Year: rec.Year, Kind: domain.KindOf(err)}})
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, yr)
}

// Bands stores (POST) or lists (GET) the band records of ?level=.
func (h *BandHandler) Bands(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")

	switch r.Method {
	case http.MethodPost:
		h.store(w, r, level)
	case http.MethodGet:
		h.list(w, r, level)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BandHandler) store(w http.ResponseWriter, r *http.Request, level string) {
	if !requireJSON(w, r) {
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var recs []domain.RawBandRecord
	if err := dec.Decode(&recs); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Store(r.Context(), level, recs)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnknown {
			log.WithError(err).WithField("level", level).Error("storing bands")
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeError(w, statusFor(err), err)
		return
	}
	recordRejections(result.Rejected)

	log.WithFields(log.Fields{
		"level":    level,
		"accepted": len(result.Accepted),
		"rejected": len(result.Rejected),
	}).Info("bands stored")

	writeJSON(w, http.StatusOK, result)
}

func (h *BandHandler) list(w http.ResponseWriter, r *http.Request, level string) {
	if level == "" {
		levels, err := h.service.Levels(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"levels": levels})
		return
	}

	ranges, rejected, err := h.service.Ranges(r.Context(), level)
	if err != nil {
		log.WithError(err).WithField("level", level).Error("loading bands")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	recordRejections(rejected)

	writeJSON(w, http.StatusOK, rangesResponse{Level: level, Ranges: ranges, Rejected: rejected})
}
