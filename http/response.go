package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/apex/log"

	"salary-band/domain"
)

type errorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

// statusFor maps a domain error to an HTTP status. Computation failures are
// 422 so callers can tell them apart from malformed requests.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindMissingField, domain.KindTypeCoercion, domain.KindBandOrder,
		domain.KindDegenerateRange, domain.KindInsufficientData:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// requireJSON rejects request bodies that are not declared as JSON.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	// Validar Content-Type
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: domain.KindOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	// Codificar JSON en buffer primero para evitar escribir header si falla
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithError(err).Error("encoding response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("writing response")
	}
}

func recordRejections(rejected []domain.RejectedRecord) {
	for _, r := range rejected {
		metricRejectedRecords.WithLabelValues(string(r.Kind)).Inc()
	}
}
