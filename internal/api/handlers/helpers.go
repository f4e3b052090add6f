package handlers

import (
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

func writeJSON(log zerolog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

func writeError(log zerolog.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(log, w, status, map[string]string{"error": msg})
}

// decodeJSON decodes exactly one JSON object from the body, rejecting
// unknown fields and trailing content.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// writeDomainError maps service errors to HTTP statuses. Validation
// rejections and not-found are normal outcomes; anything else is a 500 with
// the detail kept in the log, not the response.
func writeDomainError(log zerolog.Logger, w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(log, w, http.StatusUnprocessableEntity, ve.Reason)
	case errors.Is(err, ports.ErrNotFound):
		writeError(log, w, http.StatusNotFound, "not found")
	case errors.Is(err, ports.ErrVersionConflict):
		writeError(log, w, http.StatusConflict, "delivery was updated concurrently, retry")
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(log, w, http.StatusInternalServerError, "internal server error")
	}
}
