package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Health provides a minimal liveness check endpoint.
func Health(log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(log, w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
