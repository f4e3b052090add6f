package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

type AlertHandler struct {
	Source         ports.AlertSource
	DefaultRadiusM int
	Log            zerolog.Logger
}

// List samples alerts near a point.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeError(h.Log, w, http.StatusBadRequest, "valid lat and lng are required")
		return
	}

	radius := h.DefaultRadiusM
	if raw := q.Get("radius_m"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50_000 {
			writeError(h.Log, w, http.StatusBadRequest, "radius_m must be an integer between 1 and 50000")
			return
		}
		radius = n
	}

	alerts, err := h.Source.AlertsNear(r.Context(), domain.Location{Lat: lat, Lng: lng}, radius)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, dto.ListAlertsResponse{Alerts: toAlerts(alerts)})
}
