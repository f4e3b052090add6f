package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type RoutePlanHandler struct {
	Repo ports.DeliveryRepository
	Log  zerolog.Logger
}

// Plan orders the partner's open deliveries into a visiting sequence,
// nearest first. The start point comes from lat/lng query params, falling
// back to the first open delivery's pickup.
func (h *RoutePlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "partnerID")

	open, err := h.Repo.OpenByPartner(r.Context(), partnerID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}
	if len(open) == 0 {
		writeError(h.Log, w, http.StatusNotFound, "no open deliveries")
		return
	}

	start := open[0].Pickup
	q := r.URL.Query()
	if q.Get("lat") != "" || q.Get("lng") != "" {
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
		if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			writeError(h.Log, w, http.StatusBadRequest, "valid lat and lng are required")
			return
		}
		start = domain.Location{Lat: lat, Lng: lng}
	}

	stops := make([]domain.Location, len(open))
	for i, o := range open {
		stops[i] = o.Dropoff
	}

	res := dto.RoutePlanResponse{Start: toLocation(start)}
	at := start
	for _, idx := range services.OrderWaypoints(start, stops) {
		leg := domain.HaversineKm(at, open[idx].Dropoff)
		res.Stops = append(res.Stops, dto.RoutePlanStop{
			OrderID:    open[idx].OrderID,
			Dropoff:    toLocation(open[idx].Dropoff),
			LegKm:      leg,
			BearingDeg: domain.InitialBearingDeg(at, open[idx].Dropoff),
		})
		res.TotalKm += leg
		at = open[idx].Dropoff
	}

	writeJSON(h.Log, w, http.StatusOK, res)
}
