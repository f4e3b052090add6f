package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type RouteHandler struct {
	Selector *services.RouteSelector
	Repo     ports.DeliveryRepository
	Log      zerolog.Logger
}

// List returns the delivery's route alternatives, computing them from the
// geospatial provider on first access.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	o, err := h.Repo.ByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	alts, err := h.Selector.Alternatives(r.Context(), orderID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}
	if len(alts) == 0 {
		alts, err = h.Selector.BuildAlternatives(r.Context(), o)
		if err != nil {
			writeDomainError(h.Log, w, err)
			return
		}
	}

	writeJSON(h.Log, w, http.StatusOK, dto.ListRoutesResponse{Routes: toRoutes(alts)})
}

// Select makes the chosen alternative active and adopts its estimate.
func (h *RouteHandler) Select(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	routeID := chi.URLParam(r, "routeID")

	o, err := h.Repo.ByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}
	if o.Status.Terminal() {
		writeError(h.Log, w, http.StatusUnprocessableEntity, "delivery is no longer active")
		return
	}

	alts, err := h.Selector.Select(r.Context(), o, routeID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, dto.ListRoutesResponse{Routes: toRoutes(alts)})
}
