package handlers

import (
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type LiveHandler struct {
	Live   ports.LiveStatusCache
	Engine *services.TrackingEngine
	Repo   ports.DeliveryRepository
	Log    zerolog.Logger
}

// Get serves the live tracking snapshot for a delivery. An expired or
// never-written snapshot falls back to the primary store so polling clients
// always get an answer for a known order.
func (h *LiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	snap, err := h.Live.Get(r.Context(), orderID)
	if err == nil {
		writeJSON(h.Log, w, http.StatusOK, toLive(snap))
		return
	}
	if !errors.Is(err, ports.ErrNotFound) {
		writeDomainError(h.Log, w, err)
		return
	}

	o, err := h.Repo.ByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, toLive(ports.LiveSnapshot{
		OrderID:  o.OrderID,
		Status:   o.Status,
		Progress: o.Progress,
		Location: o.Current,
		ETA:      h.Engine.ETA(o),
		Alerts:   o.Alerts,
	}))
}
