package handlers

import (
	"context"
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type TrackingHandler struct {
	Tracker *services.Tracker
	Repo    ports.DeliveryRepository
	Log     zerolog.Logger
}

// Start begins the periodic tracking loop for a delivery. Starting an
// already-tracked delivery is a conflict.
func (h *TrackingHandler) Start(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	o, err := h.Repo.ByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	// The session must outlive this request; the loop is stopped via the
	// tracker, not request cancellation.
	if err := h.Tracker.Start(context.WithoutCancel(r.Context()), o); err != nil {
		writeError(h.Log, w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(h.Log, w, http.StatusAccepted, dto.TrackingResponse{OrderID: orderID, Tracking: true})
}

// Stop halts the tracking loop for a delivery.
func (h *TrackingHandler) Stop(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	if !h.Tracker.Stop(orderID) {
		writeError(h.Log, w, http.StatusNotFound, "delivery is not being tracked")
		return
	}

	writeJSON(h.Log, w, http.StatusOK, dto.TrackingResponse{OrderID: orderID, Tracking: false})
}

// Status reports whether a delivery currently has a live tracking session.
func (h *TrackingHandler) Status(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	writeJSON(h.Log, w, http.StatusOK, dto.TrackingResponse{
		OrderID:  orderID,
		Tracking: h.Tracker.Tracking(orderID),
	})
}
