package handlers

import (
	"context"
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type DeliveryHandler struct {
	Engine   *services.TrackingEngine
	Repo     ports.DeliveryRepository
	Validate *validator.Validate
	Log      zerolog.Logger
}

// Active returns the partner's current in-flight delivery.
func (h *DeliveryHandler) Active(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "partnerID")

	o, err := h.Engine.LoadActive(r.Context(), partnerID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, toDelivery(o, h.Engine.ETA(o)))
}

// History returns the partner's most recent deliveries, newest first.
func (h *DeliveryHandler) History(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "partnerID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(h.Log, w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	orders, err := h.Repo.History(r.Context(), partnerID, limit)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	res := dto.ListDeliveriesResponse{Deliveries: make([]dto.DeliveryResponse, 0, len(orders))}
	for _, o := range orders {
		res.Deliveries = append(res.Deliveries, toDelivery(o, h.Engine.ETA(o)))
	}

	writeJSON(h.Log, w, http.StatusOK, res)
}

// Progress applies a partner-reported progress update to a delivery.
func (h *DeliveryHandler) Progress(w http.ResponseWriter, r *http.Request) {
	var req dto.ProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.Log, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(h.Log, w, http.StatusBadRequest, "progress must be between 0 and 100")
		return
	}

	o, ok := h.load(r.Context(), w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	var loc *domain.Location
	if req.Location != nil {
		loc = &domain.Location{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	if err := h.Engine.AdvanceProgress(r.Context(), o, req.Progress, loc); err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, toDelivery(o, h.Engine.ETA(o)))
}

// Complete marks a delivery as delivered.
func (h *DeliveryHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.Log, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(h.Log, w, http.StatusBadRequest, "signature too long")
		return
	}

	o, ok := h.load(r.Context(), w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	if err := h.Engine.Complete(r.Context(), o, req.Signature); err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, toDelivery(o, h.Engine.ETA(o)))
}

// Cancel exits the delivery lifecycle from any non-terminal state.
func (h *DeliveryHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(r.Context(), w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	if err := h.Engine.Cancel(r.Context(), o); err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, toDelivery(o, h.Engine.ETA(o)))
}

// Notify sends a best-effort customer notification for a delivery.
func (h *DeliveryHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req dto.NotifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.Log, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(h.Log, w, http.StatusBadRequest, "message and a valid kind are required")
		return
	}

	o, ok := h.load(r.Context(), w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	delivered := h.Engine.NotifyCustomer(r.Context(), o, req.Message, ports.NotificationKind(req.Kind))
	writeJSON(h.Log, w, http.StatusOK, dto.NotifyResponse{Delivered: delivered})
}

func (h *DeliveryHandler) load(ctx context.Context, w http.ResponseWriter, orderID string) (*domain.DeliveryOrder, bool) {
	o, err := h.Repo.ByID(ctx, orderID)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return nil, false
	}
	return o, true
}
