package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// TrackingEngine owns the live state of in-flight deliveries: it applies
// progress updates, recomputes ETAs, runs the lifecycle transitions and
// mirrors every change into the live snapshot cache.
//
// Engine operations mutate the passed aggregate and persist it with the
// repository's version guard; on any failed operation the aggregate is left
// in its previous valid state.
type TrackingEngine struct {
	repo     ports.DeliveryRepository
	live     ports.LiveStatusCache
	notifier ports.CustomerNotifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewTrackingEngine(
	repo ports.DeliveryRepository,
	live ports.LiveStatusCache,
	notifier ports.CustomerNotifier,
	log zerolog.Logger,
) *TrackingEngine {
	return &TrackingEngine{
		repo:     repo,
		live:     live,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the engine's time source. Intended for tests.
func (e *TrackingEngine) WithClock(now func() time.Time) *TrackingEngine {
	e.now = now
	return e
}

// ComputeETA derives the arrival time from remaining progress and the total
// estimated trip time. Pure: it does not consult route distance, so callers
// must keep totalEstimatedMin in sync with the active route.
func ComputeETA(now time.Time, progress, totalEstimatedMin int) time.Time {
	remaining := float64(totalEstimatedMin) * float64(100-progress) / 100
	return now.Add(time.Duration(remaining * float64(time.Minute)))
}

// LoadActive fetches the partner's current in-flight order. Absence is
// ports.ErrNotFound, a normal outcome, not a failure.
func (e *TrackingEngine) LoadActive(ctx context.Context, partnerID string) (*domain.DeliveryOrder, error) {
	o, err := e.repo.ActiveByPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("load active delivery: partner %q: %w", partnerID, err)
	}
	return o, nil
}

// AdvanceProgress applies a progress update to the order, recomputes the
// ETA and persists the result. Validation failures leave the aggregate
// untouched; a failed snapshot write is logged, never fatal.
func (e *TrackingEngine) AdvanceProgress(
	ctx context.Context,
	o *domain.DeliveryOrder,
	newProgress int,
	loc *domain.Location,
) error {
	prevProgress, prevStatus, prevRemaining, prevCurrent := o.Progress, o.Status, o.RemainingDistanceKm, o.Current

	if err := o.AdvanceProgress(newProgress, loc); err != nil {
		return err
	}

	if err := e.repo.UpdateTracking(ctx, o); err != nil {
		o.Progress, o.Status, o.RemainingDistanceKm, o.Current = prevProgress, prevStatus, prevRemaining, prevCurrent
		return fmt.Errorf("advance progress: order %q: %w", o.OrderID, err)
	}

	e.putSnapshot(ctx, o)
	return nil
}

// Complete transitions the order to delivered. Rejected below the progress
// threshold with no state change; on success the customer is notified
// best-effort and the snapshot reflects the terminal state.
func (e *TrackingEngine) Complete(ctx context.Context, o *domain.DeliveryOrder, signature string) error {
	prevProgress, prevStatus, prevRemaining := o.Progress, o.Status, o.RemainingDistanceKm

	if err := o.Complete(); err != nil {
		return err
	}

	if err := e.repo.UpdateTracking(ctx, o); err != nil {
		o.Progress, o.Status, o.RemainingDistanceKm = prevProgress, prevStatus, prevRemaining
		return fmt.Errorf("complete: order %q: %w", o.OrderID, err)
	}

	if signature != "" {
		e.log.Info().Str("order_id", o.OrderID).Str("signature", signature).Msg("delivery signed")
	}

	e.putSnapshot(ctx, o)
	e.NotifyCustomer(ctx, o, "Your order has been delivered", ports.NotifyDeliveryComplete)

	return nil
}

// Cancel exits the lifecycle from any non-terminal state.
func (e *TrackingEngine) Cancel(ctx context.Context, o *domain.DeliveryOrder) error {
	prevStatus := o.Status

	if err := o.Cancel(); err != nil {
		return err
	}

	if err := e.repo.UpdateTracking(ctx, o); err != nil {
		o.Status = prevStatus
		return fmt.Errorf("cancel: order %q: %w", o.OrderID, err)
	}

	if e.live != nil {
		if err := e.live.Delete(ctx, o.OrderID); err != nil {
			e.log.Warn().Err(err).Str("order_id", o.OrderID).Msg("live snapshot delete failed")
		}
	}

	return nil
}

// RefreshAlerts merges freshly sampled alerts into the order and updates the
// live snapshot. Alerts are ephemeral; nothing is persisted to the primary
// store.
func (e *TrackingEngine) RefreshAlerts(ctx context.Context, o *domain.DeliveryOrder, fresh []domain.TrafficAlert) {
	o.MergeAlerts(fresh)
	e.putSnapshot(ctx, o)
}

// NotifyCustomer sends a best-effort customer message. Failure is reported
// as false and never affects order state.
func (e *TrackingEngine) NotifyCustomer(
	ctx context.Context,
	o *domain.DeliveryOrder,
	message string,
	kind ports.NotificationKind,
) bool {
	if e.notifier == nil {
		return false
	}

	delivered := e.notifier.Send(ctx, o, message, kind)
	if !delivered {
		e.log.Warn().Str("order_id", o.OrderID).Str("kind", string(kind)).Msg("customer notification not delivered")
	}
	return delivered
}

// ETA returns the order's current estimated arrival time.
func (e *TrackingEngine) ETA(o *domain.DeliveryOrder) time.Time {
	return ComputeETA(e.now(), o.Progress, o.EstimatedTimeMin)
}

func (e *TrackingEngine) putSnapshot(ctx context.Context, o *domain.DeliveryOrder) {
	if e.live == nil {
		return
	}

	snap := ports.LiveSnapshot{
		OrderID:   o.OrderID,
		Status:    o.Status,
		Progress:  o.Progress,
		Location:  o.Current,
		ETA:       e.ETA(o),
		Alerts:    o.Alerts,
		UpdatedAt: e.now(),
	}

	if err := e.live.Put(ctx, snap); err != nil {
		e.log.Warn().Err(err).Str("order_id", o.OrderID).Msg("live snapshot write failed")
	}
}
