package domain

import "fmt"

// Delivery lifecycle states. Delivered and cancelled are terminal.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusPickedUp  DeliveryStatus = "picked_up"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
	StatusCancelled DeliveryStatus = "cancelled"
)

// Forward ordering of the non-terminal-exit path. Cancelled sits outside
// the sequence and is reachable from any non-terminal state.
var statusOrder = map[DeliveryStatus]int{
	StatusPending:   0,
	StatusPickedUp:  1,
	StatusInTransit: 2,
	StatusDelivered: 3,
}

func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPickedUp, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Transitions only move forward; cancelled is an exit from any
// non-terminal state.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// ValidationError marks a synchronously rejected operation. No state is
// mutated when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func rejectf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Item is a single line of the delivery's contents.
type Item struct {
	Name         string
	Quantity     int
	Category     string
	Fragile      bool
	Refrigerated bool
}

// EmergencyContact is a partner-facing contact attached to the order.
type EmergencyContact struct {
	Name     string
	Number   string
	Category string
	Priority int
}

// DeliveryOrder is the aggregate root for one active delivery. It is owned
// by a single writer (the tracking loop for its order, or an explicit
// partner action) and persisted with an optimistic version guard.
type DeliveryOrder struct {
	OrderID         string
	PartnerID       string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string

	Pickup  Location
	Dropoff Location
	// Current is nil until the first location fix arrives; a nil value means
	// "not yet known", not "known to be absent".
	Current *Location

	TotalDistanceKm     float64
	RemainingDistanceKm float64
	EstimatedTimeMin    int
	Progress            int

	Status      DeliveryStatus
	Items       []Item
	DeliveryFee float64

	Alerts   []TrafficAlert
	Contacts []EmergencyContact

	// Version backs compare-and-set writes; bumped by the repository.
	Version int
}

const completionThreshold = 95

// AdvanceProgress applies a progress update to the aggregate.
//
// Values outside [0,100] are rejected with no mutation. An in-range value
// below the current progress is clamped to the current value, keeping
// progress monotone under delayed or duplicate updates. Advancing an order
// that has not left the pending/picked_up states promotes it to in_transit.
func (o *DeliveryOrder) AdvanceProgress(newProgress int, loc *Location) error {
	if newProgress < 0 || newProgress > 100 {
		return rejectf("progress %d out of range [0,100]", newProgress)
	}
	if o.Status.Terminal() {
		return rejectf("order %s is %s; progress is frozen", o.OrderID, o.Status)
	}

	if newProgress < o.Progress {
		newProgress = o.Progress
	}

	if o.Status != StatusInTransit {
		if !o.Status.CanTransitionTo(StatusInTransit) {
			return rejectf("order %s cannot move from %s to %s", o.OrderID, o.Status, StatusInTransit)
		}
		o.Status = StatusInTransit
	}

	o.Progress = newProgress
	o.RemainingDistanceKm = o.TotalDistanceKm * float64(100-newProgress) / 100
	if loc != nil {
		l := *loc
		o.Current = &l
	}

	return nil
}

// Complete transitions the order to delivered. Rejected below the
// completion threshold; on success progress is frozen at 100. Reaching
// progress 100 never completes an order by itself.
func (o *DeliveryOrder) Complete() error {
	if o.Progress < completionThreshold {
		return rejectf("order %s at progress %d; completion requires at least %d", o.OrderID, o.Progress, completionThreshold)
	}
	if !o.Status.CanTransitionTo(StatusDelivered) {
		return rejectf("order %s cannot move from %s to %s", o.OrderID, o.Status, StatusDelivered)
	}

	o.Status = StatusDelivered
	o.Progress = 100
	o.RemainingDistanceKm = 0
	return nil
}

// Cancel exits the lifecycle from any non-terminal state.
func (o *DeliveryOrder) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return rejectf("order %s is already %s", o.OrderID, o.Status)
	}
	o.Status = StatusCancelled
	return nil
}

// MergeAlerts replaces alerts sharing an id and appends the rest. Alerts are
// ephemeral tick data; the merged list is never persisted long-term.
func (o *DeliveryOrder) MergeAlerts(fresh []TrafficAlert) {
	if len(fresh) == 0 {
		return
	}

	byID := make(map[string]int, len(o.Alerts))
	for i, a := range o.Alerts {
		byID[a.ID] = i
	}

	for _, a := range fresh {
		if i, ok := byID[a.ID]; ok {
			o.Alerts[i] = a
			continue
		}
		o.Alerts = append(o.Alerts, a)
	}
}
