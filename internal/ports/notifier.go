package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
)

type NotificationKind string

const (
	NotifyETAUpdate        NotificationKind = "eta_update"
	NotifyArrival          NotificationKind = "arrival"
	NotifyDeliveryComplete NotificationKind = "delivery_complete"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotifyETAUpdate, NotifyArrival, NotifyDeliveryComplete:
		return true
	}
	return false
}

// Port: best-effort customer messaging. Send reports delivery as a boolean;
// a failed send is never fatal and never rolls back order state.
type CustomerNotifier interface {
	Send(ctx context.Context, order *domain.DeliveryOrder, message string, kind NotificationKind) bool
}
