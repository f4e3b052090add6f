package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"time"
)

// LiveSnapshot is the small, frequently-written view of a tracked delivery
// served to polling clients without touching the primary store.
type LiveSnapshot struct {
	OrderID   string                `json:"order_id"`
	Status    domain.DeliveryStatus `json:"status"`
	Progress  int                   `json:"progress"`
	Location  *domain.Location      `json:"location,omitempty"`
	ETA       time.Time             `json:"eta"`
	Alerts    []domain.TrafficAlert `json:"alerts,omitempty"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Port: volatile store for live tracking snapshots. Absence is ErrNotFound.
type LiveStatusCache interface {
	Put(ctx context.Context, snap LiveSnapshot) error
	Get(ctx context.Context, orderID string) (LiveSnapshot, error)
	Delete(ctx context.Context, orderID string) error
}
