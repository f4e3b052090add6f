package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"errors"
)

// ErrVersionConflict is returned when a compare-and-set write loses to a
// concurrent writer. The caller should reload the aggregate and retry.
var ErrVersionConflict = errors.New("version conflict")

// Port: boundary for retrieving and persisting DeliveryOrder aggregates.
type DeliveryRepository interface {
	// Fetch the partner's current in-flight order. Absence is ErrNotFound.
	ActiveByPartner(ctx context.Context, partnerID string) (*domain.DeliveryOrder, error)
	// Fetch one order by id. Absence is ErrNotFound.
	ByID(ctx context.Context, orderID string) (*domain.DeliveryOrder, error)
	// Fetch the partner's most recent orders, newest first.
	History(ctx context.Context, partnerID string, limit int) ([]*domain.DeliveryOrder, error)
	// Fetch every non-terminal order for the partner, newest first.
	OpenByPartner(ctx context.Context, partnerID string) ([]*domain.DeliveryOrder, error)
	// Persist tracking state (progress, location, metrics, status) with a
	// compare-and-set on the aggregate version. Bumps the version on success.
	UpdateTracking(ctx context.Context, o *domain.DeliveryOrder) error
	// Replace the order's route alternatives as one transaction.
	ReplaceAlternatives(ctx context.Context, orderID string, alts []domain.RouteAlternative) error
	// Fetch the order's route alternatives.
	AlternativesByOrder(ctx context.Context, orderID string) ([]domain.RouteAlternative, error)
}
