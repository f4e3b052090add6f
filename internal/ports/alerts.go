package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
)

// Port: pluggable source of traffic/weather/road alerts near a location.
// Implementations may be backed by a real provider or synthesized data; the
// update loop samples this, it never polls on every tick.
type AlertSource interface {
	AlertsNear(ctx context.Context, loc domain.Location, radiusMeters int) ([]domain.TrafficAlert, error)
}
