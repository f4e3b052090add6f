package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Synthesized variants offered alongside the provider's recommended route.
// Their metrics are scaled from the recommendation so the set stays
// plausible when the provider returns only one route.
var variantProfiles = []struct {
	id         string
	name       string
	timeFactor float64
	distFactor float64
	traffic    domain.TrafficLevel
}{
	{"route-2", "Highway Route", 1.15, 0.95, domain.TrafficModerate},
	{"route-3", "Inner Roads", 1.35, 1.10, domain.TrafficHeavy},
}

// RouteSelector maintains the candidate route set for a delivery and which
// one is active.
type RouteSelector struct {
	repo ports.DeliveryRepository
	geo  ports.GeospatialProvider
	log  zerolog.Logger
}

func NewRouteSelector(repo ports.DeliveryRepository, geo ports.GeospatialProvider, log zerolog.Logger) *RouteSelector {
	return &RouteSelector{repo: repo, geo: geo, log: log}
}

// BuildAlternatives computes the candidate route set for an order and
// persists it. The provider's recommended route starts active; the other
// alternatives are informational until explicitly selected.
func (s *RouteSelector) BuildAlternatives(ctx context.Context, o *domain.DeliveryOrder) ([]domain.RouteAlternative, error) {
	info, err := s.geo.Route(ctx, o.Pickup, o.Dropoff, ports.ModeDriving)
	if err != nil {
		return nil, fmt.Errorf("build alternatives: order %q: %w", o.OrderID, err)
	}

	recommended := domain.RouteAlternative{
		ID:          "route-1",
		Name:        "Fastest Route",
		TimeMin:     int(math.Round(info.DurationMin)),
		DistanceKm:  info.DistanceKm,
		Traffic:     domain.TrafficLight,
		Active:      true,
		Coordinates: info.Coordinates,
	}

	alts := []domain.RouteAlternative{recommended}
	for _, v := range variantProfiles {
		alts = append(alts, domain.RouteAlternative{
			ID:          v.id,
			Name:        v.name,
			TimeMin:     int(math.Round(info.DurationMin * v.timeFactor)),
			DistanceKm:  info.DistanceKm * v.distFactor,
			Traffic:     v.traffic,
			Active:      false,
			Coordinates: info.Coordinates,
		})
	}

	if err := s.repo.ReplaceAlternatives(ctx, o.OrderID, alts); err != nil {
		return nil, fmt.Errorf("build alternatives: persist order %q: %w", o.OrderID, err)
	}

	return alts, nil
}

// Alternatives returns the stored candidate set for an order.
func (s *RouteSelector) Alternatives(ctx context.Context, orderID string) ([]domain.RouteAlternative, error) {
	alts, err := s.repo.AlternativesByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("alternatives: order %q: %w", orderID, err)
	}
	return alts, nil
}

// Select flips the active alternative to the chosen id. The flip is atomic:
// exactly one alternative is active afterwards, and nothing changes on an
// unknown id. Switching routes also adopts the chosen alternative's time as
// the order's total estimate so the ETA tracks the route actually driven.
func (s *RouteSelector) Select(
	ctx context.Context,
	o *domain.DeliveryOrder,
	routeID string,
) ([]domain.RouteAlternative, error) {
	alts, err := s.repo.AlternativesByOrder(ctx, o.OrderID)
	if err != nil {
		return nil, fmt.Errorf("select route: load order %q: %w", o.OrderID, err)
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("select route: order %q has no alternatives: %w", o.OrderID, ports.ErrNotFound)
	}

	flipped, err := domain.ActivateRoute(alts, routeID)
	if err != nil {
		return nil, fmt.Errorf("select route: order %q: %w", o.OrderID, err)
	}

	if err := s.repo.ReplaceAlternatives(ctx, o.OrderID, flipped); err != nil {
		return nil, fmt.Errorf("select route: persist order %q: %w", o.OrderID, err)
	}

	chosen, _ := domain.ActiveRoute(flipped)
	prevTime, prevDist := o.EstimatedTimeMin, o.TotalDistanceKm

	o.EstimatedTimeMin = chosen.TimeMin
	o.TotalDistanceKm = chosen.DistanceKm
	o.RemainingDistanceKm = chosen.DistanceKm * float64(100-o.Progress) / 100

	if err := s.repo.UpdateTracking(ctx, o); err != nil {
		o.EstimatedTimeMin, o.TotalDistanceKm = prevTime, prevDist
		o.RemainingDistanceKm = prevDist * float64(100-o.Progress) / 100
		return nil, fmt.Errorf("select route: update order %q: %w", o.OrderID, err)
	}

	s.log.Info().
		Str("order_id", o.OrderID).
		Str("route_id", chosen.ID).
		Int("time_min", chosen.TimeMin).
		Msg("active route switched")

	return flipped, nil
}
