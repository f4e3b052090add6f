package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"errors"
)

// ErrNotFound marks a successful call that produced no result (geocode with
// zero matches, no route between points, no active delivery). It is a normal
// typed outcome for callers to branch on, distinct from a provider failure.
var ErrNotFound = errors.New("not found")

type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeCycling TravelMode = "cycling"
)

func (m TravelMode) Valid() bool {
	switch m {
	case ModeDriving, ModeWalking, ModeCycling:
		return true
	}
	return false
}

// RouteInfo is a computed route between two points.
type RouteInfo struct {
	DistanceKm   float64
	DurationMin  float64
	Coordinates  []domain.LatLng
	Instructions []string
}

// StaticMapParams parameterize static map URL construction.
type StaticMapParams struct {
	Lat     float64
	Lng     float64
	Zoom    int
	Width   int
	Height  int
	Markers []domain.LatLng
}

// Contract for geocoding and route computation against an external
// geospatial service.
//
// Every network operation distinguishes "provider returned nothing"
// (ErrNotFound) from "provider call failed" (any other error) so callers can
// choose retry-with-backoff vs accept-empty. StaticMapURL is pure URL
// construction and never fails.
type GeospatialProvider interface {
	// Resolve a free-text address to coordinates.
	Geocode(ctx context.Context, address string) (domain.Location, error)
	// Resolve coordinates back to an address.
	ReverseGeocode(ctx context.Context, lat, lng float64) (domain.Location, error)
	// Compute a route between two points for a travel mode.
	Route(ctx context.Context, start, end domain.Location, mode TravelMode) (RouteInfo, error)
	// Build a static map image URL. No network call.
	StaticMapURL(p StaticMapParams) string
}
