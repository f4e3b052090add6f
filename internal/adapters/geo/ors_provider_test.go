package geo

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

// brokenGeocodeCache fails every operation, as a cache on a missing or
// unreachable table would.
type brokenGeocodeCache struct {
	reads int
}

func (c *brokenGeocodeCache) GetMany(ctx context.Context, keys []string) (map[string]domain.Location, error) {
	c.reads++
	return nil, errors.New(`relation "geocode_cache" does not exist`)
}

func (c *brokenGeocodeCache) PutMany(ctx context.Context, entries map[string]domain.Location) error {
	return errors.New(`relation "geocode_cache" does not exist`)
}

type brokenRouteCache struct {
	reads int
}

func (c *brokenRouteCache) Get(ctx context.Context, key string) (ports.RouteInfo, error) {
	c.reads++
	return ports.RouteInfo{}, errors.New(`relation "route_cache" does not exist`)
}

func (c *brokenRouteCache) Put(ctx context.Context, key string, info ports.RouteInfo) error {
	return errors.New(`relation "route_cache" does not exist`)
}

func TestGeocodeFallsThroughOnCacheReadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[77.3678,28.6196]},"properties":{"label":"Sector 18, Noida","locality":"Noida","country":"India"}}]}`))
	}))
	defer srv.Close()

	gc := &brokenGeocodeCache{}
	p, err := NewORSProvider("test-key", srv.URL, gc, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewORSProvider: %v", err)
	}

	loc, err := p.Geocode(context.Background(), "Sector 18, Noida")
	if err != nil {
		t.Fatalf("geocode failed despite reachable upstream: %v", err)
	}
	if loc.Lat != 28.6196 || loc.Lng != 77.3678 {
		t.Fatalf("unexpected location: %+v", loc)
	}
	if gc.reads != 1 {
		t.Fatalf("cache reads = %d, want 1", gc.reads)
	}
}

func TestRouteFallsThroughOnCacheReadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/directions/driving-car/geojson" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[[77.3678,28.6196],[77.3247,28.5671]]},"properties":{"summary":{"distance":8200,"duration":1260},"segments":[{"steps":[{"instruction":"Head south"}]}]}}]}`))
	}))
	defer srv.Close()

	rc := &brokenRouteCache{}
	p, err := NewORSProvider("test-key", srv.URL, nil, rc, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewORSProvider: %v", err)
	}

	start := domain.Location{Lat: 28.6196, Lng: 77.3678}
	end := domain.Location{Lat: 28.5671, Lng: 77.3247}
	info, err := p.Route(context.Background(), start, end, ports.ModeDriving)
	if err != nil {
		t.Fatalf("route failed despite reachable upstream: %v", err)
	}
	if info.DistanceKm != 8.2 {
		t.Fatalf("DistanceKm = %v, want 8.2", info.DistanceKm)
	}
	if info.DurationMin != 21 {
		t.Fatalf("DurationMin = %v, want 21", info.DurationMin)
	}
	if rc.reads != 1 {
		t.Fatalf("cache reads = %d, want 1", rc.reads)
	}
}
