package geo

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// GeocodeCache stores resolved addresses keyed by normalized text.
type GeocodeCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]domain.Location, error)
	PutMany(ctx context.Context, entries map[string]domain.Location) error
}

// RouteCache stores computed routes keyed by endpoint pair and mode.
// A miss is ports.ErrNotFound.
type RouteCache interface {
	Get(ctx context.Context, key string) (ports.RouteInfo, error)
	Put(ctx context.Context, key string, info ports.RouteInfo) error
}

// ORSProvider implements ports.GeospatialProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Persistent route caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	geocodeCache GeocodeCache
	routeCache   RouteCache
	log          zerolog.Logger
}

func NewORSProvider(
	apiKey string,
	baseURL string,
	geocodeCache GeocodeCache,
	routeCache RouteCache,
	log zerolog.Logger,
) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}

	provider := &ORSProvider{
		session:      &http.Client{Timeout: 10 * time.Second},
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		geocodeCache: geocodeCache,
		routeCache:   routeCache,
		log:          log,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
