package geo

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/metrics"
	"delivery-tracking-service/internal/ports"
	"errors"

	"github.com/rs/zerolog"
)

// FallbackProvider decorates a primary geospatial provider with a degraded
// answer source. Provider failures (network, timeout, 5xx after retries) are
// logged and answered by the fallback instead of propagating; ErrNotFound
// passes through untouched so callers can still distinguish "no result"
// from "degraded result".
type FallbackProvider struct {
	primary  ports.GeospatialProvider
	fallback ports.GeospatialProvider
	log      zerolog.Logger
	metrics  *metrics.TrackerMetrics
}

func NewFallbackProvider(
	primary, fallback ports.GeospatialProvider,
	log zerolog.Logger,
	m *metrics.TrackerMetrics,
) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback, log: log, metrics: m}
}

func (f *FallbackProvider) degrade(op string, err error) bool {
	if err == nil || errors.Is(err, ports.ErrNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	f.log.Warn().Str("op", op).Err(err).Msg("provider unreachable, serving fallback data")
	f.metrics.IncFallback()
	return true
}

func (f *FallbackProvider) Geocode(ctx context.Context, address string) (domain.Location, error) {
	loc, err := f.primary.Geocode(ctx, address)
	if f.degrade("geocode", err) {
		return f.fallback.Geocode(ctx, address)
	}
	return loc, err
}

func (f *FallbackProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.Location, error) {
	loc, err := f.primary.ReverseGeocode(ctx, lat, lng)
	if f.degrade("reverse_geocode", err) {
		return f.fallback.ReverseGeocode(ctx, lat, lng)
	}
	return loc, err
}

func (f *FallbackProvider) Route(
	ctx context.Context,
	start, end domain.Location,
	mode ports.TravelMode,
) (ports.RouteInfo, error) {
	info, err := f.primary.Route(ctx, start, end, mode)
	if f.degrade("route", err) {
		return f.fallback.Route(ctx, start, end, mode)
	}
	return info, err
}

func (f *FallbackProvider) StaticMapURL(p ports.StaticMapParams) string {
	return f.primary.StaticMapURL(p)
}
