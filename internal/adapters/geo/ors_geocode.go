package geo

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label    string `json:"label"`
			Locality string `json:"locality"`
			Country  string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a free-text address using /geocode/search. Zero matches
// is ports.ErrNotFound; a failed call surfaces as a provider error.
func (o *ORSProvider) Geocode(ctx context.Context, address string) (_ domain.Location, err error) {
	defer obs.Time(o.log, "ors.Geocode")(&err)

	norm := o.normalize(address)
	if norm == "" {
		return domain.Location{}, errors.New("geocode: address must be non-empty")
	}

	if o.geocodeCache != nil {
		hits, cacheErr := o.geocodeCache.GetMany(ctx, []string{norm})
		if cacheErr != nil {
			// A broken cache must not mask a reachable upstream.
			o.log.Warn().Err(cacheErr).Msg("geocode cache read failed")
		} else if loc, ok := hits[norm]; ok {
			return loc, nil
		}
	}

	loc, err := o.searchOne(ctx, "/geocode/search", url.Values{
		"text": []string{norm},
		"size": []string{"1"},
	})
	if err != nil {
		return domain.Location{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, map[string]domain.Location{norm: loc}); err != nil {
			o.log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	return loc, nil
}

// ReverseGeocode resolves coordinates to an address using /geocode/reverse.
func (o *ORSProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (_ domain.Location, err error) {
	defer obs.Time(o.log, "ors.ReverseGeocode")(&err)

	loc, err := o.searchOne(ctx, "/geocode/reverse", url.Values{
		"point.lat": []string{strconv.FormatFloat(lat, 'f', -1, 64)},
		"point.lon": []string{strconv.FormatFloat(lng, 'f', -1, 64)},
		"size":      []string{"1"},
	})
	if err != nil {
		return domain.Location{}, fmt.Errorf("reverse geocode (%v, %v): %w", lat, lng, err)
	}

	return loc, nil
}

func (o *ORSProvider) searchOne(ctx context.Context, path string, query url.Values) (domain.Location, error) {
	endpoint := o.baseURL + path

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.URL.RawQuery = query.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Location{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Location{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Location{}, ports.ErrNotFound
	}

	feat := decoded.Features[0]
	coords := feat.Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Location{}, errors.New("invalid coordinate format in geocode response")
	}

	return domain.Location{
		Lat:     coords[1],
		Lng:     coords[0],
		Address: feat.Properties.Label,
		City:    feat.Properties.Locality,
		Country: feat.Properties.Country,
	}, nil
}
