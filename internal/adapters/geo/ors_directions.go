package geo

import (
	"bytes"
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ORS routing profiles per travel mode.
var profileForMode = map[ports.TravelMode]string{
	ports.ModeDriving: "driving-car",
	ports.ModeWalking: "foot-walking",
	ports.ModeCycling: "cycling-regular",
}

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Steps []struct {
					Instruction string `json:"instruction"`
				} `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// Route computes a navigable route between two points using the ORS
// directions endpoint. "No route between the points" (HTTP 404 or an empty
// feature set) is ports.ErrNotFound; transport failures surface as provider
// errors after retry.
func (o *ORSProvider) Route(
	ctx context.Context,
	start, end domain.Location,
	mode ports.TravelMode,
) (_ ports.RouteInfo, err error) {
	defer obs.Time(o.log, "ors.Route")(&err)

	profile, ok := profileForMode[mode]
	if !ok {
		return ports.RouteInfo{}, fmt.Errorf("route: unsupported travel mode %q", mode)
	}

	key := cacheKey(start, end, mode)
	if o.routeCache != nil {
		cached, cacheErr := o.routeCache.Get(ctx, key)
		if cacheErr == nil {
			return cached, nil
		}
		if !errors.Is(cacheErr, ports.ErrNotFound) {
			// A broken cache must not mask a reachable upstream.
			o.log.Warn().Err(cacheErr).Msg("route cache read failed")
		}
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates:  [][]float64{start.CoordsToList(), end.CoordsToList()},
		Instructions: true,
	})
	if err != nil {
		return ports.RouteInfo{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return ports.RouteInfo{}, ports.ErrNotFound
		}
		return ports.RouteInfo{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.RouteInfo{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.RouteInfo{}, ports.ErrNotFound
	}

	feat := dr.Features[0]

	coords := make([]domain.LatLng, 0, len(feat.Geometry.Coordinates))
	for _, c := range feat.Geometry.Coordinates {
		if len(c) != 2 {
			return ports.RouteInfo{}, errors.New("invalid coordinate format in directions response")
		}
		coords = append(coords, domain.LatLng{Lat: c[1], Lng: c[0]})
	}

	var instructions []string
	for _, seg := range feat.Properties.Segments {
		for _, step := range seg.Steps {
			instructions = append(instructions, step.Instruction)
		}
	}

	info := ports.RouteInfo{
		DistanceKm:   feat.Properties.Summary.Distance / 1000,
		DurationMin:  feat.Properties.Summary.Duration / 60,
		Coordinates:  coords,
		Instructions: instructions,
	}

	if o.routeCache != nil {
		if err := o.routeCache.Put(ctx, key, info); err != nil {
			o.log.Warn().Err(err).Msg("route cache write failed")
		}
	}

	return info, nil
}

func cacheKey(start, end domain.Location, mode ports.TravelMode) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f|%s", start.Lat, start.Lng, end.Lat, end.Lng, mode)
}
