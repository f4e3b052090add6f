package cache

import (
	"context"
	"database/sql"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SQLRouteCache is a SQL-backed cache for computed routes, keyed by the
// start/end coordinate pair and travel mode.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch a cached route. Absence is ports.ErrNotFound.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (ports.RouteInfo, error) {
	if s.DB == nil {
		return ports.RouteInfo{}, errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return ports.RouteInfo{}, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT distance_km, duration_min, coordinates, instructions
    FROM route_cache
    WHERE route_key = $1;
	`

	var info ports.RouteInfo
	var coordsJSON, instructionsJSON []byte

	err := s.DB.QueryRowContext(ctx, q, key).Scan(
		&info.DistanceKm, &info.DurationMin, &coordsJSON, &instructionsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteInfo{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.RouteInfo{}, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if err := json.Unmarshal(coordsJSON, &info.Coordinates); err != nil {
		return ports.RouteInfo{}, fmt.Errorf("get route cache: decode coordinates: %w", err)
	}
	if err := json.Unmarshal(instructionsJSON, &info.Instructions); err != nil {
		return ports.RouteInfo{}, fmt.Errorf("get route cache: decode instructions: %w", err)
	}

	return info, nil
}

// Store a computed route under its key.
func (s *SQLRouteCache) Put(ctx context.Context, key string, info ports.RouteInfo) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	coordsJSON, err := json.Marshal(info.Coordinates)
	if err != nil {
		return fmt.Errorf("insert route cache: encode coordinates: %w", err)
	}
	instructionsJSON, err := json.Marshal(info.Instructions)
	if err != nil {
		return fmt.Errorf("insert route cache: encode instructions: %w", err)
	}

	q := `
	INSERT INTO route_cache (route_key, distance_km, duration_min, coordinates, instructions)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (route_key) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_min = EXCLUDED.duration_min,
		coordinates = EXCLUDED.coordinates,
		instructions = EXCLUDED.instructions;
	`

	if _, err := s.DB.ExecContext(ctx, q, key, info.DistanceKm, info.DurationMin, coordsJSON, instructionsJSON); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
