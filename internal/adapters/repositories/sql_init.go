package repositories

import (
	"database/sql"
	"delivery-tracking-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		order_id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		customer_phone TEXT NOT NULL DEFAULT '',
		delivery_address TEXT NOT NULL DEFAULT '',
		pickup_lat DOUBLE PRECISION NOT NULL,
		pickup_lng DOUBLE PRECISION NOT NULL,
		dropoff_lat DOUBLE PRECISION NOT NULL,
		dropoff_lng DOUBLE PRECISION NOT NULL,
		current_lat DOUBLE PRECISION,
		current_lng DOUBLE PRECISION,
		total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		remaining_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		estimated_time_min INTEGER NOT NULL DEFAULT 0,
		progress INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		delivery_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createItemsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_items (
		order_id TEXT NOT NULL REFERENCES deliveries(order_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		category TEXT NOT NULL DEFAULT '',
		fragile BOOLEAN NOT NULL DEFAULT FALSE,
		refrigerated BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (order_id, position)
	);
	`

	createContactsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_contacts (
		order_id TEXT NOT NULL REFERENCES deliveries(order_id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		number TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (order_id, name)
	);
	`

	createAlternativesQuery := `
	CREATE TABLE IF NOT EXISTS route_alternatives (
		order_id TEXT NOT NULL REFERENCES deliveries(order_id) ON DELETE CASCADE,
		route_id TEXT NOT NULL,
		name TEXT NOT NULL,
		time_min INTEGER NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		traffic TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		coordinates JSONB NOT NULL DEFAULT '[]',
		PRIMARY KEY (order_id, route_id)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT ''
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		route_key TEXT PRIMARY KEY,
		distance_km DOUBLE PRECISION NOT NULL,
		duration_min DOUBLE PRECISION NOT NULL,
		coordinates JSONB NOT NULL DEFAULT '[]',
		instructions JSONB NOT NULL DEFAULT '[]'
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_deliveries_partner_status
    ON deliveries(partner_id, status);
	`

	statements := []string{
		createDeliveriesQuery,
		createItemsQuery,
		createContactsQuery,
		createAlternativesQuery,
		createGeocodeCacheQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DeliverySeed struct {
	OrderID         string  `json:"order_id"`
	PartnerID       string  `json:"partner_id"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	DeliveryAddress string  `json:"delivery_address"`
	PickupLat       float64 `json:"pickup_lat"`
	PickupLng       float64 `json:"pickup_lng"`
	DropoffLat      float64 `json:"dropoff_lat"`
	DropoffLng      float64 `json:"dropoff_lng"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	EstimatedMin    int     `json:"estimated_time_min"`
	DeliveryFee     float64 `json:"delivery_fee"`
	Items           []struct {
		Name         string `json:"name"`
		Quantity     int    `json:"quantity"`
		Category     string `json:"category"`
		Fragile      bool   `json:"fragile"`
		Refrigerated bool   `json:"refrigerated"`
	} `json:"items"`
	Contacts []struct {
		Name     string `json:"name"`
		Number   string `json:"number"`
		Category string `json:"category"`
		Priority int    `json:"priority"`
	} `json:"contacts"`
}

// Populate the database with delivery data from a JSON file. Existing rows
// are reset to a fresh pending state; intended for local runs and demos.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed deliveries: read %q: %w", jsonPath, err)
	}

	var data []DeliverySeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed deliveries: parse json: %w", err)
	}

	for i, d := range data {
		if strings.TrimSpace(d.OrderID) == "" {
			return fmt.Errorf("seed deliveries: item at index %d: order_id cannot be empty", i+1)
		}
		if strings.TrimSpace(d.PartnerID) == "" {
			return fmt.Errorf("seed deliveries: order %q: partner_id cannot be empty", d.OrderID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed deliveries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	orderStmt, err := tx.Prepare(`
	INSERT INTO deliveries (
		order_id, partner_id, customer_name, customer_phone, delivery_address,
		pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		total_distance_km, remaining_distance_km, estimated_time_min,
		progress, status, delivery_fee, version
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $11, 0, $12, $13, 1)
	ON CONFLICT (order_id) DO UPDATE
	SET progress = 0,
		status = EXCLUDED.status,
		remaining_distance_km = EXCLUDED.total_distance_km,
		version = 1;
	`)
	if err != nil {
		return fmt.Errorf("seed deliveries: prepare insert: %w", err)
	}
	defer orderStmt.Close()

	itemStmt, err := tx.Prepare(`
	INSERT INTO delivery_items (order_id, position, name, quantity, category, fragile, refrigerated)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (order_id, position) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed deliveries: prepare item insert: %w", err)
	}
	defer itemStmt.Close()

	contactStmt, err := tx.Prepare(`
	INSERT INTO delivery_contacts (order_id, name, number, category, priority)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (order_id, name) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed deliveries: prepare contact insert: %w", err)
	}
	defer contactStmt.Close()

	for _, d := range data {
		if _, err := orderStmt.Exec(
			d.OrderID, d.PartnerID, d.CustomerName, d.CustomerPhone, d.DeliveryAddress,
			d.PickupLat, d.PickupLng, d.DropoffLat, d.DropoffLng,
			d.TotalDistanceKm, d.EstimatedMin, string(domain.StatusPending), d.DeliveryFee,
		); err != nil {
			return fmt.Errorf("seed deliveries: insert order %q: %w", d.OrderID, err)
		}

		for pos, it := range d.Items {
			if _, err := itemStmt.Exec(d.OrderID, pos, it.Name, it.Quantity, it.Category, it.Fragile, it.Refrigerated); err != nil {
				return fmt.Errorf("seed deliveries: insert item %q for order %q: %w", it.Name, d.OrderID, err)
			}
		}

		for _, c := range d.Contacts {
			if _, err := contactStmt.Exec(d.OrderID, c.Name, c.Number, c.Category, c.Priority); err != nil {
				return fmt.Errorf("seed deliveries: insert contact %q for order %q: %w", c.Name, d.OrderID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed deliveries: commit tx: %w", err)
	}

	return nil
}
