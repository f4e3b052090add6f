package repositories

import (
	"context"
	"database/sql"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLDeliveryRepository persists DeliveryOrder aggregates in Postgres.
type SQLDeliveryRepository struct {
	DB *sql.DB
}

func NewSQLDeliveryRepository(db *sql.DB) *SQLDeliveryRepository {
	return &SQLDeliveryRepository{DB: db}
}

const orderColumns = `
	order_id, partner_id, customer_name, customer_phone, delivery_address,
	pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
	current_lat, current_lng,
	total_distance_km, remaining_distance_km, estimated_time_min,
	progress, status, delivery_fee, version
`

func (r *SQLDeliveryRepository) scanOrder(row interface{ Scan(...any) error }) (*domain.DeliveryOrder, error) {
	var o domain.DeliveryOrder
	var curLat, curLng sql.NullFloat64
	var status string

	err := row.Scan(
		&o.OrderID, &o.PartnerID, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress,
		&o.Pickup.Lat, &o.Pickup.Lng, &o.Dropoff.Lat, &o.Dropoff.Lng,
		&curLat, &curLng,
		&o.TotalDistanceKm, &o.RemainingDistanceKm, &o.EstimatedTimeMin,
		&o.Progress, &status, &o.DeliveryFee, &o.Version,
	)
	if err != nil {
		return nil, err
	}

	o.Status = domain.DeliveryStatus(status)
	if curLat.Valid && curLng.Valid {
		o.Current = &domain.Location{Lat: curLat.Float64, Lng: curLng.Float64}
	}

	return &o, nil
}

// Fetch the partner's current in-flight order. Absence is ports.ErrNotFound.
func (r *SQLDeliveryRepository) ActiveByPartner(ctx context.Context, partnerID string) (*domain.DeliveryOrder, error) {
	q := `
	SELECT ` + orderColumns + `
	FROM deliveries
	WHERE partner_id = $1 AND status IN ('pending', 'picked_up', 'in_transit')
	ORDER BY created_at DESC
	LIMIT 1;
	`

	o, err := r.scanOrder(r.DB.QueryRowContext(ctx, q, partnerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("active delivery: query partner %q: %w", partnerID, err)
	}

	if err := r.loadCollaborators(ctx, o); err != nil {
		return nil, fmt.Errorf("active delivery: %w", err)
	}
	return o, nil
}

// Fetch one order by id. Absence is ports.ErrNotFound.
func (r *SQLDeliveryRepository) ByID(ctx context.Context, orderID string) (*domain.DeliveryOrder, error) {
	q := `
	SELECT ` + orderColumns + `
	FROM deliveries
	WHERE order_id = $1;
	`

	o, err := r.scanOrder(r.DB.QueryRowContext(ctx, q, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delivery by id: query %q: %w", orderID, err)
	}

	if err := r.loadCollaborators(ctx, o); err != nil {
		return nil, fmt.Errorf("delivery by id: %w", err)
	}
	return o, nil
}

// Fetch every non-terminal order for the partner, newest first. Route
// planning must see all open stops, so there is no row limit here.
func (r *SQLDeliveryRepository) OpenByPartner(ctx context.Context, partnerID string) ([]*domain.DeliveryOrder, error) {
	q := `
	SELECT ` + orderColumns + `
	FROM deliveries
	WHERE partner_id = $1 AND status IN ('pending', 'picked_up', 'in_transit')
	ORDER BY created_at DESC;
	`

	rows, err := r.DB.QueryContext(ctx, q, partnerID)
	if err != nil {
		return nil, fmt.Errorf("open deliveries: query partner %q: %w", partnerID, err)
	}
	defer rows.Close()

	var out []*domain.DeliveryOrder
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("open deliveries: scan rows: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("open deliveries: row iteration: %w", err)
	}

	for _, o := range out {
		if err := r.loadCollaborators(ctx, o); err != nil {
			return nil, fmt.Errorf("open deliveries: %w", err)
		}
	}

	return out, nil
}

// Fetch the partner's most recent orders, newest first.
func (r *SQLDeliveryRepository) History(ctx context.Context, partnerID string, limit int) ([]*domain.DeliveryOrder, error) {
	if limit <= 0 {
		limit = 20
	}

	q := `
	SELECT ` + orderColumns + `
	FROM deliveries
	WHERE partner_id = $1
	ORDER BY created_at DESC
	LIMIT $2;
	`

	rows, err := r.DB.QueryContext(ctx, q, partnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("delivery history: query partner %q: %w", partnerID, err)
	}
	defer rows.Close()

	var out []*domain.DeliveryOrder
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("delivery history: scan rows: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delivery history: row iteration: %w", err)
	}

	for _, o := range out {
		if err := r.loadCollaborators(ctx, o); err != nil {
			return nil, fmt.Errorf("delivery history: %w", err)
		}
	}

	return out, nil
}

// UpdateTracking persists progress, location, metrics and status with a
// compare-and-set on the aggregate version. A lost race surfaces as
// ports.ErrVersionConflict and the aggregate's version is bumped on success.
func (r *SQLDeliveryRepository) UpdateTracking(ctx context.Context, o *domain.DeliveryOrder) error {
	q := `
	UPDATE deliveries
	SET progress = $1,
		status = $2,
		remaining_distance_km = $3,
		estimated_time_min = $4,
		current_lat = $5,
		current_lng = $6,
		version = version + 1
	WHERE order_id = $7 AND version = $8;
	`

	var curLat, curLng sql.NullFloat64
	if o.Current != nil {
		curLat = sql.NullFloat64{Float64: o.Current.Lat, Valid: true}
		curLng = sql.NullFloat64{Float64: o.Current.Lng, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, q,
		o.Progress, string(o.Status), o.RemainingDistanceKm, o.EstimatedTimeMin,
		curLat, curLng, o.OrderID, o.Version,
	)
	if err != nil {
		return fmt.Errorf("update tracking: order %q: %w", o.OrderID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tracking: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update tracking: order %q version %d: %w", o.OrderID, o.Version, ports.ErrVersionConflict)
	}

	o.Version++
	return nil
}

// ReplaceAlternatives swaps the order's route alternative set in one
// transaction so readers never observe a partially-written set.
func (r *SQLDeliveryRepository) ReplaceAlternatives(ctx context.Context, orderID string, alts []domain.RouteAlternative) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace alternatives: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_alternatives WHERE order_id = $1;`, orderID); err != nil {
		return fmt.Errorf("replace alternatives: clear order %q: %w", orderID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_alternatives (order_id, route_id, name, time_min, distance_km, traffic, active, coordinates)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`)
	if err != nil {
		return fmt.Errorf("replace alternatives: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, a := range alts {
		coordsJSON, err := json.Marshal(a.Coordinates)
		if err != nil {
			return fmt.Errorf("replace alternatives: encode coordinates route %q: %w", a.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, orderID, a.ID, a.Name, a.TimeMin, a.DistanceKm, string(a.Traffic), a.Active, coordsJSON); err != nil {
			return fmt.Errorf("replace alternatives: insert route %q: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace alternatives: commit: %w", err)
	}
	return nil
}

// Fetch the order's route alternatives.
func (r *SQLDeliveryRepository) AlternativesByOrder(ctx context.Context, orderID string) ([]domain.RouteAlternative, error) {
	q := `
	SELECT route_id, name, time_min, distance_km, traffic, active, coordinates
	FROM route_alternatives
	WHERE order_id = $1
	ORDER BY route_id;
	`

	rows, err := r.DB.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("alternatives: query order %q: %w", orderID, err)
	}
	defer rows.Close()

	var out []domain.RouteAlternative
	for rows.Next() {
		var a domain.RouteAlternative
		var traffic string
		var coordsJSON []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.TimeMin, &a.DistanceKm, &traffic, &a.Active, &coordsJSON); err != nil {
			return nil, fmt.Errorf("alternatives: scan rows: %w", err)
		}
		a.Traffic = domain.TrafficLevel(traffic)
		if err := json.Unmarshal(coordsJSON, &a.Coordinates); err != nil {
			return nil, fmt.Errorf("alternatives: decode coordinates route %q: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("alternatives: row iteration: %w", err)
	}

	return out, nil
}

func (r *SQLDeliveryRepository) loadCollaborators(ctx context.Context, o *domain.DeliveryOrder) error {
	itemRows, err := r.DB.QueryContext(ctx, `
	SELECT name, quantity, category, fragile, refrigerated
	FROM delivery_items
	WHERE order_id = $1
	ORDER BY position;
	`, o.OrderID)
	if err != nil {
		return fmt.Errorf("load items: order %q: %w", o.OrderID, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it domain.Item
		if err := itemRows.Scan(&it.Name, &it.Quantity, &it.Category, &it.Fragile, &it.Refrigerated); err != nil {
			return fmt.Errorf("load items: scan rows: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("load items: row iteration: %w", err)
	}

	contactRows, err := r.DB.QueryContext(ctx, `
	SELECT name, number, category, priority
	FROM delivery_contacts
	WHERE order_id = $1
	ORDER BY priority;
	`, o.OrderID)
	if err != nil {
		return fmt.Errorf("load contacts: order %q: %w", o.OrderID, err)
	}
	defer contactRows.Close()

	for contactRows.Next() {
		var c domain.EmergencyContact
		if err := contactRows.Scan(&c.Name, &c.Number, &c.Category, &c.Priority); err != nil {
			return fmt.Errorf("load contacts: scan rows: %w", err)
		}
		o.Contacts = append(o.Contacts, c)
	}
	if err := contactRows.Err(); err != nil {
		return fmt.Errorf("load contacts: row iteration: %w", err)
	}

	return nil
}
