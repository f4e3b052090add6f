package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// memRepository is an in-memory DeliveryRepository with the same version
// guard semantics as the SQL implementation.
type memRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.DeliveryOrder
	alts   map[string][]domain.RouteAlternative

	updateErr  error
	updateCnt  int
	replaceErr error
}

func newMemRepository(orders ...*domain.DeliveryOrder) *memRepository {
	r := &memRepository{
		orders: make(map[string]*domain.DeliveryOrder),
		alts:   make(map[string][]domain.RouteAlternative),
	}
	for _, o := range orders {
		c := *o
		r.orders[o.OrderID] = &c
	}
	return r
}

func (r *memRepository) ActiveByPartner(_ context.Context, partnerID string) (*domain.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PartnerID == partnerID && !o.Status.Terminal() {
			c := *o
			return &c, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *memRepository) ByID(_ context.Context, orderID string) (*domain.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (r *memRepository) History(_ context.Context, partnerID string, limit int) ([]*domain.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.DeliveryOrder
	for _, o := range r.orders {
		if o.PartnerID == partnerID {
			c := *o
			out = append(out, &c)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memRepository) OpenByPartner(_ context.Context, partnerID string) ([]*domain.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.DeliveryOrder
	for _, o := range r.orders {
		if o.PartnerID == partnerID && !o.Status.Terminal() {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memRepository) UpdateTracking(_ context.Context, o *domain.DeliveryOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCnt++
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.orders[o.OrderID]
	if !ok {
		return fmt.Errorf("update tracking: order %q: %w", o.OrderID, ports.ErrNotFound)
	}
	if stored.Version != o.Version {
		return fmt.Errorf("update tracking: order %q: %w", o.OrderID, ports.ErrVersionConflict)
	}
	c := *o
	c.Version++
	r.orders[o.OrderID] = &c
	o.Version = c.Version
	return nil
}

func (r *memRepository) ReplaceAlternatives(_ context.Context, orderID string, alts []domain.RouteAlternative) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.alts[orderID] = append([]domain.RouteAlternative(nil), alts...)
	return nil
}

func (r *memRepository) AlternativesByOrder(_ context.Context, orderID string) ([]domain.RouteAlternative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RouteAlternative(nil), r.alts[orderID]...), nil
}

// memLiveCache records snapshot writes for assertion.
type memLiveCache struct {
	mu    sync.Mutex
	snaps map[string]ports.LiveSnapshot
	puts  int
}

func newMemLiveCache() *memLiveCache {
	return &memLiveCache{snaps: make(map[string]ports.LiveSnapshot)}
}

func (c *memLiveCache) Put(_ context.Context, snap ports.LiveSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.snaps[snap.OrderID] = snap
	return nil
}

func (c *memLiveCache) Get(_ context.Context, orderID string) (ports.LiveSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snaps[orderID]
	if !ok {
		return ports.LiveSnapshot{}, ports.ErrNotFound
	}
	return snap, nil
}

func (c *memLiveCache) Delete(_ context.Context, orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snaps, orderID)
	return nil
}

// recordingNotifier captures sends and answers with a fixed result.
type recordingNotifier struct {
	mu     sync.Mutex
	result bool
	kinds  []ports.NotificationKind
}

func (n *recordingNotifier) Send(_ context.Context, _ *domain.DeliveryOrder, _ string, kind ports.NotificationKind) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return n.result
}

// fixedRouter is a GeospatialProvider answering Route with canned metrics.
type fixedRouter struct {
	info ports.RouteInfo
	err  error
}

func (p *fixedRouter) Geocode(context.Context, string) (domain.Location, error) {
	return domain.Location{}, ports.ErrNotFound
}

func (p *fixedRouter) ReverseGeocode(context.Context, float64, float64) (domain.Location, error) {
	return domain.Location{}, ports.ErrNotFound
}

func (p *fixedRouter) Route(context.Context, domain.Location, domain.Location, ports.TravelMode) (ports.RouteInfo, error) {
	if p.err != nil {
		return ports.RouteInfo{}, p.err
	}
	return p.info, nil
}

func (p *fixedRouter) StaticMapURL(ports.StaticMapParams) string {
	return ""
}

// fixedAlerts returns the same alert list on every sample.
type fixedAlerts struct {
	alerts []domain.TrafficAlert
	err    error
	calls  int
	mu     sync.Mutex
}

func (a *fixedAlerts) AlertsNear(context.Context, domain.Location, int) ([]domain.TrafficAlert, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return append([]domain.TrafficAlert(nil), a.alerts...), nil
}

func testOrder() *domain.DeliveryOrder {
	return &domain.DeliveryOrder{
		OrderID:          "ORD-1001",
		PartnerID:        "partner-7",
		CustomerName:     "Asha Verma",
		Pickup:           domain.Location{Lat: 28.6196, Lng: 77.3678, Address: "Sector 18, Noida"},
		Dropoff:          domain.Location{Lat: 28.5672, Lng: 77.3210, Address: "Sector 137, Noida"},
		TotalDistanceKm:  12.0,
		EstimatedTimeMin: 40,
		Status:           domain.StatusPending,
		Version:          1,
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
