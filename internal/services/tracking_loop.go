package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/metrics"
	"delivery-tracking-service/internal/ports"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type TrackerConfig struct {
	// Interval between ticks. Reference behavior is 2 seconds.
	Interval time.Duration
	// Step is the progress increment applied per tick.
	Step int
	// AlertProbability is the Bernoulli chance that one tick refreshes
	// alerts. Sampling per tick keeps the partner from being flooded.
	AlertProbability float64
	AlertRadiusM     int
}

func (c *TrackerConfig) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}
	if c.Step <= 0 {
		c.Step = 1
	}
	if c.AlertProbability <= 0 {
		c.AlertProbability = 0.1
	}
	if c.AlertRadiusM <= 0 {
		c.AlertRadiusM = 2000
	}
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Tracker drives the periodic update loop: one goroutine per tracked order,
// never a shared global timer. Each loop owns its DeliveryOrder aggregate
// for the session (single-writer discipline), so progress updates apply
// strictly in tick order.
type Tracker struct {
	engine  *TrackingEngine
	repo    ports.DeliveryRepository
	alerts  ports.AlertSource
	cfg     TrackerConfig
	log     zerolog.Logger
	metrics *metrics.TrackerMetrics

	mu       sync.Mutex
	rng      *rand.Rand
	sessions map[string]*session
}

func NewTracker(
	engine *TrackingEngine,
	repo ports.DeliveryRepository,
	alerts ports.AlertSource,
	cfg TrackerConfig,
	log zerolog.Logger,
	m *metrics.TrackerMetrics,
	seed int64,
) *Tracker {
	cfg.applyDefaults()

	return &Tracker{
		engine:   engine,
		repo:     repo,
		alerts:   alerts,
		cfg:      cfg,
		log:      log,
		metrics:  m,
		rng:      rand.New(rand.NewSource(seed)),
		sessions: make(map[string]*session),
	}
}

// Start begins tracking an order. One session per order: starting an
// already-tracked order is an error, as is tracking a terminal one.
func (t *Tracker) Start(ctx context.Context, o *domain.DeliveryOrder) error {
	if o.Status.Terminal() {
		return fmt.Errorf("start tracking: order %q is %s", o.OrderID, o.Status)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.sessions[o.OrderID]; ok {
		return fmt.Errorf("start tracking: order %q already tracked", o.OrderID)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &session{cancel: cancel, done: make(chan struct{})}
	t.sessions[o.OrderID] = s

	go t.run(runCtx, o, s)

	t.log.Info().Str("order_id", o.OrderID).Dur("interval", t.cfg.Interval).Msg("tracking started")
	return nil
}

// Stop cancels the order's tracking session and waits for the pending tick
// to finish, so no write lands after Stop returns.
func (t *Tracker) Stop(orderID string) bool {
	t.mu.Lock()
	s, ok := t.sessions[orderID]
	t.mu.Unlock()

	if !ok {
		return false
	}

	s.cancel()
	<-s.done
	return true
}

// StopAll stops every active session. Used on shutdown.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	ids := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	for _, id := range ids {
		t.Stop(id)
	}
}

// Tracking reports whether the order currently has a live session.
func (t *Tracker) Tracking(orderID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.sessions[orderID]
	return ok
}

func (t *Tracker) run(ctx context.Context, o *domain.DeliveryOrder, s *session) {
	defer func() {
		t.mu.Lock()
		delete(t.sessions, o.OrderID)
		t.mu.Unlock()
		close(s.done)
	}()

	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Info().Str("order_id", o.OrderID).Msg("tracking cancelled")
			return
		case <-ticker.C:
			if done := t.Tick(ctx, o); done {
				t.log.Info().Str("order_id", o.OrderID).Int("progress", o.Progress).Msg("tracking finished")
				return
			}
		}
	}
}

// Tick executes one loop iteration: advance progress by the configured
// step, recompute the ETA, and with the sampled probability refresh alerts.
// Returns true when the loop should stop (progress reached 100 or the order
// left the trackable states). A degraded provider call never stalls the
// next increment; completion is never triggered here.
func (t *Tracker) Tick(ctx context.Context, o *domain.DeliveryOrder) bool {
	start := time.Now()
	defer func() { t.metrics.ObserveTick(time.Since(start)) }()

	next := o.Progress + t.cfg.Step
	if next > 100 {
		next = 100
	}

	if err := t.engine.AdvanceProgress(ctx, o, next, o.Current); err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			// Terminal or otherwise untrackable order; stop cleanly.
			t.log.Info().Str("order_id", o.OrderID).Str("reason", ve.Reason).Msg("tick rejected, stopping")
			t.metrics.IncTick("rejected")
			return true
		case errors.Is(err, ports.ErrVersionConflict):
			// Another writer raced us; reload and try again next tick.
			t.metrics.IncTick("conflict")
			fresh, loadErr := t.repo.ByID(ctx, o.OrderID)
			if loadErr != nil {
				t.log.Warn().Err(loadErr).Str("order_id", o.OrderID).Msg("reload after version conflict failed")
				return false
			}
			*o = *fresh
			return o.Status.Terminal()
		default:
			t.log.Warn().Err(err).Str("order_id", o.OrderID).Msg("tick update failed")
			t.metrics.IncTick("error")
			return false
		}
	}

	t.metrics.IncTick("ok")

	if t.sampleAlerts() {
		t.refreshAlerts(ctx, o)
	}

	return o.Progress >= 100
}

func (t *Tracker) sampleAlerts() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rng.Float64() < t.cfg.AlertProbability
}

func (t *Tracker) refreshAlerts(ctx context.Context, o *domain.DeliveryOrder) {
	at := o.Pickup
	if o.Current != nil {
		at = *o.Current
	}

	fresh, err := t.alerts.AlertsNear(ctx, at, t.cfg.AlertRadiusM)
	if err != nil {
		// Alerts are advisory; a failed refresh degrades to the stale list.
		t.log.Warn().Err(err).Str("order_id", o.OrderID).Msg("alert refresh failed")
		return
	}

	t.engine.RefreshAlerts(ctx, o, fresh)
	t.metrics.IncAlertRefresh()
}
