package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"testing"
	"time"
)

func newTestTracker(repo *memRepository, alerts ports.AlertSource, cfg TrackerConfig) (*Tracker, *TrackingEngine, *memLiveCache) {
	live := newMemLiveCache()
	eng := NewTrackingEngine(repo, live, nil, testLogger())
	return NewTracker(eng, repo, alerts, cfg, testLogger(), nil, 1), eng, live
}

func TestTickAdvancesByStep(t *testing.T) {
	o := testOrder()
	o.EstimatedTimeMin = 35
	repo := newMemRepository(o)
	tr, eng, _ := newTestTracker(repo, &fixedAlerts{}, TrackerConfig{Step: 1})
	// Keep alert sampling out of the way; zero is replaced by the default
	// in applyDefaults, so it is set after construction.
	tr.cfg.AlertProbability = 0

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	eng.WithClock(func() time.Time { return now })

	for i := 0; i < 45; i++ {
		if done := tr.Tick(context.Background(), o); done {
			t.Fatalf("tick %d reported done at progress %d", i, o.Progress)
		}
	}

	if o.Progress != 45 {
		t.Fatalf("progress after 45 ticks = %d, want 45", o.Progress)
	}
	if o.Status != domain.StatusInTransit {
		t.Fatalf("status = %s, want in_transit", o.Status)
	}

	// 55% of a 35 minute trip remains: 19.25 minutes.
	want := now.Add(19*time.Minute + 15*time.Second)
	if got := eng.ETA(o); !got.Equal(want) {
		t.Fatalf("ETA = %v, want %v", got, want)
	}
}

func TestTickCapsAtHundredWithoutCompleting(t *testing.T) {
	o := testOrder()
	o.Status = domain.StatusInTransit
	o.Progress = 95
	repo := newMemRepository(o)
	tr, _, _ := newTestTracker(repo, &fixedAlerts{}, TrackerConfig{Step: 10})
	tr.cfg.AlertProbability = 0

	done := tr.Tick(context.Background(), o)
	if !done {
		t.Fatal("tick at progress 100 should stop the loop")
	}
	if o.Progress != 100 {
		t.Fatalf("progress = %d, want capped at 100", o.Progress)
	}
	// Reaching 100 never completes the delivery by itself.
	if o.Status != domain.StatusInTransit {
		t.Fatalf("status = %s, want still in_transit", o.Status)
	}
}

func TestTickStopsOnTerminalOrder(t *testing.T) {
	o := testOrder()
	o.Status = domain.StatusDelivered
	o.Progress = 100
	repo := newMemRepository(o)
	tr, _, _ := newTestTracker(repo, &fixedAlerts{}, TrackerConfig{})
	tr.cfg.AlertProbability = 0

	if done := tr.Tick(context.Background(), o); !done {
		t.Fatal("tick on delivered order should stop the loop")
	}
	if o.Progress != 100 || o.Status != domain.StatusDelivered {
		t.Fatalf("terminal order mutated: %+v", o)
	}
}

func TestTickSamplesAlerts(t *testing.T) {
	o := testOrder()
	o.Status = domain.StatusInTransit
	o.Progress = 10
	alerts := &fixedAlerts{alerts: []domain.TrafficAlert{{ID: "a1", Message: "congestion ahead"}}}
	repo := newMemRepository(o)
	tr, _, live := newTestTracker(repo, alerts, TrackerConfig{AlertProbability: 1})

	if done := tr.Tick(context.Background(), o); done {
		t.Fatal("tick reported done")
	}
	if alerts.calls != 1 {
		t.Fatalf("alert source sampled %d times, want 1", alerts.calls)
	}
	if len(o.Alerts) != 1 || o.Alerts[0].ID != "a1" {
		t.Fatalf("alerts not merged: %+v", o.Alerts)
	}
	snap, err := live.Get(context.Background(), o.OrderID)
	if err != nil || len(snap.Alerts) != 1 {
		t.Fatalf("snapshot alerts = %+v, err %v", snap.Alerts, err)
	}
}

func TestTickSurvivesAlertSourceFailure(t *testing.T) {
	o := testOrder()
	o.Status = domain.StatusInTransit
	o.Progress = 10
	alerts := &fixedAlerts{err: context.DeadlineExceeded}
	repo := newMemRepository(o)
	tr, _, _ := newTestTracker(repo, alerts, TrackerConfig{AlertProbability: 1})

	if done := tr.Tick(context.Background(), o); done {
		t.Fatal("alert failure stopped the loop")
	}
	if o.Progress != 11 {
		t.Fatalf("progress = %d, want 11 despite alert failure", o.Progress)
	}
}

func TestTickReloadsOnVersionConflict(t *testing.T) {
	o := testOrder()
	o.Status = domain.StatusInTransit
	o.Progress = 10
	repo := newMemRepository(o)
	tr, _, _ := newTestTracker(repo, &fixedAlerts{}, TrackerConfig{})
	tr.cfg.AlertProbability = 0

	// A concurrent writer advanced the stored aggregate underneath the loop.
	stored := repo.orders[o.OrderID]
	stored.Progress = 20
	stored.Version = 3

	if done := tr.Tick(context.Background(), o); done {
		t.Fatal("conflict tick should not end the loop")
	}
	if o.Version != 3 || o.Progress != 20 {
		t.Fatalf("aggregate not reloaded: progress %d version %d", o.Progress, o.Version)
	}

	// The next tick proceeds from the reloaded state.
	if done := tr.Tick(context.Background(), o); done {
		t.Fatal("post-reload tick reported done")
	}
	if o.Progress != 21 {
		t.Fatalf("progress = %d, want 21", o.Progress)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	o := testOrder()
	repo := newMemRepository(o)
	tr, _, _ := newTestTracker(repo, &fixedAlerts{}, TrackerConfig{Interval: 5 * time.Millisecond})
	tr.cfg.AlertProbability = 0

	if err := tr.Start(context.Background(), o); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !tr.Tracking(o.OrderID) {
		t.Fatal("order not reported as tracked")
	}
	if err := tr.Start(context.Background(), o); err == nil {
		t.Fatal("second Start on the same order accepted")
	}

	// Give the loop a few intervals to tick.
	time.Sleep(30 * time.Millisecond)

	if !tr.Stop(o.OrderID) {
		t.Fatal("Stop on tracked order returned false")
	}
	if tr.Tracking(o.OrderID) {
		t.Fatal("order still tracked after Stop")
	}
	if tr.Stop(o.OrderID) {
		t.Fatal("Stop on untracked order returned true")
	}

	if o.Progress == 0 {
		t.Fatal("loop never advanced progress")
	}

	// A stopped session can be restarted.
	if err := tr.Start(context.Background(), o); err != nil {
		t.Fatalf("restart: %v", err)
	}
	tr.StopAll()
	if tr.Tracking(o.OrderID) {
		t.Fatal("order still tracked after StopAll")
	}
}

func TestStartRejectsTerminalOrder(t *testing.T) {
	o := testOrder()
	o.Status = domain.StatusCancelled
	tr, _, _ := newTestTracker(newMemRepository(o), &fixedAlerts{}, TrackerConfig{})

	if err := tr.Start(context.Background(), o); err == nil {
		t.Fatal("tracking a cancelled order accepted")
	}
}

func TestLoopRunsToHundredAndExits(t *testing.T) {
	o := testOrder()
	o.Status = domain.StatusInTransit
	o.Progress = 90
	repo := newMemRepository(o)
	tr, _, _ := newTestTracker(repo, &fixedAlerts{}, TrackerConfig{Interval: 2 * time.Millisecond, Step: 5})
	tr.cfg.AlertProbability = 0

	if err := tr.Start(context.Background(), o); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for tr.Tracking(o.OrderID) {
		select {
		case <-deadline:
			t.Fatalf("loop did not finish; progress %d", o.Progress)
		case <-time.After(5 * time.Millisecond):
		}
	}

	if o.Progress != 100 {
		t.Fatalf("progress = %d, want 100", o.Progress)
	}
	if o.Status != domain.StatusInTransit {
		t.Fatalf("status = %s, loop must not complete deliveries", o.Status)
	}
}
