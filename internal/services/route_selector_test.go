package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"testing"
)

func countActive(alts []domain.RouteAlternative) int {
	n := 0
	for _, a := range alts {
		if a.Active {
			n++
		}
	}
	return n
}

func TestBuildAlternativesFromProvider(t *testing.T) {
	o := testOrder()
	repo := newMemRepository(o)
	geo := &fixedRouter{info: ports.RouteInfo{
		DistanceKm:  12.0,
		DurationMin: 40,
		Coordinates: []domain.LatLng{{Lat: 28.6196, Lng: 77.3678}, {Lat: 28.5672, Lng: 77.3210}},
	}}
	sel := NewRouteSelector(repo, geo, testLogger())

	alts, err := sel.BuildAlternatives(context.Background(), o)
	if err != nil {
		t.Fatalf("BuildAlternatives: %v", err)
	}
	if len(alts) != 3 {
		t.Fatalf("got %d alternatives, want 3", len(alts))
	}
	if countActive(alts) != 1 || !alts[0].Active || alts[0].ID != "route-1" {
		t.Fatalf("recommended route not active: %+v", alts)
	}
	if alts[0].TimeMin != 40 || alts[0].DistanceKm != 12.0 {
		t.Fatalf("recommended metrics: %+v", alts[0])
	}
	// Variants scale off the recommendation and stay inactive.
	if alts[1].TimeMin != 46 || alts[2].TimeMin != 54 {
		t.Fatalf("variant times: %d, %d", alts[1].TimeMin, alts[2].TimeMin)
	}

	stored, err := repo.AlternativesByOrder(context.Background(), o.OrderID)
	if err != nil || len(stored) != 3 {
		t.Fatalf("persisted %d alternatives, err %v", len(stored), err)
	}
}

func TestSelectFlipsExactlyOneActive(t *testing.T) {
	o := testOrder()
	o.Progress = 50
	repo := newMemRepository(o)
	geo := &fixedRouter{info: ports.RouteInfo{DistanceKm: 12.0, DurationMin: 40}}
	sel := NewRouteSelector(repo, geo, testLogger())

	if _, err := sel.BuildAlternatives(context.Background(), o); err != nil {
		t.Fatalf("BuildAlternatives: %v", err)
	}

	alts, err := sel.Select(context.Background(), o, "route-3")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if countActive(alts) != 1 {
		t.Fatalf("active count = %d, want exactly 1", countActive(alts))
	}
	chosen, ok := domain.ActiveRoute(alts)
	if !ok || chosen.ID != "route-3" {
		t.Fatalf("active route = %+v", chosen)
	}

	// Switching adopts the chosen route's estimate for ETA computation.
	if o.EstimatedTimeMin != 54 {
		t.Fatalf("EstimatedTimeMin = %d, want 54", o.EstimatedTimeMin)
	}
	wantRemaining := chosen.DistanceKm * 0.5
	if diff := o.RemainingDistanceKm - wantRemaining; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("RemainingDistanceKm = %f, want %f", o.RemainingDistanceKm, wantRemaining)
	}
}

func TestSelectUnknownRouteLeavesSetUntouched(t *testing.T) {
	o := testOrder()
	repo := newMemRepository(o)
	geo := &fixedRouter{info: ports.RouteInfo{DistanceKm: 12.0, DurationMin: 40}}
	sel := NewRouteSelector(repo, geo, testLogger())

	if _, err := sel.BuildAlternatives(context.Background(), o); err != nil {
		t.Fatalf("BuildAlternatives: %v", err)
	}

	if _, err := sel.Select(context.Background(), o, "route-99"); err == nil {
		t.Fatal("unknown route id accepted")
	}

	stored, _ := repo.AlternativesByOrder(context.Background(), o.OrderID)
	active, ok := domain.ActiveRoute(stored)
	if !ok || active.ID != "route-1" {
		t.Fatalf("active route changed on rejected select: %+v", active)
	}
	if o.EstimatedTimeMin != 40 {
		t.Fatalf("order estimate changed on rejected select: %d", o.EstimatedTimeMin)
	}
}

func TestSelectWithoutAlternatives(t *testing.T) {
	o := testOrder()
	repo := newMemRepository(o)
	sel := NewRouteSelector(repo, &fixedRouter{}, testLogger())

	_, err := sel.Select(context.Background(), o, "route-1")
	if err == nil {
		t.Fatal("select with no stored alternatives accepted")
	}
}
