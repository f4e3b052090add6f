package alerts

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"testing"
)

func TestSyntheticAlertsNear(t *testing.T) {
	src := NewSyntheticSource(7)
	loc := domain.Location{Lat: 28.60, Lng: 77.35}

	got, err := src.AlertsNear(context.Background(), loc, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 || len(got) > src.MaxAlerts {
		t.Fatalf("alert count = %d, want 1..%d", len(got), src.MaxAlerts)
	}

	seen := map[string]struct{}{}
	for _, a := range got {
		if a.ID == "" {
			t.Fatal("alert without id")
		}
		if _, dup := seen[a.ID]; dup {
			t.Fatalf("duplicate alert id %q", a.ID)
		}
		seen[a.ID] = struct{}{}

		if !a.Active {
			t.Fatalf("alert %q not active", a.ID)
		}
		if a.Location == nil {
			t.Fatalf("alert %q has no location", a.ID)
		}
		// 2 km radius is well under a tenth of a degree.
		if dLat := a.Location.Lat - loc.Lat; dLat > 0.1 || dLat < -0.1 {
			t.Fatalf("alert %q too far from query point: %+v", a.ID, a.Location)
		}
	}
}

func TestSyntheticAlertsRejectsBadRadius(t *testing.T) {
	src := NewSyntheticSource(7)

	if _, err := src.AlertsNear(context.Background(), domain.Location{}, 0); err == nil {
		t.Fatal("expected error for zero radius")
	}
}
