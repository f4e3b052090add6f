package domain

import (
	"errors"
	"testing"
)

func sampleRoutes() []RouteAlternative {
	return []RouteAlternative{
		{ID: "route-1", Name: "Fastest Route", TimeMin: 40, Active: true},
		{ID: "route-2", Name: "Highway Route", TimeMin: 46},
		{ID: "route-3", Name: "Inner Roads", TimeMin: 54},
	}
}

func TestActivateRouteFlipsExactlyOne(t *testing.T) {
	alts := sampleRoutes()

	out, err := ActivateRoute(alts, "route-3")
	if err != nil {
		t.Fatalf("ActivateRoute: %v", err)
	}

	active := 0
	for _, a := range out {
		if a.Active {
			active++
			if a.ID != "route-3" {
				t.Fatalf("active route = %s, want route-3", a.ID)
			}
		}
	}
	if active != 1 {
		t.Fatalf("active count = %d, want exactly 1", active)
	}

	// Input set is untouched.
	if !alts[0].Active || alts[2].Active {
		t.Fatalf("input mutated: %+v", alts)
	}
}

func TestActivateRouteUnknownID(t *testing.T) {
	alts := sampleRoutes()

	_, err := ActivateRoute(alts, "route-99")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !alts[0].Active {
		t.Fatalf("input mutated on rejection: %+v", alts)
	}
}

func TestActiveRoute(t *testing.T) {
	if got, ok := ActiveRoute(sampleRoutes()); !ok || got.ID != "route-1" {
		t.Fatalf("ActiveRoute = %+v, %v", got, ok)
	}
	if _, ok := ActiveRoute(nil); ok {
		t.Fatal("ActiveRoute on empty set reported an active entry")
	}
}
