package domain

import (
	"math"
	"testing"
)

func TestHaversineSymmetricAndZero(t *testing.T) {
	a := Location{Lat: 28.6196, Lng: 77.3678}
	b := Location{Lat: 28.5671, Lng: 77.3247}

	ab := HaversineKm(a, b)
	ba := HaversineKm(b, a)

	if ab != ba {
		t.Fatalf("haversine not symmetric: %v vs %v", ab, ba)
	}
	if got := HaversineKm(a, a); got != 0 {
		t.Fatalf("distance to self = %v, want 0", got)
	}
	// Noida sector 62 to sector 18 is roughly 7.2 km as the crow flies.
	if ab < 7.0 || ab > 7.5 {
		t.Fatalf("distance = %v km, want ~7.2", ab)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// London to Paris, ~343 km great-circle.
	london := Location{Lat: 51.5074, Lng: -0.1278}
	paris := Location{Lat: 48.8566, Lng: 2.3522}

	d := HaversineKm(london, paris)
	if math.Abs(d-343.5) > 2 {
		t.Fatalf("distance = %v km, want ~343.5", d)
	}
}

func TestInitialBearingRange(t *testing.T) {
	a := Location{Lat: 28.6196, Lng: 77.3678}
	b := Location{Lat: 28.5671, Lng: 77.3247}

	deg := InitialBearingDeg(a, b)
	if deg < 0 || deg >= 360 {
		t.Fatalf("bearing %v outside [0,360)", deg)
	}
	// b is south-west of a.
	if deg < 180 || deg > 270 {
		t.Fatalf("bearing %v, want south-west quadrant", deg)
	}
}

func TestBoundsContains(t *testing.T) {
	serviceArea := Bounds{MinLat: 28.0, MinLng: 76.5, MaxLat: 29.0, MaxLng: 78.0}

	cases := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"inside", 28.6, 77.3, true},
		{"on edge", 28.0, 76.5, true},
		{"north of box", 29.5, 77.3, false},
		{"west of box", 28.6, 75.0, false},
	}

	for _, tc := range cases {
		if got := serviceArea.Contains(tc.lat, tc.lng); got != tc.want {
			t.Errorf("%s: Contains(%v, %v) = %v, want %v", tc.name, tc.lat, tc.lng, got, tc.want)
		}
	}
}
