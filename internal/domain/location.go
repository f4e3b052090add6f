package domain

import "math"

const earthRadiusKm = 6371.0

// Immutable geographic point. Address fields are optional metadata filled in
// by geocoding; empty strings mean the detail is unknown.
type Location struct {
	Lat     float64
	Lng     float64
	Address string
	City    string
	Country string
}

// LatLng is a bare coordinate pair used for polylines and markers.
type LatLng struct {
	Lat float64
	Lng float64
}

func (l Location) LatLng() LatLng { return LatLng{Lat: l.Lat, Lng: l.Lng} }

// Return coordinates as [lon, lat] for external API compatibility.
func (l Location) CoordsToList() []float64 { return []float64{l.Lng, l.Lat} }

// HaversineKm returns the great-circle distance between two points in
// kilometers. Symmetric: HaversineKm(a, b) == HaversineKm(b, a).
func HaversineKm(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InitialBearingDeg returns the initial compass bearing from a to b in
// degrees, normalized to [0, 360).
func InitialBearingDeg(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Bounds is a simple latitude/longitude bounding box.
type Bounds struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// Contains reports whether the coordinate pair falls inside the box.
// Used to validate that computed coordinates land within the service area.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
