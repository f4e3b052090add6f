package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type GeoHandler struct {
	Geo ports.GeospatialProvider
	Log zerolog.Logger
}

// Geocode resolves a free-text address to coordinates.
func (h *GeoHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(h.Log, w, http.StatusBadRequest, "address is required")
		return
	}

	loc, err := h.Geo.Geocode(r.Context(), address)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, toGeocode(loc))
}

// ReverseGeocode resolves coordinates back to an address.
func (h *GeoHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := h.coords(w, r)
	if !ok {
		return
	}

	loc, err := h.Geo.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		writeDomainError(h.Log, w, err)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, toGeocode(loc))
}

// StaticMap builds a static map image URL centered on a point. Extra
// markers come from repeated marker=lat,lng query params; the center is
// always a marker.
func (h *GeoHandler) StaticMap(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := h.coords(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	center := domain.Location{Lat: lat, Lng: lng}
	p := ports.StaticMapParams{
		Lat:     lat,
		Lng:     lng,
		Markers: []domain.LatLng{center.LatLng()},
	}
	for _, raw := range q["marker"] {
		mLat, mLng, ok := parseLatLng(raw)
		if !ok {
			writeError(h.Log, w, http.StatusBadRequest, "marker must look like 28.61,77.36")
			return
		}
		p.Markers = append(p.Markers, domain.LatLng{Lat: mLat, Lng: mLng})
	}
	if raw := q.Get("zoom"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 19 {
			writeError(h.Log, w, http.StatusBadRequest, "zoom must be an integer between 1 and 19")
			return
		}
		p.Zoom = n
	}
	if raw := q.Get("size"); raw != "" {
		wpx, hpx, ok := strings.Cut(raw, "x")
		width, errW := strconv.Atoi(wpx)
		height, errH := strconv.Atoi(hpx)
		if !ok || errW != nil || errH != nil || width < 1 || height < 1 || width > 2048 || height > 2048 {
			writeError(h.Log, w, http.StatusBadRequest, "size must look like 600x400")
			return
		}
		p.Width, p.Height = width, height
	}

	writeJSON(h.Log, w, http.StatusOK, dto.StaticMapResponse{URL: h.Geo.StaticMapURL(p)})
}

func (h *GeoHandler) coords(w http.ResponseWriter, r *http.Request) (lat, lng float64, ok bool) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeError(h.Log, w, http.StatusBadRequest, "valid lat and lng are required")
		return 0, 0, false
	}
	return lat, lng, true
}

func parseLatLng(raw string) (lat, lng float64, ok bool) {
	a, b, found := strings.Cut(raw, ",")
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(a), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if !found || errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

func toGeocode(l domain.Location) dto.GeocodeResponse {
	return dto.GeocodeResponse{
		Lat:     l.Lat,
		Lng:     l.Lng,
		Address: l.Address,
		City:    l.City,
		Country: l.Country,
	}
}
