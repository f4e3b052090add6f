package geo

import (
	"delivery-tracking-service/internal/ports"
	"fmt"
	"net/url"
	"strconv"
)

const staticMapBase = "https://staticmap.openstreetmap.de/staticmap.php"

// StaticMapURL builds a static map image URL. Pure URL construction, no
// network call, never fails.
func (o *ORSProvider) StaticMapURL(p ports.StaticMapParams) string {
	return staticMapURL(p)
}

func staticMapURL(p ports.StaticMapParams) string {
	if p.Zoom <= 0 {
		p.Zoom = 14
	}
	if p.Width <= 0 {
		p.Width = 600
	}
	if p.Height <= 0 {
		p.Height = 400
	}

	q := url.Values{}
	q.Set("center", fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng))
	q.Set("zoom", strconv.Itoa(p.Zoom))
	q.Set("size", fmt.Sprintf("%dx%d", p.Width, p.Height))
	q.Set("maptype", "mapnik")

	for _, m := range p.Markers {
		q.Add("markers", fmt.Sprintf("%.6f,%.6f,red-pushpin", m.Lat, m.Lng))
	}

	return staticMapBase + "?" + q.Encode()
}
