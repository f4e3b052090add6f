package alerts

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Advisory templates cycled through by the synthetic source.
var templates = []struct {
	typ      domain.AlertType
	severity domain.AlertSeverity
	message  string
}{
	{domain.AlertTraffic, domain.SeverityMedium, "Heavy traffic reported ahead"},
	{domain.AlertRoad, domain.SeverityLow, "Road work on the main carriageway"},
	{domain.AlertWeather, domain.SeverityMedium, "Reduced visibility due to rain"},
	{domain.AlertAccident, domain.SeverityHigh, "Accident reported, expect delays"},
	{domain.AlertTraffic, domain.SeverityLow, "Slow-moving traffic near the market"},
}

// SyntheticSource fabricates plausible alerts near a location. It exists for
// offline mode and tests; outputs depend only on the injected seed, never on
// a shared global generator.
type SyntheticSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	// MaxAlerts bounds how many alerts one call returns.
	MaxAlerts int
}

func NewSyntheticSource(seed int64) *SyntheticSource {
	return &SyntheticSource{
		rng:       rand.New(rand.NewSource(seed)),
		MaxAlerts: 2,
	}
}

// AlertsNear returns up to MaxAlerts advisories scattered inside the radius.
func (s *SyntheticSource) AlertsNear(ctx context.Context, loc domain.Location, radiusMeters int) ([]domain.TrafficAlert, error) {
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("alerts near: radius must be positive, got %d", radiusMeters)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 1 + s.rng.Intn(s.MaxAlerts)
	out := make([]domain.TrafficAlert, 0, n)

	// One degree of latitude is ~111 km; scale the radius accordingly.
	radiusDeg := float64(radiusMeters) / 111_000

	for i := 0; i < n; i++ {
		tpl := templates[s.rng.Intn(len(templates))]
		at := domain.Location{
			Lat: loc.Lat + (s.rng.Float64()*2-1)*radiusDeg,
			Lng: loc.Lng + (s.rng.Float64()*2-1)*radiusDeg,
		}

		out = append(out, domain.TrafficAlert{
			ID:       uuid.NewString(),
			Type:     tpl.typ,
			Severity: tpl.severity,
			Location: &at,
			Message:  tpl.message,
			Active:   true,
		})
	}

	return out, nil
}
