package domain

type TrafficLevel string

const (
	TrafficLight    TrafficLevel = "light"
	TrafficModerate TrafficLevel = "moderate"
	TrafficHeavy    TrafficLevel = "heavy"
)

// RouteAlternative is one candidate path for a delivery, differentiated by
// time, distance and traffic level. Across the set held for one order
// exactly one alternative is active at all times.
type RouteAlternative struct {
	ID          string
	Name        string
	TimeMin     int
	DistanceKm  float64
	Traffic     TrafficLevel
	Active      bool
	Coordinates []LatLng
}

// ActivateRoute returns a copy of the set with the chosen alternative active
// and every other one inactive. The flip is atomic: the input is untouched
// on error, and the output never holds zero or multiple active entries.
func ActivateRoute(alts []RouteAlternative, id string) ([]RouteAlternative, error) {
	found := false
	for _, a := range alts {
		if a.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, rejectf("no route alternative with id %q", id)
	}

	out := make([]RouteAlternative, len(alts))
	copy(out, alts)
	for i := range out {
		out[i].Active = out[i].ID == id
	}
	return out, nil
}

// ActiveRoute returns the currently active alternative.
func ActiveRoute(alts []RouteAlternative) (RouteAlternative, bool) {
	for _, a := range alts {
		if a.Active {
			return a, true
		}
	}
	return RouteAlternative{}, false
}

type AlertType string

const (
	AlertTraffic  AlertType = "traffic"
	AlertRoad     AlertType = "road"
	AlertWeather  AlertType = "weather"
	AlertAccident AlertType = "accident"
)

type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// TrafficAlert is an ephemeral advisory near a location. Alerts are
// regenerated per tick and never persisted long-term.
type TrafficAlert struct {
	ID       string
	Type     AlertType
	Severity AlertSeverity
	Location *Location
	Message  string
	Active   bool
}
