package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TrackerMetrics instruments the tracking update loop.
type TrackerMetrics struct {
	ticks          *prometheus.CounterVec
	alertRefreshes prometheus.Counter
	fallbacks      prometheus.Counter
	tickDuration   prometheus.Histogram
}

func NewTrackerMetrics(reg prometheus.Registerer) *TrackerMetrics {
	m := &TrackerMetrics{
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracking_ticks_total",
			Help: "Tracking loop ticks by result.",
		}, []string{"result"}),
		alertRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracking_alert_refreshes_total",
			Help: "Alert refreshes sampled by the tracking loop.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geospatial_fallbacks_total",
			Help: "Provider calls answered by the fallback provider.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracking_tick_duration_seconds",
			Help:    "Duration of one tracking loop tick.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.ticks, m.alertRefreshes, m.fallbacks, m.tickDuration)
	}

	return m
}

func (m *TrackerMetrics) IncTick(result string) {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues(result).Inc()
}

func (m *TrackerMetrics) IncAlertRefresh() {
	if m == nil {
		return
	}
	m.alertRefreshes.Inc()
}

func (m *TrackerMetrics) IncFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

func (m *TrackerMetrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}
