package carbon

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts category resolutions by category and provenance.
type Metrics struct {
	resolutions *prometheus.CounterVec
}

// NewMetrics creates the resolution counter and registers it with reg.
// A nil reg leaves the counter unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghg",
			Name:      "category_resolutions_total",
			Help:      "Category emission resolutions by category and provenance.",
		}, []string{"category", "provenance"}),
	}
	if reg != nil {
		reg.MustRegister(m.resolutions)
	}
	return m
}

// Resolutions exposes the underlying counter for inspection.
func (m *Metrics) Resolutions() *prometheus.CounterVec {
	return m.resolutions
}

func (m *Metrics) observe(ce CategoryEmission) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(string(ce.Category), string(ce.Provenance)).Inc()
}
