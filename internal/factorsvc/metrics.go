package factorsvc

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded by Metrics.
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "http_error"
	OutcomeMalformed = "malformed"
	OutcomeTransport = "transport_error"
)

// Metrics counts service requests by endpoint and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics creates the request counter and registers it with reg.
// A nil reg leaves the counter unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghg",
			Name:      "factor_service_requests_total",
			Help:      "Emission factor service requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests)
	}
	return m
}

// Requests exposes the underlying counter for inspection.
func (m *Metrics) Requests() *prometheus.CounterVec {
	return m.requests
}

func (m *Metrics) observe(endpoint string, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome(err)).Inc()
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &statusErr):
		return OutcomeStatus
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformed
	default:
		return OutcomeTransport
	}
}
