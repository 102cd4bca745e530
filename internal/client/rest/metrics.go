package rest

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts outbound calls by operation and outcome.
type Metrics struct {
	calls *prometheus.CounterVec
}

// NewMetrics registers the outbound call counter on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_service_requests_total",
				Help: "Total number of calls made to the external service.",
			},
			[]string{"operation", "outcome"},
		),
	}
	if err := reg.Register(m.calls); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.calls.WithLabelValues(operation, outcome).Inc()
}
