package request

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the request subsystem. A nil *Metrics
// is valid and records nothing, so tests can skip registration.
type Metrics struct {
	SubmitsTotal    *prometheus.CounterVec
	ResolvesTotal   *prometheus.CounterVec
	PendingRequests prometheus.Gauge
}

// NewMetrics registers and returns request metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wardline_request_submits_total",
			Help: "Total request submissions by type and result.",
		}, []string{"type", "result"}),
		ResolvesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wardline_request_resolves_total",
			Help: "Total resolution attempts by outcome.",
		}, []string{"outcome"}),
		PendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wardline_pending_requests",
			Help: "Pending requests observed at the last staff poll.",
		}),
	}

	reg.MustRegister(
		m.SubmitsTotal,
		m.ResolvesTotal,
		m.PendingRequests,
	)

	return m
}

// ObserveSubmit records one submission attempt.
func (m *Metrics) ObserveSubmit(t Type, result string) {
	if m == nil {
		return
	}
	m.SubmitsTotal.WithLabelValues(string(t), result).Inc()
}

// ObserveResolve records one resolution attempt.
func (m *Metrics) ObserveResolve(o Outcome) {
	if m == nil {
		return
	}
	m.ResolvesTotal.WithLabelValues(string(o)).Inc()
}

// SetPending records the pending set size seen by a list snapshot.
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.PendingRequests.Set(float64(n))
}
