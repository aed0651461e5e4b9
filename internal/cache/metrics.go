package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache reads and invalidations. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewMetrics creates the cache counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressroom",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by resource kind and result (hit, miss, error).",
		}, []string{"kind", "result"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pressroom",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache keys removed after writes by resource kind and scope (item, list).",
		}, []string{"kind", "scope"}),
	}

	reg.MustRegister(m.requests, m.invalidations)
	return m
}

func (m *Metrics) request(kind, result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) invalidated(kind, scope string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.invalidations.WithLabelValues(kind, scope).Add(float64(n))
}
