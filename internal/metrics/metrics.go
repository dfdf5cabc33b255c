package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rrdash"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultReused  = "reused"
)

// Transport counts what the authenticated transport did. A nil *Transport is valid
// and records nothing.
type Transport struct {
	registry *prometheus.Registry

	refreshes *prometheus.CounterVec
	retries   prometheus.Counter
	logouts   prometheus.Counter
}

func NewTransport() *Transport {
	reg := prometheus.NewRegistry()
	m := &Transport{
		registry: reg,
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refresh_total",
			Help:      "Token refresh outcomes.",
		}, []string{"result"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "retried_requests_total",
			Help:      "Requests replayed after a refresh.",
		}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "forced_logouts_total",
			Help:      "Sessions torn down because a refresh failed.",
		}),
	}
	reg.MustRegister(m.refreshes, m.retries, m.logouts)
	return m
}

func (m *Transport) Refresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Transport) Retry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Transport) Logout() {
	if m == nil {
		return
	}
	m.logouts.Inc()
}

func (m *Transport) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RefreshCounter exposes the refresh counter for a result label.
func (m *Transport) RefreshCounter(result string) prometheus.Counter {
	return m.refreshes.WithLabelValues(result)
}

func (m *Transport) RetryCounter() prometheus.Counter {
	return m.retries
}

func (m *Transport) LogoutCounter() prometheus.Counter {
	return m.logouts
}

// Snapshot flattens every counter into name{label} -> value for logging.
func (m *Transport) Snapshot() (map[string]float64, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range metric.GetLabel() {
				name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			out[name] = metric.GetCounter().GetValue()
		}
	}
	return out, nil
}
