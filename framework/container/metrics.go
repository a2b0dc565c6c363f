package container

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes as recorded in scopes_resolutions_total.
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeMismatch = "mismatch"
	OutcomeCircular = "circular"
)

// Metrics holds the Prometheus collectors a Directory reports to.
// A nil *Metrics records nothing.
type Metrics struct {
	resolutions *prometheus.CounterVec
	factoryRuns *prometheus.CounterVec
	scopes      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// that reg already knows are reused, so several directories can share one
// registerer. A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scopes",
			Name:      "resolutions_total",
			Help:      "Top-level lookups by scope and outcome.",
		}, []string{"scope", "outcome"}),
		factoryRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scopes",
			Name:      "factory_invocations_total",
			Help:      "Lazy factories materialized, by scope.",
		}, []string{"scope"}),
		scopes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scopes",
			Name:      "declared",
			Help:      "Scopes currently published in the directory.",
		}),
	}

	if reg == nil {
		return m
	}

	m.resolutions = register(reg, m.resolutions)
	m.factoryRuns = register(reg, m.factoryRuns)
	m.scopes = register(reg, m.scopes)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) observeResolution(scope, outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(scope, outcome).Inc()
}

func (m *Metrics) observeFactory(scope string) {
	if m == nil {
		return
	}
	m.factoryRuns.WithLabelValues(scope).Inc()
}

func (m *Metrics) setScopes(n int) {
	if m == nil {
		return
	}
	m.scopes.Set(float64(n))
}
