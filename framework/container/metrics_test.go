package container_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-scopes/framework/container"
	"github.com/km-arc/go-scopes/framework/container/containertest"
)

// sample returns the value of the series name{labels}, or 0 when absent.
func sample(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := g.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			got := make(map[string]string)
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			if !sameLabels(got, labels) {
				continue
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func sameLabels(got, want map[string]string) bool {
	if len(got) != len(want) {
		return false
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestMetrics_RecordsResolutionsAndFactories(t *testing.T) {
	reg := prometheus.NewRegistry()
	dir := containertest.NewDirectory(t, container.WithMetrics(container.NewMetrics(reg)))

	containertest.Declare(t, dir, "network",
		container.LazyAs[NetworkService](func() NetworkService { return &Networker{} }),
		container.NamedInstance("clock", &Networker{}),
	)
	usecase := containertest.Declare(t, dir, "usecase").Link("network")

	container.Get[NetworkService](usecase)
	container.Get[NetworkService](usecase)
	container.Get[*Clock](usecase)
	container.GetNamed[*Clock](usecase, "clock")

	hit := map[string]string{"scope": "usecase", "outcome": container.OutcomeHit}
	miss := map[string]string{"scope": "usecase", "outcome": container.OutcomeMiss}
	mismatch := map[string]string{"scope": "usecase", "outcome": container.OutcomeMismatch}

	assert.Equal(t, 2.0, sample(t, reg, "scopes_resolutions_total", hit))
	assert.Equal(t, 1.0, sample(t, reg, "scopes_resolutions_total", miss))
	assert.Equal(t, 1.0, sample(t, reg, "scopes_resolutions_total", mismatch))
	assert.Equal(t, 1.0, sample(t, reg, "scopes_factory_invocations_total", map[string]string{"scope": "network"}))
	assert.Equal(t, 2.0, sample(t, reg, "scopes_declared", nil))
}

func TestNewMetrics_SharesRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := containertest.NewDirectory(t, container.WithMetrics(container.NewMetrics(reg)))
	second := containertest.NewDirectory(t, container.WithMetrics(container.NewMetrics(reg)))

	containertest.Declare(t, first, "a")
	container.Get[*Clock](containertest.Declare(t, second, "a"))
	container.Get[*Clock](containertest.Declare(t, first, "a"))

	assert.Equal(t, 2.0, sample(t, reg, "scopes_resolutions_total",
		map[string]string{"scope": "a", "outcome": container.OutcomeMiss}))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	dir := containertest.NewDirectory(t, container.WithMetrics(nil))
	reg := containertest.Declare(t, dir, "s", container.Lazy(func() *Clock { return &Clock{} }))

	assert.NotPanics(t, func() { container.Get[*Clock](reg) })
}
