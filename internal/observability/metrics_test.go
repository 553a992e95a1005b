package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.Analyses.WithLabelValues("stats", "ok").Inc()
	m.GeocodeCache.WithLabelValues("hit").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Analyses.WithLabelValues("stats", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("hit")))

	n, err := testutil.GatherAndCount(reg, "climate_stats_analyses_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewMetricsWith_PanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsWith(reg)

	assert.Panics(t, func() { NewMetricsWith(reg) })
}
