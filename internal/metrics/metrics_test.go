package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg)

	m.EvaluationsTotal.WithLabelValues("CAUTION").Inc()
	m.RuleHits.WithLabelValues("drs_red_planb", "true").Inc()
	m.ExecutionBands.WithLabelValues("D1").Inc()
	m.GuardChecks.WithLabelValues("HARD_BLOCK").Inc()
	m.OverlayWarnings.Add(2)
	m.EvaluationTime.Observe(0.002)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("CAUTION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RuleHits.WithLabelValues("drs_red_planb", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OverlayWarnings))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "governor_evaluations_total")
	assert.Contains(t, names, "governor_evaluation_duration_seconds")
}

func TestNewRegistry_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRegistry(reg)

	assert.Panics(t, func() { NewRegistry(reg) })
}
