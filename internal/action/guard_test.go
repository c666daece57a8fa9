package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unifiedrisk/governor/internal/gate"
)

func TestGuard_Matrix(t *testing.T) {
	g := NewGuard()

	testCases := []struct {
		level    gate.Level
		intent   Intent
		allowed  bool
		severity string
	}{
		{gate.Normal, IntentIncreaseExposure, true, SeverityAllow},
		{gate.Normal, IntentReduceExposure, true, SeverityAllow},
		{gate.Normal, IntentSwitchExposure, true, SeverityAllow},

		{gate.Caution, IntentIncreaseExposure, false, SeverityHardBlock},
		{gate.Caution, IntentReduceExposure, true, SeverityAllow},
		{gate.Caution, IntentSwitchExposure, false, SeveritySoftWarn},

		{gate.PlanB, IntentIncreaseExposure, false, SeverityHardBlock},
		{gate.PlanB, IntentReduceExposure, true, SeverityAllow},
		{gate.PlanB, IntentSwitchExposure, false, SeveritySoftWarn},

		{gate.Freeze, IntentIncreaseExposure, false, SeverityHardBlock},
		{gate.Freeze, IntentReduceExposure, true, SeverityAllow},
		{gate.Freeze, IntentSwitchExposure, false, SeverityHardBlock},
	}

	for _, tc := range testCases {
		t.Run(string(tc.level)+"/"+string(tc.intent), func(t *testing.T) {
			res := g.Check(tc.level, tc.intent)
			assert.Equal(t, tc.allowed, res.Allowed)
			assert.Equal(t, tc.severity, res.Severity)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestGuard_ReduceAlwaysAllowed(t *testing.T) {
	g := NewGuard()
	for _, level := range gate.Levels() {
		res := g.Check(level, IntentReduceExposure)
		assert.True(t, res.Allowed, "reducing exposure must be allowed under %s", level)
	}
}

func TestGuard_UnknownInputsHardBlock(t *testing.T) {
	g := NewGuard()

	res := g.Check(gate.Level("MYSTERY"), IntentIncreaseExposure)
	assert.False(t, res.Allowed)
	assert.Equal(t, SeverityHardBlock, res.Severity)

	res = g.Check(gate.Normal, Intent("DO_SOMETHING"))
	assert.False(t, res.Allowed)
	assert.Equal(t, SeverityHardBlock, res.Severity)
}
