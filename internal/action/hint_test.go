package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unifiedrisk/governor/internal/gate"
)

func TestBuildHint_NilDecisionFreezes(t *testing.T) {
	h := BuildHint(nil)

	assert.Equal(t, ActionFreeze, h.Action)
	assert.Equal(t, []string{"ALL"}, h.Forbidden)
	assert.False(t, h.Allowed.ETF)
	assert.False(t, h.Allowed.SingleStock)
	assert.Empty(t, h.Limits)
	assert.Empty(t, h.Conditions)
}

func TestBuildHint_Caution(t *testing.T) {
	h := BuildHint(&gate.Decision{Level: gate.Caution})

	assert.Equal(t, ActionHold, h.Action)
	assert.True(t, h.Allowed.ETF)
	assert.False(t, h.Allowed.SingleStock)
	assert.Equal(t, []string{"ADD_SINGLE_STOCK", "AGGRESSIVE_BUY", "CHASE_UP"}, h.Forbidden)
	assert.Equal(t, map[string]int{"max_units_today": 1, "max_units_total": 1}, h.Limits)
}

func TestBuildHint_Normal(t *testing.T) {
	h := BuildHint(&gate.Decision{Level: gate.Normal})

	assert.Equal(t, ActionETFLadder, h.Action)
	assert.True(t, h.Allowed.ETF)
	assert.False(t, h.Allowed.SingleStock)
	assert.Equal(t, []string{"ALL_IN", "CHASE_UP"}, h.Forbidden)
	assert.Equal(t, map[string]int{"max_units_today": 2, "max_units_total": 3}, h.Limits)
}

func TestBuildHint_SevereAndUnknownLevelsFreeze(t *testing.T) {
	for _, level := range []gate.Level{gate.PlanB, gate.Freeze, gate.Level("MYSTERY"), gate.Level("")} {
		t.Run(string(level), func(t *testing.T) {
			h := BuildHint(&gate.Decision{Level: level})
			assert.Equal(t, ActionFreeze, h.Action)
			assert.Equal(t, []string{"ALL"}, h.Forbidden)
			assert.False(t, h.Allowed.ETF)
		})
	}
}

func TestBuildHint_TotalOverAllKnownLevels(t *testing.T) {
	// Every recognized level yields a well-formed hint with a non-empty
	// action and forbidden list.
	for _, level := range gate.Levels() {
		h := BuildHint(&gate.Decision{Level: level})
		assert.NotEmpty(t, h.Action, "level %s", level)
		assert.NotEmpty(t, h.Forbidden, "level %s", level)
		assert.NotNil(t, h.Limits, "level %s", level)
	}
}
