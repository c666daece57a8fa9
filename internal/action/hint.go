package action

import "github.com/unifiedrisk/governor/internal/gate"

// Action tags emitted by the hint builder.
const (
	ActionHold      = "HOLD"
	ActionETFLadder = "ETF_LADDER"
	ActionFreeze    = "FREEZE"
)

// Allowed is the structural allowance pair: which instrument categories the
// gate permits at all.
type Allowed struct {
	ETF         bool `json:"etf"`
	SingleStock bool `json:"single_stock"`
}

// Hint is the translated, machine-checkable recommendation. Always a fresh
// value object; never mutated after construction (the toehold injection
// returns a copy).
type Hint struct {
	Action     string         `json:"action"`
	Reason     string         `json:"reason"`
	Allowed    Allowed        `json:"allowed"`
	Forbidden  []string       `json:"forbidden"`
	Limits     map[string]int `json:"limits"`
	Conditions []string       `json:"conditions"`
	Exceptions []string       `json:"exceptions,omitempty"`
}

// BuildHint translates the final gate decision into an ActionHint.
//
// Fail-closed state machine: a missing gate is the most conservative case,
// and any level beyond NORMAL/CAUTION (PLANB and FREEZE included) maps to a
// full freeze. The builder never weakens what upstream governance decided.
func BuildHint(decision *gate.Decision) Hint {
	if decision == nil {
		return Hint{
			Action:     ActionFreeze,
			Reason:     "missing gate decision",
			Allowed:    Allowed{},
			Forbidden:  []string{"ALL"},
			Limits:     map[string]int{},
			Conditions: []string{},
		}
	}

	switch decision.Level {
	case gate.Caution:
		return Hint{
			Action: ActionHold,
			Reason: "Gate=CAUTION: structural disconfirmation present; holding is the sanctioned move",
			Allowed: Allowed{
				ETF:         true,
				SingleStock: false,
			},
			Forbidden: []string{"ADD_SINGLE_STOCK", "AGGRESSIVE_BUY", "CHASE_UP"},
			Limits: map[string]int{
				"max_units_today": 1,
				"max_units_total": 1,
			},
			Conditions: []string{
				"ETF only",
				"only on pullback or confirmed support",
				"no chasing strength",
			},
		}
	case gate.Normal:
		return Hint{
			Action: ActionETFLadder,
			Reason: "Gate=NORMAL: structure permits laddered execution",
			Allowed: Allowed{
				ETF:         true,
				SingleStock: false,
			},
			Forbidden: []string{"ALL_IN", "CHASE_UP"},
			Limits: map[string]int{
				"max_units_today": 2,
				"max_units_total": 3,
			},
			Conditions: []string{
				"ETF only",
				"staged entries",
				"daily cap applies",
			},
		}
	default:
		return Hint{
			Action:     ActionFreeze,
			Reason:     "unsupported gate level: " + string(decision.Level),
			Allowed:    Allowed{},
			Forbidden:  []string{"ALL"},
			Limits:     map[string]int{},
			Conditions: []string{},
		}
	}
}
