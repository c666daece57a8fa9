package gate

import (
	"github.com/unifiedrisk/governor/internal/evidence"
)

// EvidenceSnapshot records what the decider saw for one consulted slot, kept
// for the audit trail even when the slot had no effect on the gate.
type EvidenceSnapshot struct {
	Level string   `json:"level,omitempty"`
	Score *float64 `json:"score,omitempty"`
	State string   `json:"state,omitempty"`
}

// Decision is the frozen output of one gate evaluation.
type Decision struct {
	Level    Level                       `json:"level"`
	Reasons  []string                    `json:"reasons"`
	Evidence map[string]EvidenceSnapshot `json:"evidence"`
}

// Decider computes the base Gate from confirmed daily structural evidence.
//
// Frozen rules:
//   - only one-directional escalation (downgrade fast, recover slow)
//   - unrecognized or missing slots are no-evidence, never a defect
//   - never emits a level outside the recognized four
type Decider struct{}

func NewDecider() *Decider {
	return &Decider{}
}

// slotRule escalates the gate when the slot's level matches trigger.
type slotRule struct {
	slot    string
	trigger string
	reason  string
}

// Evaluation order is fixed: reasons must list escalation triggers in this
// order on every run.
var levelRules = []slotRule{
	{slot: "etf_index_sync", trigger: evidence.LevelLow, reason: "etf_index_sync_disconfirm"},
	{slot: "breadth", trigger: evidence.LevelLow, reason: "breadth_weak"},
	{slot: "participation", trigger: evidence.LevelLow, reason: "participation_weak"},
	{slot: "failure_rate", trigger: evidence.LevelHigh, reason: "failure_rate_high"},
	{slot: "crowding_concentration", trigger: evidence.LevelHigh, reason: "crowding_concentration_high"},
}

// Decide computes the base gate for one evaluation run. Pure: same slots
// always produce the same decision.
func (d *Decider) Decide(slots evidence.Slots) Decision {
	level := Normal
	reasons := []string{}
	snapshots := map[string]EvidenceSnapshot{}

	// Trend-in-force is a state slot, not a LOW/HIGH factor: a broken trend
	// is a structural hard disconfirmation and is checked first.
	if trend, ok := slots["trend_in_force"]; ok && trend != nil {
		state := trend.Detail("state")
		snapshots["trend_in_force"] = EvidenceSnapshot{Level: trend.Level, State: state}
		if state == "broken" {
			level = Max(level, Caution)
			reasons = append(reasons, "trend_in_force_broken")
		}
	}

	for _, rule := range levelRules {
		fr, ok := slots[rule.slot]
		if !ok || fr == nil {
			continue
		}
		score := fr.Score
		snapshots[rule.slot] = EvidenceSnapshot{Level: fr.Level, Score: &score}
		if fr.Level == rule.trigger {
			level = Max(level, Caution)
			reasons = append(reasons, rule.reason)
		}
	}

	// Fail closed: an unrecognized level must never pass through.
	if !level.Known() {
		level = Caution
		reasons = append(reasons, "invalid_level_fallback")
	}

	return Decision{Level: level, Reasons: reasons, Evidence: snapshots}
}
