package action

import (
	"fmt"

	"github.com/unifiedrisk/governor/internal/gate"
)

// Intent is an exposure-change action checked against the guard matrix.
type Intent string

const (
	IntentIncreaseExposure Intent = "INCREASE_EXPOSURE"
	IntentReduceExposure   Intent = "REDUCE_EXPOSURE"
	IntentSwitchExposure   Intent = "SWITCH_EXPOSURE"
)

// Guard check severities.
const (
	SeverityAllow     = "ALLOW"
	SeveritySoftWarn  = "SOFT_WARN"
	SeverityHardBlock = "HARD_BLOCK"
)

// matrix cell verdicts.
const (
	verdictAllow = "ALLOW"
	verdictWarn  = "WARN"
	verdictBlock = "BLOCK"
)

// CheckResult is the guard's verdict on one intended action.
type CheckResult struct {
	Allowed  bool   `json:"allowed"`
	Severity string `json:"severity"`
	Reason   string `json:"reason"`
}

// Guard performs compliance checks on Gate x Intent. Pure lookup: no
// computation, no market reads, no mutation.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// The frozen Gate x Intent matrix. Reducing exposure is always allowed;
// anything outside the matrix is a hard block.
var guardMatrix = map[gate.Level]map[Intent]string{
	gate.Normal: {
		IntentIncreaseExposure: verdictAllow,
		IntentReduceExposure:   verdictAllow,
		IntentSwitchExposure:   verdictAllow,
	},
	gate.Caution: {
		IntentIncreaseExposure: verdictBlock,
		IntentReduceExposure:   verdictAllow,
		IntentSwitchExposure:   verdictWarn,
	},
	gate.PlanB: {
		IntentIncreaseExposure: verdictBlock,
		IntentReduceExposure:   verdictAllow,
		IntentSwitchExposure:   verdictWarn,
	},
	gate.Freeze: {
		IntentIncreaseExposure: verdictBlock,
		IntentReduceExposure:   verdictAllow,
		IntentSwitchExposure:   verdictBlock,
	},
}

// Check returns the verdict for an intended action under the given gate.
// Unknown gates or intents always hard-block.
func (g *Guard) Check(level gate.Level, intent Intent) CheckResult {
	row, ok := guardMatrix[level]
	if !ok {
		return CheckResult{
			Allowed:  false,
			Severity: SeverityHardBlock,
			Reason:   fmt.Sprintf("unknown gate %q: execution blocked by policy", level),
		}
	}
	verdict, ok := row[intent]
	if !ok {
		return CheckResult{
			Allowed:  false,
			Severity: SeverityHardBlock,
			Reason:   fmt.Sprintf("unknown intent %q under gate %s: execution blocked by policy", intent, level),
		}
	}

	switch verdict {
	case verdictAllow:
		return CheckResult{
			Allowed:  true,
			Severity: SeverityAllow,
			Reason:   fmt.Sprintf("gate %s permits %s", level, intent),
		}
	case verdictWarn:
		return CheckResult{
			Allowed:  false,
			Severity: SeveritySoftWarn,
			Reason:   fmt.Sprintf("gate %s tolerates %s only if it does not raise overall risk", level, intent),
		}
	default:
		return CheckResult{
			Allowed:  false,
			Severity: SeverityHardBlock,
			Reason:   fmt.Sprintf("gate %s forbids %s", level, intent),
		}
	}
}
