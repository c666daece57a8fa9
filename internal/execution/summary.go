package execution

import (
	"fmt"
	"sort"

	"github.com/unifiedrisk/governor/internal/evidence"
)

// Horizon of the execution-friction estimate.
const Horizon = "2-5D"

// Summary classifies one run's execution friction from factor evidence.
// Derived once per run; read-only afterwards.
type Summary struct {
	Code         Band     `json:"code"`
	Horizon      string   `json:"horizon"`
	RiskEstimate string   `json:"risk_estimate"`
	Meaning      string   `json:"meaning"`
	Drivers      []string `json:"drivers"`
}

// SummaryBuilder counts HIGH-risk factors and missing-data markers into a
// discrete band. Missing evidence is neutral for the gate decider, but here
// absence of data is itself risk information and escalates toward D1.
type SummaryBuilder struct{}

func NewSummaryBuilder() *SummaryBuilder {
	return &SummaryBuilder{}
}

// Build classifies the run. Exhaustive, first match wins:
// >=3 HIGH -> D3; ==2 -> D2; ==1 or any data missing -> D1; else A.
// Drivers name exactly which factors triggered the classification, in
// sorted factor-name order so replays are byte-identical.
func (b *SummaryBuilder) Build(slots evidence.Slots) Summary {
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)

	drivers := []string{}
	highRisk := 0
	dataMissing := false

	for _, name := range names {
		fr := slots[name]
		if fr == nil {
			continue
		}
		if fr.Level == evidence.LevelHigh {
			highRisk++
			drivers = append(drivers, fmt.Sprintf("%s:HIGH", name))
		}
		if fr.DataMissing() {
			dataMissing = true
			drivers = append(drivers, fmt.Sprintf("%s:DATA_MISSING", name))
		}
	}

	switch {
	case highRisk >= 3:
		return Summary{
			Code:         BandD3,
			Horizon:      Horizon,
			RiskEstimate: "-4% ~ -6%",
			Meaning: "Multiple core factors are in a high-risk state; a large drawdown " +
				"or systemic event is plausible within days. Capital preservation comes first.",
			Drivers: drivers,
		}
	case highRisk == 2:
		return Summary{
			Code:         BandD2,
			Horizon:      Horizon,
			RiskEstimate: "-2.5% ~ -4%",
			Meaning: "Two risk factors are resonating; drawdown risk over the next few " +
				"sessions is significant and exposure should be actively reduced.",
			Drivers: drivers,
		}
	case highRisk == 1 || dataMissing:
		return Summary{
			Code:         BandD1,
			Horizon:      Horizon,
			RiskEstimate: "-1.5% ~ -2.5%",
			Meaning: "An early risk warning is present; a near-term pullback is possible " +
				"and defensive adjustment ahead of time is advised.",
			Drivers: drivers,
		}
	default:
		return Summary{
			Code:         BandA,
			Horizon:      Horizon,
			RiskEstimate: "-0% ~ -1%",
			Meaning: "No significant short-horizon risk signal observed; no pre-emptive " +
				"exposure adjustment required.",
			Drivers: drivers,
		}
	}
}
