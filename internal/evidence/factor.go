package evidence

// Factor levels produced by upstream factor computation. Domain-specific
// state strings (e.g. "broken", "DISTRIBUTION_RISK") travel in Details.
const (
	LevelLow     = "LOW"
	LevelNeutral = "NEUTRAL"
	LevelHigh    = "HIGH"
)

// DataNotConnected marks a factor whose upstream source was unreachable.
// Missing data is itself risk information for the execution-band builder.
const DataNotConnected = "DATA_NOT_CONNECTED"

// DRS signal values (discrete risk signal, consumed as a fact).
const (
	DRSGreen  = "GREEN"
	DRSYellow = "YELLOW"
	DRSOrange = "ORANGE"
	DRSRed    = "RED"
)

// FactorResult is the read-only per-factor output handed in by upstream
// computation. Governance components never mutate it.
type FactorResult struct {
	Name    string                 `json:"name"`
	Score   float64                `json:"score"`
	Level   string                 `json:"level"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Detail returns a string detail field, or "" when absent or non-string.
func (f *FactorResult) Detail(key string) string {
	if f == nil || f.Details == nil {
		return ""
	}
	if s, ok := f.Details[key].(string); ok {
		return s
	}
	return ""
}

// DataMissing reports whether the factor carries the DATA_NOT_CONNECTED marker.
func (f *FactorResult) DataMissing() bool {
	return f.Detail("data_status") == DataNotConnected
}

// Slots maps slot name -> factor evidence for one evaluation run.
type Slots map[string]*FactorResult
