// Package replay recomputes persisted governance runs and diffs the result
// against what was stored. Every pipeline stage is deterministic over its
// inputs, so any diff means either the code or the stored evidence changed.
package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/unifiedrisk/governor/internal/persistence"
	"github.com/unifiedrisk/governor/internal/pipeline"
)

// RunDiff is the outcome of replaying one stored run.
type RunDiff struct {
	TradeDate string   `json:"trade_date"`
	Market    string   `json:"market"`
	Match     bool     `json:"match"`
	Diffs     []string `json:"diffs,omitempty"`
	Err       string   `json:"error,omitempty"`
}

// Report summarizes a replay pass.
type Report struct {
	Total    int       `json:"total"`
	Matched  int       `json:"matched"`
	Diverged int       `json:"diverged"`
	Failed   int       `json:"failed"`
	Runs     []RunDiff `json:"runs"`
}

// Replayer recomputes stored runs through a fresh pipeline.
type Replayer struct {
	store persistence.Store
	pipe  *pipeline.Pipeline
}

func New(store persistence.Store, pipe *pipeline.Pipeline) *Replayer {
	return &Replayer{store: store, pipe: pipe}
}

// Replay recomputes all runs for market in [from, to] and diffs each against
// its stored decision. A run that fails to decode is reported, not fatal.
func (r *Replayer) Replay(ctx context.Context, market, from, to string) (*Report, error) {
	records, err := r.store.ListRuns(ctx, market, from, to)
	if err != nil {
		return nil, fmt.Errorf("replay load failed: %w", err)
	}

	report := &Report{Runs: make([]RunDiff, 0, len(records))}
	for _, rec := range records {
		diff := r.replayOne(rec)
		report.Total++
		switch {
		case diff.Err != "":
			report.Failed++
		case diff.Match:
			report.Matched++
		default:
			report.Diverged++
		}
		report.Runs = append(report.Runs, diff)
	}
	return report, nil
}

func (r *Replayer) replayOne(rec persistence.RunRecord) RunDiff {
	diff := RunDiff{TradeDate: rec.TradeDate, Market: rec.Market}

	var in pipeline.Input
	if err := json.Unmarshal(rec.Input, &in); err != nil {
		diff.Err = fmt.Sprintf("input decode: %v", err)
		return diff
	}
	var stored pipeline.Decision
	if err := json.Unmarshal(rec.Decision, &stored); err != nil {
		diff.Err = fmt.Sprintf("decision decode: %v", err)
		return diff
	}

	recomputed := r.pipe.Evaluate(in).Decision
	diff.Diffs = compare(&stored, &recomputed)
	diff.Match = len(diff.Diffs) == 0
	return diff
}

// compare reports field-level differences on the decision surface consumers
// act on, then falls back to a whole-document comparison so no divergence
// slips through unnamed.
func compare(stored, recomputed *pipeline.Decision) []string {
	diffs := []string{}
	if stored.FinalGate != recomputed.FinalGate {
		diffs = append(diffs, fmt.Sprintf("final_gate: stored=%s recomputed=%s",
			stored.FinalGate, recomputed.FinalGate))
	}
	if stored.Gate.Level != recomputed.Gate.Level {
		diffs = append(diffs, fmt.Sprintf("gate.level: stored=%s recomputed=%s",
			stored.Gate.Level, recomputed.Gate.Level))
	}
	if stored.Execution.Code != recomputed.Execution.Code {
		diffs = append(diffs, fmt.Sprintf("execution.code: stored=%s recomputed=%s",
			stored.Execution.Code, recomputed.Execution.Code))
	}
	if stored.Hint.Action != recomputed.Hint.Action {
		diffs = append(diffs, fmt.Sprintf("hint.action: stored=%s recomputed=%s",
			stored.Hint.Action, recomputed.Hint.Action))
	}

	storedJSON, err1 := json.Marshal(stored)
	recomputedJSON, err2 := json.Marshal(recomputed)
	if err1 == nil && err2 == nil && !bytes.Equal(storedJSON, recomputedJSON) && len(diffs) == 0 {
		diffs = append(diffs, "decision document differs outside headline fields")
	}
	return diffs
}
