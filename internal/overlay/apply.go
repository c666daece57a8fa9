package overlay

import (
	"fmt"
	"sort"
	"strings"

	"github.com/unifiedrisk/governor/internal/evidence"
	"github.com/unifiedrisk/governor/internal/gate"
)

// Result is the frozen output of one overlay pass.
type Result struct {
	Mode      string     `json:"mode"`
	RawGate   gate.Level `json:"raw_gate"`
	FinalGate gate.Level `json:"final_gate"`
	Hits      []Hit      `json:"hits"`
	Warnings  []string   `json:"warnings"`
	SpecRef   SpecRef    `json:"spec_ref"`
}

// Apply evaluates the rule overlay on top of the base gate.
//
// Best-effort and fail-closed: a missing or malformed spec degrades to
// "no overlay applied" with a warning; a malformed rule is skipped with a
// warning; a failed numeric coercion is a no-match with a warning. Nothing
// in this pass can raise severity handling above what the rules state, and
// in downgrade_only mode nothing can lower it below the raw gate.
//
// Rules evaluate in deterministic order: priority descending, id ascending.
// Re-runs over identical inputs are byte-identical.
func Apply(raw gate.Level, facts evidence.Facts, file *RuleFile) Result {
	warnings := []string{}

	if file == nil || file.Gate == nil {
		return Result{
			Mode:      ModeBaseOnly,
			RawGate:   raw,
			FinalGate: raw,
			Hits:      []Hit{},
			Warnings:  []string{"missing:gate_spec"},
		}
	}
	spec := file.Gate

	mode := spec.Mode
	if mode != ModeDowngradeOnly && mode != ModeOverride {
		if mode != "" {
			warnings = append(warnings, fmt.Sprintf("unknown_mode:%s", mode))
		}
		mode = ModeDowngradeOnly
	}

	order := spec.Order
	if len(order) == 0 {
		warnings = append(warnings, "invalid_gate_order")
		order = []string{string(raw)}
	}
	rank := make(map[string]int, len(order)+1)
	for i, name := range order {
		rank[name] = i
	}
	// An unknown raw gate ranks beyond every configured level: in
	// downgrade_only mode no rule can outrank it, so the overlay freezes at
	// the raw gate rather than relaxing an unrecognized upstream state.
	if _, ok := rank[string(raw)]; !ok {
		warnings = append(warnings, "raw_gate_not_in_order")
		rank[string(raw)] = len(rank)
	}

	sorted := make([]Rule, len(spec.Rules))
	copy(sorted, spec.Rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})

	final := raw
	hits := []Hit{}

	for _, r := range sorted {
		if strings.TrimSpace(r.ID) == "" {
			warnings = append(warnings, "invalid_rule_id")
			continue
		}
		if r.When == nil || r.Then == nil {
			warnings = append(warnings, fmt.Sprintf("invalid_rule_schema:%s", r.ID))
			continue
		}

		expr := parseExpr(map[string]interface{}(r.When), &warnings)
		if expr == nil {
			warnings = append(warnings, fmt.Sprintf("invalid_rule_schema:%s", r.ID))
			continue
		}
		ok, matchedPaths := expr.eval(facts, &warnings)
		if !ok {
			continue
		}

		setGate := strings.ToUpper(strings.TrimSpace(r.Then.SetGate))
		if setGate == "" {
			warnings = append(warnings, fmt.Sprintf("invalid_set_gate:%s", r.ID))
			continue
		}

		applied := false
		candidateRank, known := rank[setGate]
		if mode == ModeDowngradeOnly {
			if known && candidateRank >= rank[string(final)] {
				final = gate.Level(setGate)
				applied = true
			}
		} else if known {
			final = gate.Level(setGate)
			applied = true
		}

		if matchedPaths == nil {
			matchedPaths = []string{}
		}
		hits = append(hits, Hit{
			RuleID:       r.ID,
			Title:        r.Title,
			Reason:       r.Then.Reason,
			SetGate:      setGate,
			MatchedPaths: matchedPaths,
			Applied:      applied,
		})
	}

	return Result{
		Mode:      mode,
		RawGate:   raw,
		FinalGate: final,
		Hits:      hits,
		Warnings:  warnings,
		SpecRef: SpecRef{
			Spec:      file.Meta.Spec,
			Version:   file.Meta.Version,
			UpdatedAt: file.Meta.UpdatedAt,
		},
	}
}
