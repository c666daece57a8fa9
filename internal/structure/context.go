// Package structure assembles structural pillar facts into a single
// read-only context block for downstream interpretation.
//
// Assembly only: no calculation, no scoring, no weighting or voting. Health
// is a veto signal, not a decision signal, and must never influence the gate
// decider.
package structure

// Pillar health values.
const (
	HealthHealthy = "HEALTHY"
	HealthFail    = "FAIL"
)

// Pillar is one structural pillar's read-only result.
type Pillar struct {
	State      string   `json:"state,omitempty"`
	Since      string   `json:"since,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Health     string   `json:"health,omitempty"`
	Flapping   bool     `json:"flapping,omitempty"`
	Sustained  bool     `json:"sustained,omitempty"`
}

// PillarView is the assembled, trimmed view of one pillar.
type PillarView struct {
	State      string   `json:"state,omitempty"`
	Since      string   `json:"since,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Context is the assembled structural background.
type Context struct {
	BreadthDamage   PillarView `json:"breadth_damage"`
	Participation   PillarView `json:"participation"`
	IndexSectorCorr PillarView `json:"index_sector_corr"`
	Health          string     `json:"health"`
	Tags            []string   `json:"tags"`
}

// Assemble builds the context from the three structural pillars. Health is
// veto-only:
//
//   - any pillar reporting FAIL vetoes
//   - any flapping pillar vetoes
//   - the sustained breadth-damaged/participation-strong inconsistency vetoes
//   - HEALTHY requires all three pillars present with state and since;
//     anything less falls back to FAIL
func Assemble(pillars map[string]*Pillar) Context {
	breadth := pillars["breadth_damage"]
	participation := pillars["participation"]
	corr := pillars["index_sector_corr"]

	ctx := Context{
		BreadthDamage:   view(breadth),
		Participation:   view(participation),
		IndexSectorCorr: view(corr),
		Tags:            []string{},
	}

	for _, p := range []*Pillar{breadth, participation, corr} {
		if p != nil && (p.Health == HealthFail || p.Flapping) {
			ctx.Health = HealthFail
			return ctx
		}
	}

	// Long-standing inconsistency: confirmed breadth damage alongside strong
	// participation cannot both be true for a sustained window.
	if breadth != nil && participation != nil &&
		breadth.State == "CONFIRMED_DAMAGED" &&
		participation.State == "STRONG" &&
		breadth.Sustained {
		ctx.Health = HealthFail
		return ctx
	}

	if breadth != nil && participation != nil && corr != nil &&
		ctx.BreadthDamage.State != "" && ctx.BreadthDamage.Since != "" &&
		ctx.Participation.State != "" && ctx.Participation.Since != "" &&
		ctx.IndexSectorCorr.State != "" && ctx.IndexSectorCorr.Since != "" {
		ctx.Health = HealthHealthy
	} else {
		ctx.Health = HealthFail
	}
	return ctx
}

func view(p *Pillar) PillarView {
	if p == nil {
		return PillarView{}
	}
	return PillarView{State: p.State, Since: p.Since, Confidence: p.Confidence}
}
