package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unifiedrisk/governor/internal/action"
	"github.com/unifiedrisk/governor/internal/evidence"
	"github.com/unifiedrisk/governor/internal/execution"
	"github.com/unifiedrisk/governor/internal/gate"
	"github.com/unifiedrisk/governor/internal/metrics"
	"github.com/unifiedrisk/governor/internal/overlay"
	"github.com/unifiedrisk/governor/internal/structure"
)

// Input is one run's complete, already-fetched evidence plus configuration.
// The pipeline never reaches back out to data sources.
type Input struct {
	Snapshot     evidence.Snapshot            `json:"snapshot"`
	Rules        *overlay.RuleFile            `json:"rules,omitempty"`
	Toehold      *action.ToeholdConfig        `json:"toehold,omitempty"`
	RotationMode string                       `json:"rotation_mode,omitempty"`
	Pillars      map[string]*structure.Pillar `json:"pillars,omitempty"`
}

// Decision is the deterministic portion of a run's output: byte-identical
// inputs must produce a byte-identical Decision. Replay diffs compare this
// block and ignore Meta.
type Decision struct {
	TradeDate string                   `json:"trade_date"`
	Market    string                   `json:"market"`
	Gate      gate.Decision            `json:"gate"`
	Overlay   overlay.Result           `json:"overlay"`
	Execution execution.Summary        `json:"execution"`
	FinalGate gate.Level               `json:"final_gate"`
	Hint      action.Hint              `json:"hint"`
	Toehold   *action.ToeholdException `json:"toehold,omitempty"`
	Structure *structure.Context       `json:"structure,omitempty"`
}

// Meta carries run bookkeeping that replay diffs ignore.
type Meta struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// RunResult is the frozen output of one evaluation run.
type RunResult struct {
	Decision Decision `json:"decision"`
	Meta     Meta     `json:"meta"`
}

// Pipeline chains the governance stages for one evaluation run:
// decide -> rule overlay -> execution overlay -> action translation.
// Severity is monotonic non-decreasing through the chain.
type Pipeline struct {
	decider *gate.Decider
	summary *execution.SummaryBuilder
	logger  zerolog.Logger
	metrics *metrics.Registry
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger; the default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics attaches a metrics registry; nil disables instrumentation.
func WithMetrics(m *metrics.Registry) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		decider: gate.NewDecider(),
		summary: execution.NewSummaryBuilder(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Evaluate runs the full governance chain over one evidence snapshot.
// Pure over its inputs apart from logging and metric increments; each run
// owns its snapshot, so concurrent evaluations need no locking.
func (p *Pipeline) Evaluate(in Input) *RunResult {
	start := time.Now()
	snap := in.Snapshot

	base := p.decider.Decide(snap.Slots)

	ovl := overlay.Apply(base.Level, snap.Facts, in.Rules)

	summary := p.summary.Build(snap.Slots)
	finalGate := execution.ApplyOverlay(ovl.FinalGate, summary.Code)

	finalDecision := gate.Decision{
		Level:    finalGate,
		Reasons:  base.Reasons,
		Evidence: base.Evidence,
	}
	hint := action.BuildHint(&finalDecision)

	dec := Decision{
		TradeDate: snap.TradeDate,
		Market:    snap.Market,
		Gate:      base,
		Overlay:   ovl,
		Execution: summary,
		FinalGate: finalGate,
		Hint:      hint,
	}

	if in.Toehold != nil {
		drs := drsSignal(snap.Facts)
		ex := action.BuildToehold(*in.Toehold, in.RotationMode, finalGate, drs)
		dec.Hint = action.ApplyToehold(hint, ex)
		dec.Toehold = &ex
	}

	if in.Pillars != nil {
		ctx := structure.Assemble(in.Pillars)
		dec.Structure = &ctx
	}

	elapsed := time.Since(start)
	p.observe(&dec, elapsed)

	p.logger.Info().
		Str("trade_date", snap.TradeDate).
		Str("market", snap.Market).
		Str("base_gate", string(base.Level)).
		Str("final_gate", string(finalGate)).
		Str("band", string(summary.Code)).
		Str("action", dec.Hint.Action).
		Int("rule_hits", len(ovl.Hits)).
		Int("warnings", len(ovl.Warnings)).
		Msg("governance evaluation complete")

	return &RunResult{
		Decision: dec,
		Meta: Meta{
			RunID:       uuid.New().String(),
			GeneratedAt: time.Now().UTC(),
			DurationMs:  elapsed.Milliseconds(),
		},
	}
}

func (p *Pipeline) observe(dec *Decision, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.EvaluationsTotal.WithLabelValues(string(dec.FinalGate)).Inc()
	p.metrics.ExecutionBands.WithLabelValues(string(dec.Execution.Code)).Inc()
	for _, hit := range dec.Overlay.Hits {
		applied := "false"
		if hit.Applied {
			applied = "true"
		}
		p.metrics.RuleHits.WithLabelValues(hit.RuleID, applied).Inc()
	}
	if n := len(dec.Overlay.Warnings); n > 0 {
		p.metrics.OverlayWarnings.Add(float64(n))
	}
	p.metrics.EvaluationTime.Observe(elapsed.Seconds())
}

func drsSignal(facts evidence.Facts) string {
	for _, path := range []string{"governance.drs.signal", "drs.signal"} {
		if v, ok := facts.Resolve(path); ok {
			if s, sok := v.(string); sok {
				return s
			}
		}
	}
	return ""
}
