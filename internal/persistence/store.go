// Package persistence stores completed governance runs for audit and replay.
// The core never touches this layer; callers persist frozen RunResults after
// evaluation and the replay tool reads them back.
package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/unifiedrisk/governor/internal/pipeline"
)

// RunRecord is one persisted governance run: the frozen decision plus the
// evidence snapshot it was computed from, so replay can recompute it.
type RunRecord struct {
	RunID     string          `db:"run_id" json:"run_id"`
	TradeDate string          `db:"trade_date" json:"trade_date"`
	Market    string          `db:"market" json:"market"`
	FinalGate string          `db:"final_gate" json:"final_gate"`
	Input     json.RawMessage `db:"input" json:"input"`
	Decision  json.RawMessage `db:"decision" json:"decision"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Store is the audit-trail repository.
type Store interface {
	// SaveRun persists one run; reruns for the same trade date and market
	// overwrite the previous record.
	SaveRun(ctx context.Context, in pipeline.Input, result *pipeline.RunResult) error
	// ListRuns returns records for trade dates in [from, to], ordered by
	// trade date then market.
	ListRuns(ctx context.Context, market, from, to string) ([]RunRecord, error)
}
