package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/unifiedrisk/governor/internal/pipeline"
)

// Schema for the audit table. Applied by the operator, not by this code.
const Schema = `
CREATE TABLE IF NOT EXISTS governance_runs (
    run_id     TEXT NOT NULL,
    trade_date TEXT NOT NULL,
    market     TEXT NOT NULL,
    final_gate TEXT NOT NULL,
    input      JSONB NOT NULL,
    decision   JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (trade_date, market)
);`

type postgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPostgresStore creates a Postgres-backed audit store.
func NewPostgresStore(db *sqlx.DB, timeout time.Duration) Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &postgresStore{db: db, timeout: timeout}
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit store: %w", err)
	}
	return db, nil
}

func (s *postgresStore) SaveRun(ctx context.Context, in pipeline.Input, result *pipeline.RunResult) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	inputJSON, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal run input: %w", err)
	}
	decisionJSON, err := json.Marshal(result.Decision)
	if err != nil {
		return fmt.Errorf("failed to marshal run decision: %w", err)
	}

	query := `
		INSERT INTO governance_runs (run_id, trade_date, market, final_gate, input, decision)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (trade_date, market) DO UPDATE SET
			run_id     = EXCLUDED.run_id,
			final_gate = EXCLUDED.final_gate,
			input      = EXCLUDED.input,
			decision   = EXCLUDED.decision,
			created_at = now()`

	_, err = s.db.ExecContext(ctx, query,
		result.Meta.RunID,
		result.Decision.TradeDate,
		result.Decision.Market,
		string(result.Decision.FinalGate),
		inputJSON,
		decisionJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save governance run: %w", err)
	}
	return nil
}

func (s *postgresStore) ListRuns(ctx context.Context, market, from, to string) ([]RunRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT run_id, trade_date, market, final_gate, input, decision, created_at
		FROM governance_runs
		WHERE market = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date, market`

	var records []RunRecord
	if err := s.db.SelectContext(ctx, &records, query, market, from, to); err != nil {
		return nil, fmt.Errorf("failed to list governance runs: %w", err)
	}
	return records, nil
}
