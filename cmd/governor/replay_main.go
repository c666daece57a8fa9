package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/unifiedrisk/governor/internal/persistence"
	"github.com/unifiedrisk/governor/internal/pipeline"
	"github.com/unifiedrisk/governor/internal/replay"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Recompute stored runs and diff against the audit trail",
		Long: `Replay loads persisted governance runs, recomputes each from its stored
evidence snapshot, and diffs the recomputed decision against the stored one.
Any divergence means code or evidence drifted; exit status is non-zero when
runs diverge.`,
		RunE: runReplay,
	}

	cmd.Flags().String("store-dsn", "", "Postgres DSN of the audit store (required)")
	cmd.Flags().String("market", "CN_A", "Market identifier")
	cmd.Flags().String("from", "", "Start trade date YYYY-MM-DD (required)")
	cmd.Flags().String("to", "", "End trade date YYYY-MM-DD (required)")
	cmd.MarkFlagRequired("store-dsn")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	dsn, _ := cmd.Flags().GetString("store-dsn")
	market, _ := cmd.Flags().GetString("market")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := persistence.Open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	store := persistence.NewPostgresStore(db, 10*time.Second)
	replayer := replay.New(store, pipeline.New(pipeline.WithLogger(log.Logger)))

	report, err := replayer.Replay(ctx, market, from, to)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	log.Info().
		Int("total", report.Total).
		Int("matched", report.Matched).
		Int("diverged", report.Diverged).
		Int("failed", report.Failed).
		Msg("replay complete")

	if report.Diverged > 0 || report.Failed > 0 {
		return fmt.Errorf("replay found %d diverged and %d failed runs", report.Diverged, report.Failed)
	}
	return nil
}
