package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/unifiedrisk/governor/internal/config"
	"github.com/unifiedrisk/governor/internal/evidence"
	"github.com/unifiedrisk/governor/internal/feed"
	"github.com/unifiedrisk/governor/internal/persistence"
	"github.com/unifiedrisk/governor/internal/pipeline"
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run one governance evaluation",
		Long: `Evaluate one trade date's evidence through the full governance chain.
Evidence comes from a local snapshot file or the evidence feed; the decision
prints as JSON and can optionally be persisted to the audit store.`,
		RunE: runEvaluate,
	}

	cmd.Flags().String("snapshot", "", "Path to evidence snapshot JSON file")
	cmd.Flags().String("feed-url", "", "Evidence feed base URL (alternative to --snapshot)")
	cmd.Flags().String("date", "", "Trade date YYYY-MM-DD (required with --feed-url)")
	cmd.Flags().String("market", "CN_A", "Market identifier")
	cmd.Flags().String("rules", "config/gate_rules.yaml", "Gate rules YAML path")
	cmd.Flags().String("toehold", "", "Toe-hold exception YAML path (optional)")
	cmd.Flags().String("rotation-mode", "", "Rotation switch mode fact (optional)")
	cmd.Flags().String("store-dsn", "", "Postgres DSN; persists the run when set")
	cmd.Flags().String("redis", "", "Redis address for snapshot caching (optional)")
	cmd.Flags().Bool("pretty", false, "Pretty-print the decision JSON")
	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	feedURL, _ := cmd.Flags().GetString("feed-url")
	tradeDate, _ := cmd.Flags().GetString("date")
	market, _ := cmd.Flags().GetString("market")
	rulesPath, _ := cmd.Flags().GetString("rules")
	toeholdPath, _ := cmd.Flags().GetString("toehold")
	rotationMode, _ := cmd.Flags().GetString("rotation-mode")
	storeDSN, _ := cmd.Flags().GetString("store-dsn")
	redisAddr, _ := cmd.Flags().GetString("redis")
	pretty, _ := cmd.Flags().GetBool("pretty")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	snap, err := loadSnapshot(ctx, snapshotPath, feedURL, tradeDate, market, redisAddr)
	if err != nil {
		return err
	}

	rules, warnings := config.LoadRuleFile(rulesPath)
	for _, w := range warnings {
		log.Warn().Str("warning", w).Msg("rules config degraded")
	}

	in := pipeline.Input{
		Snapshot:     *snap,
		Rules:        rules,
		RotationMode: rotationMode,
	}
	if toeholdPath != "" {
		toehold, err := config.LoadToeholdConfig(toeholdPath)
		if err != nil {
			return err
		}
		in.Toehold = toehold
	}

	pipe := pipeline.New(pipeline.WithLogger(log.Logger))
	result := pipe.Evaluate(in)

	if storeDSN != "" {
		db, err := persistence.Open(storeDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		store := persistence.NewPostgresStore(db, 5*time.Second)
		if err := store.SaveRun(ctx, in, result); err != nil {
			return err
		}
		log.Info().Str("run_id", result.Meta.RunID).Msg("run persisted to audit store")
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func loadSnapshot(ctx context.Context, path, feedURL, tradeDate, market, redisAddr string) (*evidence.Snapshot, error) {
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		var snap evidence.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot: %w", err)
		}
		return &snap, nil
	case feedURL != "":
		if tradeDate == "" {
			return nil, fmt.Errorf("--date is required with --feed-url")
		}
		var cache feed.Cache
		if redisAddr != "" {
			cache = feed.NewRedisCache(redis.NewClient(&redis.Options{Addr: redisAddr}))
		}
		client := feed.NewClient(feed.DefaultClientConfig(feedURL), cache, log.Logger)
		return client.FetchSnapshot(ctx, tradeDate, market)
	default:
		return nil, fmt.Errorf("either --snapshot or --feed-url is required")
	}
}
