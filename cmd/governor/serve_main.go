package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/unifiedrisk/governor/internal/config"
	"github.com/unifiedrisk/governor/internal/httpapi"
	"github.com/unifiedrisk/governor/internal/metrics"
	"github.com/unifiedrisk/governor/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation API and Prometheus metrics",
		Long: `Serve exposes POST /v1/evaluate for remote evidence submission, plus
/metrics and /health. The server holds no state between evaluations.`,
		RunE: runServe,
	}
	cmd.Flags().String("addr", ":9187", "Listen address")
	cmd.Flags().String("rules", "config/gate_rules.yaml", "Default gate rules YAML path")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	rulesPath, _ := cmd.Flags().GetString("rules")

	rules, warnings := config.LoadRuleFile(rulesPath)
	for _, w := range warnings {
		log.Warn().Str("warning", w).Msg("rules config degraded")
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewRegistry(registry)
	pipe := pipeline.New(
		pipeline.WithLogger(log.Logger),
		pipeline.WithMetrics(m),
	)

	server := httpapi.New(pipe, rules, registry, m, log.Logger)
	log.Info().Str("addr", addr).Msg("governor API listening")
	return http.ListenAndServe(addr, server.Handler())
}
