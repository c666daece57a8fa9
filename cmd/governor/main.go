package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	appName = "governor"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "A-share gate governance engine",
		Version: version,
		Long: `Governor evaluates daily A-share risk evidence into a Gate decision
(NORMAL/CAUTION/PLANB/FREEZE), applies the downgrade-only rule overlay and
execution-band overlay, and emits an auditable ActionHint.`,
	}

	// Accept snake_case spellings for all flags.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	logLevel := rootCmd.PersistentFlags().String("log-level", "info", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
	}

	rootCmd.AddCommand(newEvaluateCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
