package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/unifiedrisk/governor/internal/config"
	"github.com/unifiedrisk/governor/internal/gate"
)

func newRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect gate rule configuration",
	}

	validateCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a gate rules file",
		Long: `Validate parses the rules file and reports every degradation the overlay
would log at run time. The overlay itself is fail-soft, so this command
exists to catch config mistakes before they silently reduce to base_only.`,
		Args: cobra.ExactArgs(1),
		RunE: runRulesValidate,
	}

	rulesCmd.AddCommand(validateCmd)
	return rulesCmd
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	file, warnings := config.LoadRuleFile(path)
	for _, w := range warnings {
		log.Warn().Str("warning", w).Msg("rules config issue")
	}
	if file == nil {
		return fmt.Errorf("rules file %s unusable: overlay would run base_only", path)
	}

	issues := 0
	seen := map[string]bool{}
	for _, r := range file.Gate.Rules {
		if r.ID == "" {
			log.Warn().Msg("rule with empty id")
			issues++
			continue
		}
		if seen[r.ID] {
			log.Warn().Str("rule_id", r.ID).Msg("duplicate rule id")
			issues++
		}
		seen[r.ID] = true
		if r.When == nil || r.Then == nil {
			log.Warn().Str("rule_id", r.ID).Msg("rule missing when/then")
			issues++
			continue
		}
		if _, ok := gate.Parse(strings.ToUpper(strings.TrimSpace(r.Then.SetGate))); !ok {
			log.Warn().Str("rule_id", r.ID).Str("set_gate", r.Then.SetGate).Msg("set_gate is not a recognized level")
			issues++
		}
	}

	for _, name := range file.Gate.Order {
		if _, ok := gate.Parse(name); !ok {
			log.Warn().Str("level", name).Msg("order contains unrecognized level")
			issues++
		}
	}

	if issues > 0 {
		return fmt.Errorf("rules file %s has %d issue(s)", path, issues)
	}
	log.Info().
		Str("version", file.Meta.Version).
		Int("rules", len(file.Gate.Rules)).
		Msg("rules file is valid")
	return nil
}
