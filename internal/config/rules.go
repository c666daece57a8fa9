package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unifiedrisk/governor/internal/action"
	"github.com/unifiedrisk/governor/internal/overlay"
)

// LoadRuleFile reads the gate rules document. Fail-soft by contract: a
// missing or malformed file never blocks a run — the caller receives nil
// (overlay degrades to base_only) plus warning codes for the audit trail.
func LoadRuleFile(path string) (*overlay.RuleFile, []string) {
	warnings := []string{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("missing_file:%s", path))
		} else {
			warnings = append(warnings, fmt.Sprintf("rules_read_error:%s", path))
		}
		return nil, warnings
	}

	var file overlay.RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		warnings = append(warnings, "yaml_load_error:rules")
		return nil, warnings
	}
	if file.Gate == nil {
		warnings = append(warnings, "missing:gate_spec")
		return nil, warnings
	}
	return &file, warnings
}

// LoadToeholdConfig reads the toe-hold exception configuration. Unlike the
// rules file this is strict: the exception widens what is allowed, so a
// broken config must not silently activate it.
func LoadToeholdConfig(path string) (*action.ToeholdConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read toehold config: %w", err)
	}
	var cfg action.ToeholdConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse toehold YAML: %w", err)
	}
	return &cfg, nil
}
