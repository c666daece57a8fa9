package action

import (
	"fmt"
	"strings"

	"github.com/unifiedrisk/governor/internal/gate"
)

// Toehold permit values.
const (
	PermitYes = "YES"
	PermitNo  = "NO"
)

// WhitelistEntry names one instrument eligible for a toe-hold position.
type WhitelistEntry struct {
	Alias  string `yaml:"alias" json:"alias,omitempty"`
	Symbol string `yaml:"symbol" json:"symbol,omitempty"`
}

// ToeholdAllowWhen gates the exception on governance state. Empty lists
// impose no constraint for that dimension.
type ToeholdAllowWhen struct {
	RotationModes []string `yaml:"rotation_modes" json:"rotation_modes,omitempty"`
	Gates         []string `yaml:"gate_any_of" json:"gate_any_of,omitempty"`
	DRS           []string `yaml:"drs_any_of" json:"drs_any_of,omitempty"`
}

// ToeholdConfig is the declarative configuration for the exception.
type ToeholdConfig struct {
	Version   string           `yaml:"version" json:"version"`
	Enabled   bool             `yaml:"enabled" json:"enabled"`
	MaxLots   int              `yaml:"max_lots" json:"max_lots"`
	Whitelist []WhitelistEntry `yaml:"whitelist" json:"whitelist"`
	AllowWhen ToeholdAllowWhen `yaml:"allow_when" json:"allow_when"`
}

// ToeholdReason records why the permit resolved the way it did.
type ToeholdReason struct {
	Code  string `json:"code"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

// ToeholdException is the resolved governance micro-exception. It can add
// one narrowly-scoped allowance; it can never weaken the gate.
type ToeholdException struct {
	Version   string           `json:"version"`
	Enabled   bool             `json:"enabled"`
	Permit    string           `json:"permit"`
	MaxLots   int              `json:"max_lots"`
	Whitelist []WhitelistEntry `json:"whitelist"`
	Reasons   []ToeholdReason  `json:"reasons"`
}

// BuildToehold resolves the exception from rotation mode, gate, and DRS
// signal. Permit defaults to NO; every denial is recorded with a reason.
func BuildToehold(cfg ToeholdConfig, rotationMode string, level gate.Level, drs string) ToeholdException {
	out := ToeholdException{
		Version:   cfg.Version,
		Enabled:   cfg.Enabled,
		Permit:    PermitNo,
		MaxLots:   cfg.MaxLots,
		Whitelist: cfg.Whitelist,
		Reasons:   []ToeholdReason{},
	}
	if out.Version == "" {
		out.Version = "TOEHOLD-EXCEPTION-V1"
	}
	if out.MaxLots <= 0 {
		out.MaxLots = 1
	}

	if !cfg.Enabled {
		out.Reasons = append(out.Reasons, ToeholdReason{
			Code: "TOEHOLD_DISABLED", Level: "INFO", Msg: "disabled by config",
		})
		return out
	}
	if len(cfg.AllowWhen.RotationModes) > 0 && rotationMode != "" && !contains(cfg.AllowWhen.RotationModes, rotationMode) {
		out.Reasons = append(out.Reasons, ToeholdReason{
			Code: "TOEHOLD_NOT_NEEDED", Level: "INFO", Msg: fmt.Sprintf("rotation_mode=%s", rotationMode),
		})
		return out
	}
	if len(cfg.AllowWhen.Gates) > 0 && !contains(cfg.AllowWhen.Gates, string(level)) {
		out.Reasons = append(out.Reasons, ToeholdReason{
			Code: "TOEHOLD_GATE_NOT_MATCH", Level: "INFO", Msg: fmt.Sprintf("Gate=%s", level),
		})
		return out
	}
	if len(cfg.AllowWhen.DRS) > 0 && !contains(cfg.AllowWhen.DRS, drs) {
		out.Reasons = append(out.Reasons, ToeholdReason{
			Code: "TOEHOLD_DRS_NOT_MATCH", Level: "INFO", Msg: fmt.Sprintf("DRS=%s", drs),
		})
		return out
	}

	out.Permit = PermitYes
	out.Reasons = append(out.Reasons, ToeholdReason{
		Code:  "TOEHOLD_ALLOWED",
		Level: "WARN",
		Msg:   "defensive toe-hold allowed (whitelist only, capped lots, no add/no chase)",
	})
	return out
}

// ApplyToehold injects the exception into an already-built hint. Strictly
// additive: existing bans stay, the allowance is scoped to the whitelist and
// the lot cap, and activation is always echoed into limits and conditions.
func ApplyToehold(h Hint, ex ToeholdException) Hint {
	if ex.Permit != PermitYes {
		return h
	}

	out := h
	out.Forbidden = append(append([]string{}, h.Forbidden...),
		"TOEHOLD_ADD_POSITION")
	out.Conditions = append(append([]string{}, h.Conditions...),
		"TOEHOLD=YES")
	out.Exceptions = append(append([]string{}, h.Exceptions...),
		fmt.Sprintf("toe-hold position allowed: %s, max %d lot(s), no add/no chase/no rotation",
			whitelistNames(ex.Whitelist), ex.MaxLots))

	limits := make(map[string]int, len(h.Limits)+1)
	for k, v := range h.Limits {
		limits[k] = v
	}
	limits["toehold_max_lots"] = ex.MaxLots
	out.Limits = limits
	return out
}

func whitelistNames(entries []WhitelistEntry) string {
	if len(entries) == 0 {
		return "whitelist"
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Alias != "" && e.Symbol != "":
			names = append(names, fmt.Sprintf("%s(%s)", e.Alias, e.Symbol))
		case e.Alias != "":
			names = append(names, e.Alias)
		case e.Symbol != "":
			names = append(names, e.Symbol)
		}
	}
	if len(names) == 0 {
		return "whitelist"
	}
	return strings.Join(names, ", ")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
