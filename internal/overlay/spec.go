package overlay

// Overlay modes. Production runs downgrade_only; override exists for
// controlled replay experiments and is never the default.
const (
	ModeDowngradeOnly = "downgrade_only"
	ModeOverride      = "override"
	ModeBaseOnly      = "base_only"
)

// Meta identifies the rule spec revision for the audit trail.
type Meta struct {
	Spec      string `yaml:"spec" json:"spec,omitempty"`
	Version   string `yaml:"version" json:"version,omitempty"`
	UpdatedAt string `yaml:"updated_at" json:"updated_at,omitempty"`
}

// Then is a rule's consequence: force the gate to SetGate for Reason.
type Then struct {
	SetGate string `yaml:"set_gate" json:"set_gate"`
	Reason  string `yaml:"reason" json:"reason"`
}

// Rule is one declarative overlay rule. When stays in its raw mapping form
// until evaluation so a malformed clause degrades that rule alone.
type Rule struct {
	ID       string                 `yaml:"id" json:"id"`
	Priority int                    `yaml:"priority" json:"priority"`
	Title    string                 `yaml:"title,omitempty" json:"title,omitempty"`
	When     map[string]interface{} `yaml:"when" json:"when"`
	Then     *Then                  `yaml:"then" json:"then"`
}

// RuleSpec is the gate section of the rules configuration.
type RuleSpec struct {
	Mode  string   `yaml:"mode" json:"mode"`
	Order []string `yaml:"order" json:"order"`
	Rules []Rule   `yaml:"rules" json:"rules"`
}

// RuleFile is the full on-disk rules document.
type RuleFile struct {
	Meta Meta      `yaml:"meta" json:"meta"`
	Gate *RuleSpec `yaml:"gate" json:"gate"`
}

// SpecRef echoes the spec revision into every overlay result.
type SpecRef struct {
	Spec      string `json:"spec,omitempty"`
	Version   string `json:"version,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Hit records one matching rule, applied or not. Non-applied matches stay in
// the audit trail.
type Hit struct {
	RuleID       string   `json:"rule_id"`
	Title        string   `json:"title,omitempty"`
	Reason       string   `json:"reason"`
	SetGate      string   `json:"set_gate"`
	MatchedPaths []string `json:"matched_paths"`
	Applied      bool     `json:"applied"`
}
