package evidence

import "strings"

// Facts is the read-only nested fact mapping the rule overlay evaluates
// against. Keys navigate with dotted paths ("governance.drs.signal").
type Facts map[string]interface{}

// Resolve walks a dotted path through nested maps. The boolean reports
// presence: a path that resolves to an explicit nil returns (nil, true),
// which is distinct from "not found" for exists/not_exists semantics.
func (f Facts) Resolve(path string) (interface{}, bool) {
	if f == nil || path == "" {
		return nil, false
	}
	var cur interface{} = map[string]interface{}(f)
	for _, token := range strings.Split(path, ".") {
		if token == "" {
			return nil, false
		}
		m, ok := asStringMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[token]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// asStringMap accepts the two map shapes that reach us: JSON decoding yields
// map[string]interface{}, Facts literals yield Facts.
func asStringMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case Facts:
		return m, true
	default:
		return nil, false
	}
}

// Snapshot is one run's complete evidence: the factor slots consumed by the
// gate decider and execution builder, plus the nested facts the rule overlay
// evaluates. Each evaluation run owns its snapshot; nothing is shared.
type Snapshot struct {
	TradeDate string `json:"trade_date"`
	Market    string `json:"market"`
	Slots     Slots  `json:"slots"`
	Facts     Facts  `json:"facts,omitempty"`
}
