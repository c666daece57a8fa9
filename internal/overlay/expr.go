package overlay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/unifiedrisk/governor/internal/evidence"
)

// Expr is the boolean expression tree a rule's `when` clause parses into.
// The declarative form is a nested mapping: {all: [...]}, {any: [...]}, or an
// atom {path, op, value}. A mapping with neither `all` nor `any` is treated
// as an atom; a malformed atom is a no-match plus a warning, never an error.
type Expr interface {
	eval(facts evidence.Facts, warnings *[]string) (bool, []string)
}

// All matches when every child matches. Short-circuits false on the first
// failing child; on success the matched paths of all children concatenate.
type All struct {
	Children []Expr
}

// Any matches on the first matching child and returns that child's paths.
type Any struct {
	Children []Expr
}

// Atom tests one dotted path against a value.
type Atom struct {
	Path  string
	Op    string
	Value interface{}
}

func (e All) eval(facts evidence.Facts, warnings *[]string) (bool, []string) {
	matched := []string{}
	for _, child := range e.Children {
		ok, paths := child.eval(facts, warnings)
		if !ok {
			return false, nil
		}
		matched = append(matched, paths...)
	}
	return true, matched
}

func (e Any) eval(facts evidence.Facts, warnings *[]string) (bool, []string) {
	for _, child := range e.Children {
		if ok, paths := child.eval(facts, warnings); ok {
			return true, paths
		}
	}
	return false, nil
}

func (a Atom) eval(facts evidence.Facts, warnings *[]string) (bool, []string) {
	found, v := resolveFact(facts, a.Path)

	op := strings.TrimSpace(a.Op)
	switch op {
	case "exists":
		if found && v != nil {
			return true, []string{a.Path}
		}
		return false, nil
	case "not_exists":
		if !found || v == nil {
			return true, []string{a.Path}
		}
		return false, nil
	}

	if !found {
		return false, nil
	}

	switch op {
	case "==", "!=":
		res := looseEqual(v, a.Value)
		if op == "!=" {
			res = !res
		}
		if res {
			return true, []string{a.Path}
		}
		return false, nil
	case "in":
		list, ok := a.Value.([]interface{})
		if !ok {
			*warnings = append(*warnings, "invalid_in_value_type")
			return false, nil
		}
		for _, item := range list {
			if looseEqual(v, item) {
				return true, []string{a.Path}
			}
		}
		return false, nil
	case ">", ">=", "<", "<=":
		left, lok := coerceNumber(v)
		right, rok := coerceNumber(a.Value)
		if !lok || !rok {
			*warnings = append(*warnings, "invalid_numeric_compare")
			return false, nil
		}
		var res bool
		switch op {
		case ">":
			res = left > right
		case ">=":
			res = left >= right
		case "<":
			res = left < right
		default:
			res = left <= right
		}
		if res {
			return true, []string{a.Path}
		}
		return false, nil
	}

	*warnings = append(*warnings, fmt.Sprintf("unsupported_op:%s", op))
	return false, nil
}

func resolveFact(facts evidence.Facts, path string) (bool, interface{}) {
	v, ok := facts.Resolve(path)
	return ok, v
}

// looseEqual compares fact values against configured values without caring
// whether YAML/JSON decoded a number as int or float.
func looseEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	if an, aok := coerceNumber(a); aok {
		if bn, bok := coerceNumber(b); bok {
			return an == bn
		}
		return false
	}
	return a == b
}

// coerceNumber accepts ints, floats, and numeric strings. Anything else
// fails the coercion and the caller fails closed.
func coerceNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// parseExpr converts the declarative mapping form into the Expr tree.
// Returns nil plus a warning code when the shape is unusable.
func parseExpr(raw interface{}, warnings *[]string) Expr {
	m, ok := asMap(raw)
	if !ok {
		*warnings = append(*warnings, "invalid_expr_type")
		return nil
	}

	if items, present := m["all"]; present {
		children, ok := parseChildren(items, warnings)
		if !ok {
			*warnings = append(*warnings, "invalid_all_type")
			return nil
		}
		return All{Children: children}
	}
	if items, present := m["any"]; present {
		children, ok := parseChildren(items, warnings)
		if !ok {
			*warnings = append(*warnings, "invalid_any_type")
			return nil
		}
		return Any{Children: children}
	}

	path, pok := m["path"].(string)
	op, ook := m["op"].(string)
	if !pok || !ook {
		*warnings = append(*warnings, "invalid_atom_fields")
		return nil
	}
	return Atom{Path: path, Op: op, Value: m["value"]}
}

func parseChildren(items interface{}, warnings *[]string) ([]Expr, bool) {
	list, ok := items.([]interface{})
	if !ok {
		return nil, false
	}
	children := make([]Expr, 0, len(list))
	for _, item := range list {
		child := parseExpr(item, warnings)
		if child == nil {
			return nil, false
		}
		children = append(children, child)
	}
	return children, true
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case evidence.Facts:
		return m, true
	default:
		return nil, false
	}
}
