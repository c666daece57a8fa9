package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedrisk/governor/internal/evidence"
)

func testFacts() evidence.Facts {
	return evidence.Facts{
		"governance": map[string]interface{}{
			"drs": map[string]interface{}{
				"signal": "RED",
				"score":  72,
			},
		},
		"trend_in_force": map[string]interface{}{
			"state": "broken",
		},
		"breadth": map[string]interface{}{
			"pct_above_ma20": 34.5,
		},
		"nullable": nil,
	}
}

func TestAtomOps(t *testing.T) {
	facts := testFacts()

	testCases := []struct {
		name      string
		atom      Atom
		wantMatch bool
		wantPaths []string
	}{
		{
			name:      "equality on string",
			atom:      Atom{Path: "governance.drs.signal", Op: "==", Value: "RED"},
			wantMatch: true,
			wantPaths: []string{"governance.drs.signal"},
		},
		{
			name:      "inequality",
			atom:      Atom{Path: "governance.drs.signal", Op: "!=", Value: "GREEN"},
			wantMatch: true,
			wantPaths: []string{"governance.drs.signal"},
		},
		{
			name:      "in list",
			atom:      Atom{Path: "governance.drs.signal", Op: "in", Value: []interface{}{"ORANGE", "RED"}},
			wantMatch: true,
			wantPaths: []string{"governance.drs.signal"},
		},
		{
			name:      "in list no match",
			atom:      Atom{Path: "governance.drs.signal", Op: "in", Value: []interface{}{"GREEN", "YELLOW"}},
			wantMatch: false,
		},
		{
			name:      "numeric compare int fact float threshold",
			atom:      Atom{Path: "governance.drs.score", Op: ">=", Value: 70.0},
			wantMatch: true,
			wantPaths: []string{"governance.drs.score"},
		},
		{
			name:      "numeric compare below threshold",
			atom:      Atom{Path: "breadth.pct_above_ma20", Op: "<", Value: 40},
			wantMatch: true,
			wantPaths: []string{"breadth.pct_above_ma20"},
		},
		{
			name:      "exists",
			atom:      Atom{Path: "trend_in_force.state", Op: "exists"},
			wantMatch: true,
			wantPaths: []string{"trend_in_force.state"},
		},
		{
			name:      "exists on nil value is absent",
			atom:      Atom{Path: "nullable", Op: "exists"},
			wantMatch: false,
		},
		{
			name:      "not_exists on missing path",
			atom:      Atom{Path: "no.such.path", Op: "not_exists"},
			wantMatch: true,
			wantPaths: []string{"no.such.path"},
		},
		{
			name:      "missing path never matches comparison",
			atom:      Atom{Path: "no.such.path", Op: "==", Value: "x"},
			wantMatch: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			warnings := []string{}
			ok, paths := tc.atom.eval(facts, &warnings)
			assert.Equal(t, tc.wantMatch, ok)
			if tc.wantMatch {
				assert.Equal(t, tc.wantPaths, paths)
			}
			assert.Empty(t, warnings)
		})
	}
}

func TestAtomWarnings(t *testing.T) {
	facts := testFacts()

	testCases := []struct {
		name string
		atom Atom
		warn string
	}{
		{
			name: "in with non-list value",
			atom: Atom{Path: "governance.drs.signal", Op: "in", Value: "RED"},
			warn: "invalid_in_value_type",
		},
		{
			name: "numeric compare on non-numeric fact",
			atom: Atom{Path: "governance.drs.signal", Op: ">", Value: 10},
			warn: "invalid_numeric_compare",
		},
		{
			name: "unsupported operator",
			atom: Atom{Path: "governance.drs.signal", Op: "matches", Value: "R.*"},
			warn: "unsupported_op:matches",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			warnings := []string{}
			ok, _ := tc.atom.eval(facts, &warnings)
			assert.False(t, ok, "a coercion failure fails closed")
			assert.Contains(t, warnings, tc.warn)
		})
	}
}

func TestAllShortCircuitsAndConcatsPaths(t *testing.T) {
	facts := testFacts()
	warnings := []string{}

	both := All{Children: []Expr{
		Atom{Path: "trend_in_force.state", Op: "==", Value: "broken"},
		Atom{Path: "governance.drs.signal", Op: "==", Value: "RED"},
	}}
	ok, paths := both.eval(facts, &warnings)
	require.True(t, ok)
	assert.Equal(t, []string{"trend_in_force.state", "governance.drs.signal"}, paths)

	failing := All{Children: []Expr{
		Atom{Path: "governance.drs.signal", Op: "==", Value: "GREEN"},
		Atom{Path: "trend_in_force.state", Op: "==", Value: "broken"},
	}}
	ok, paths = failing.eval(facts, &warnings)
	assert.False(t, ok)
	assert.Nil(t, paths)
}

func TestAnyReturnsFirstMatch(t *testing.T) {
	facts := testFacts()
	warnings := []string{}

	e := Any{Children: []Expr{
		Atom{Path: "governance.drs.signal", Op: "==", Value: "GREEN"},
		Atom{Path: "trend_in_force.state", Op: "==", Value: "broken"},
		Atom{Path: "governance.drs.signal", Op: "==", Value: "RED"},
	}}
	ok, paths := e.eval(facts, &warnings)
	require.True(t, ok)
	assert.Equal(t, []string{"trend_in_force.state"}, paths, "only the first matching child's paths surface")
}

func TestParseExpr(t *testing.T) {
	t.Run("nested all and any", func(t *testing.T) {
		warnings := []string{}
		raw := map[string]interface{}{
			"all": []interface{}{
				map[string]interface{}{"path": "a", "op": "exists"},
				map[string]interface{}{
					"any": []interface{}{
						map[string]interface{}{"path": "b", "op": "==", "value": 1},
						map[string]interface{}{"path": "c", "op": "==", "value": 2},
					},
				},
			},
		}
		e := parseExpr(raw, &warnings)
		require.NotNil(t, e)
		all, ok := e.(All)
		require.True(t, ok)
		assert.Len(t, all.Children, 2)
		assert.Empty(t, warnings)
	})

	t.Run("bare mapping is an atom", func(t *testing.T) {
		warnings := []string{}
		e := parseExpr(map[string]interface{}{"path": "x", "op": "exists"}, &warnings)
		require.NotNil(t, e)
		_, ok := e.(Atom)
		assert.True(t, ok)
	})

	t.Run("malformed shapes warn and return nil", func(t *testing.T) {
		testCases := []struct {
			name string
			raw  interface{}
			warn string
		}{
			{name: "non-mapping", raw: "not a map", warn: "invalid_expr_type"},
			{name: "all with non-list", raw: map[string]interface{}{"all": "x"}, warn: "invalid_all_type"},
			{name: "any with non-list", raw: map[string]interface{}{"any": 3}, warn: "invalid_any_type"},
			{name: "atom missing op", raw: map[string]interface{}{"path": "x"}, warn: "invalid_atom_fields"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				warnings := []string{}
				e := parseExpr(tc.raw, &warnings)
				assert.Nil(t, e)
				assert.Contains(t, warnings, tc.warn)
			})
		}
	})
}

func TestCoerceNumber(t *testing.T) {
	for _, v := range []interface{}{3, int64(3), 3.0, float32(3), "3", " 3.0 "} {
		n, ok := coerceNumber(v)
		require.True(t, ok, "%T should coerce", v)
		assert.Equal(t, 3.0, n)
	}
	for _, v := range []interface{}{"abc", nil, true, []interface{}{1}} {
		_, ok := coerceNumber(v)
		assert.False(t, ok, "%T should not coerce", v)
	}
}
