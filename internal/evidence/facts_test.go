package evidence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	facts := Facts{
		"governance": map[string]interface{}{
			"drs": map[string]interface{}{"signal": "RED"},
		},
		"explicit_nil": nil,
		"scalar":       42,
	}

	t.Run("nested path", func(t *testing.T) {
		v, ok := facts.Resolve("governance.drs.signal")
		require.True(t, ok)
		assert.Equal(t, "RED", v)
	})

	t.Run("intermediate mapping", func(t *testing.T) {
		v, ok := facts.Resolve("governance.drs")
		require.True(t, ok)
		assert.Equal(t, map[string]interface{}{"signal": "RED"}, v)
	})

	t.Run("explicit nil is present", func(t *testing.T) {
		v, ok := facts.Resolve("explicit_nil")
		assert.True(t, ok, "a key holding nil exists; only absence is not-found")
		assert.Nil(t, v)
	})

	t.Run("missing paths", func(t *testing.T) {
		for _, path := range []string{"nope", "governance.nope", "governance.drs.signal.deeper", "scalar.child", ""} {
			_, ok := facts.Resolve(path)
			assert.False(t, ok, "path %q", path)
		}
	})

	t.Run("nil facts", func(t *testing.T) {
		var f Facts
		_, ok := f.Resolve("anything")
		assert.False(t, ok)
	})
}

func TestResolve_JSONDecodedShape(t *testing.T) {
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{
		"trade_date": "2025-08-15",
		"market": "CN_A",
		"facts": {"governance": {"drs": {"signal": "ORANGE"}}}
	}`), &snap))

	v, ok := snap.Facts.Resolve("governance.drs.signal")
	require.True(t, ok)
	assert.Equal(t, "ORANGE", v)
}

func TestFactorResultHelpers(t *testing.T) {
	fr := &FactorResult{
		Name:  "breadth",
		Level: LevelNeutral,
		Details: map[string]interface{}{
			"state":       "broken",
			"data_status": DataNotConnected,
			"weight":      0.5,
		},
	}

	assert.Equal(t, "broken", fr.Detail("state"))
	assert.Equal(t, "", fr.Detail("weight"), "non-string details read as empty")
	assert.Equal(t, "", fr.Detail("absent"))
	assert.True(t, fr.DataMissing())

	var nilFR *FactorResult
	assert.Equal(t, "", nilFR.Detail("state"))
	assert.False(t, nilFR.DataMissing())
	assert.False(t, (&FactorResult{}).DataMissing())
}
