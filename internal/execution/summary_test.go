package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unifiedrisk/governor/internal/evidence"
)

func high(name string) *evidence.FactorResult {
	return &evidence.FactorResult{Name: name, Level: evidence.LevelHigh}
}

func neutral(name string) *evidence.FactorResult {
	return &evidence.FactorResult{Name: name, Level: evidence.LevelNeutral}
}

func disconnected(name string) *evidence.FactorResult {
	return &evidence.FactorResult{
		Name:    name,
		Level:   evidence.LevelNeutral,
		Details: map[string]interface{}{"data_status": evidence.DataNotConnected},
	}
}

func TestBuild_Classification(t *testing.T) {
	b := NewSummaryBuilder()

	testCases := []struct {
		name        string
		slots       evidence.Slots
		wantBand    Band
		wantDrivers []string
	}{
		{
			name:        "no evidence is band A",
			slots:       evidence.Slots{},
			wantBand:    BandA,
			wantDrivers: []string{},
		},
		{
			name:        "neutral factors stay band A",
			slots:       evidence.Slots{"breadth": neutral("breadth"), "participation": neutral("participation")},
			wantBand:    BandA,
			wantDrivers: []string{},
		},
		{
			name:        "one high factor",
			slots:       evidence.Slots{"failure_rate": high("failure_rate")},
			wantBand:    BandD1,
			wantDrivers: []string{"failure_rate:HIGH"},
		},
		{
			name:        "data missing alone escalates to D1",
			slots:       evidence.Slots{"breadth": disconnected("breadth")},
			wantBand:    BandD1,
			wantDrivers: []string{"breadth:DATA_MISSING"},
		},
		{
			name: "two high factors",
			slots: evidence.Slots{
				"failure_rate":           high("failure_rate"),
				"crowding_concentration": high("crowding_concentration"),
			},
			wantBand:    BandD2,
			wantDrivers: []string{"crowding_concentration:HIGH", "failure_rate:HIGH"},
		},
		{
			name: "three high factors",
			slots: evidence.Slots{
				"failure_rate":           high("failure_rate"),
				"crowding_concentration": high("crowding_concentration"),
				"breadth":                high("breadth"),
			},
			wantBand:    BandD3,
			wantDrivers: []string{"breadth:HIGH", "crowding_concentration:HIGH", "failure_rate:HIGH"},
		},
		{
			name: "high count wins over data missing",
			slots: evidence.Slots{
				"failure_rate":           high("failure_rate"),
				"crowding_concentration": high("crowding_concentration"),
				"breadth":                disconnected("breadth"),
			},
			wantBand:    BandD2,
			wantDrivers: []string{"breadth:DATA_MISSING", "crowding_concentration:HIGH", "failure_rate:HIGH"},
		},
		{
			name:        "nil slot is skipped",
			slots:       evidence.Slots{"breadth": nil},
			wantBand:    BandA,
			wantDrivers: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := b.Build(tc.slots)
			assert.Equal(t, tc.wantBand, got.Code)
			assert.Equal(t, tc.wantDrivers, got.Drivers, "drivers are sorted by factor name")
			assert.Equal(t, Horizon, got.Horizon)
			assert.NotEmpty(t, got.RiskEstimate)
			assert.NotEmpty(t, got.Meaning)
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewSummaryBuilder()
	slots := evidence.Slots{
		"zeta":  high("zeta"),
		"alpha": high("alpha"),
		"mid":   disconnected("mid"),
	}

	first := b.Build(slots)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, b.Build(slots))
	}
	assert.Equal(t, []string{"alpha:HIGH", "mid:DATA_MISSING", "zeta:HIGH"}, first.Drivers)
}
