package execution

import "github.com/unifiedrisk/governor/internal/gate"

// Band is the execution-friction code estimating near-term drawdown risk.
// Ordered: A < N < D1 < D2 < D3. A and N carry no friction pressure.
type Band string

const (
	BandA  Band = "A"
	BandN  Band = "N"
	BandD1 Band = "D1"
	BandD2 Band = "D2"
	BandD3 Band = "D3"
)

var bandRank = map[Band]int{
	BandA:  0,
	BandN:  1,
	BandD1: 2,
	BandD2: 3,
	BandD3: 4,
}

// Known reports whether b is a recognized band.
func (b Band) Known() bool {
	_, ok := bandRank[b]
	return ok
}

// Rank returns the friction rank of a known band, -1 otherwise.
func (b Band) Rank() int {
	if r, ok := bandRank[b]; ok {
		return r
	}
	return -1
}

// MinGate returns the minimum gate severity the band forces. A and N (and
// anything unrecognized) add no pressure.
func (b Band) MinGate() (gate.Level, bool) {
	switch b {
	case BandD3:
		return gate.Freeze, true
	case BandD2:
		return gate.PlanB, true
	case BandD1:
		return gate.Caution, true
	default:
		return "", false
	}
}

// ApplyOverlay layers the execution band on top of the rule-overlay gate.
// A second, independent downgrade-only stage: the result is never less
// severe than gatePre, and applying it twice is a no-op.
func ApplyOverlay(gatePre gate.Level, band Band) gate.Level {
	required, ok := band.MinGate()
	if !ok {
		return gatePre
	}
	return gate.Max(gatePre, required)
}
