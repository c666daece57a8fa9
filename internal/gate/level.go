package gate

// Level is the governance severity state gating what trading actions are
// permitted. The total order NORMAL < CAUTION < PLANB < FREEZE is defined
// exactly once, here; every component that compares gates does it through
// Rank/Max.
type Level string

const (
	Normal  Level = "NORMAL"
	Caution Level = "CAUTION"
	PlanB   Level = "PLANB"
	Freeze  Level = "FREEZE"
)

var levelRank = map[Level]int{
	Normal:  0,
	Caution: 1,
	PlanB:   2,
	Freeze:  3,
}

// Levels lists all recognized gate levels in severity order.
func Levels() []Level {
	return []Level{Normal, Caution, PlanB, Freeze}
}

// Known reports whether l is one of the four recognized levels.
func (l Level) Known() bool {
	_, ok := levelRank[l]
	return ok
}

// Rank returns the severity rank of a known level. Unknown levels rank below
// NORMAL so callers must check Known before trusting comparisons.
func (l Level) Rank() int {
	if r, ok := levelRank[l]; ok {
		return r
	}
	return -1
}

// MoreSevere reports whether l is strictly more severe than other.
func (l Level) MoreSevere(other Level) bool {
	return l.Rank() > other.Rank()
}

// Max returns the more severe of two levels. When two sources disagree, the
// more severe one always wins.
func Max(a, b Level) Level {
	if levelRank[a] >= levelRank[b] {
		return a
	}
	return b
}

// Parse normalizes a raw string into a Level. The boolean is false for
// anything outside the four recognized values.
func Parse(s string) (Level, bool) {
	l := Level(s)
	if l.Known() {
		return l, true
	}
	return "", false
}
