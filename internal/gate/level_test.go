package gate

import "testing"

func TestLevelOrdering(t *testing.T) {
	ordered := []Level{Normal, Caution, PlanB, Freeze}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("expected %s to rank above %s", ordered[i], ordered[i-1])
		}
	}
}

func TestMax(t *testing.T) {
	testCases := []struct {
		a, b, want Level
	}{
		{Normal, Caution, Caution},
		{Caution, Normal, Caution},
		{Caution, Caution, Caution},
		{PlanB, Caution, PlanB},
		{Freeze, Normal, Freeze},
		{Normal, Freeze, Freeze},
	}
	for _, tc := range testCases {
		if got := Max(tc.a, tc.b); got != tc.want {
			t.Errorf("Max(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in    string
		want  Level
		known bool
	}{
		{"NORMAL", Normal, true},
		{"CAUTION", Caution, true},
		{"PLANB", PlanB, true},
		{"FREEZE", Freeze, true},
		{"normal", "", false},
		{"HALT", "", false},
		{"", "", false},
	}
	for _, tc := range testCases {
		got, ok := Parse(tc.in)
		if ok != tc.known || got != tc.want {
			t.Errorf("Parse(%q) = (%s, %v), want (%s, %v)", tc.in, got, ok, tc.want, tc.known)
		}
	}
}

func TestUnknownLevelRanksBelowNormal(t *testing.T) {
	if Level("HALT").Rank() >= Normal.Rank() {
		t.Error("unknown level must not outrank NORMAL")
	}
	if Level("HALT").Known() {
		t.Error("unknown level reported as known")
	}
}
