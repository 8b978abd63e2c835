package statline

import "testing"

func TestDeriveBattingRates_NormalCase(t *testing.T) {
	got := DeriveBattingRates(BattingCounts{
		AtBats:     4,
		Hits:       2,
		Walks:      1,
		TotalBases: 3,
	})

	want := BattingRates{AVG: 0.5, OBP: 0.6, SLG: 0.75, OPS: 1.35}
	if got != want {
		t.Fatalf("unexpected rates: got=%+v want=%+v", got, want)
	}
}

func TestDeriveBattingRates_ZeroAtBats(t *testing.T) {
	got := DeriveBattingRates(BattingCounts{})

	if got != (BattingRates{}) {
		t.Fatalf("expected all-zero rates, got %+v", got)
	}
}

func TestDeriveBattingRates_WalkOnlyAppearance(t *testing.T) {
	// AB=0 but the OBP denominator is non-zero: AVG/SLG stay 0, OBP counts.
	got := DeriveBattingRates(BattingCounts{Walks: 2})

	want := BattingRates{OBP: 1.0, OPS: 1.0}
	if got != want {
		t.Fatalf("unexpected rates: got=%+v want=%+v", got, want)
	}
}

func TestDeriveBattingRates_RoundsHalfAwayFromZero(t *testing.T) {
	// 1/3 truncates to .333; the .0005 boundary rounds up.
	got := DeriveBattingRates(BattingCounts{AtBats: 3, Hits: 1, TotalBases: 1})
	if got.AVG != 0.333 {
		t.Fatalf("unexpected AVG: got=%v want=0.333", got.AVG)
	}

	got = DeriveBattingRates(BattingCounts{AtBats: 2000, Hits: 1, TotalBases: 1})
	if got.AVG != 0.001 {
		t.Fatalf("expected .0005 to round up to .001, got %v", got.AVG)
	}
}
