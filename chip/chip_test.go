package chip

import "testing"

func TestSupportsGatesByVariant(t *testing.T) {
	if Supports(Baseline, ExtGVSCOps) {
		t.Fatalf("baseline must not support GVSC extensions")
	}
	if !Supports(GVSC, ExtGVSCOps) {
		t.Fatalf("GVSC variant must support its own extensions")
	}
	if Supports(GVSC, ExtMA31750Ops) {
		t.Fatalf("GVSC must not support MA31750-only extensions")
	}
}

func TestTimingForUnknownFallsBackToBaseline(t *testing.T) {
	got := TimingFor(Variant(999))
	want := TimingFor(Baseline)
	if got != want {
		t.Fatalf("unknown variant should fall back to baseline timing")
	}
}

func TestMAS281DoublesTimerPeriod(t *testing.T) {
	if TimerTickDivisor(MAS281) != 2*TimerTickDivisor(Baseline) {
		t.Fatalf("MAS281 timer period should be double baseline")
	}
}

func TestVariantString(t *testing.T) {
	cases := map[Variant]string{
		Baseline: "baseline",
		F9450:    "F9450",
		GVSC:     "GVSC",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Fatalf("Variant(%d).String() = %q, want %q", v, got, want)
		}
	}
}
