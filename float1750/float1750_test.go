package float1750

import "testing"

func TestRoundTrip32(t *testing.T) {
	values := []float64{1.0, -1.0, 0.5, -0.5, 0.1, 123.456, -999.125, 1e-10, -1e20}
	for _, v := range values {
		words, status := Encode32(v)
		if status != StatusOK {
			t.Fatalf("Encode32(%v) status=%d", v, status)
		}
		got := Decode32(words)
		if relErr(got, v) > 1.0/(1<<22) {
			t.Errorf("Encode32/Decode32(%v) = %v, relative error too large", v, got)
		}
	}
}

func TestRoundTrip48(t *testing.T) {
	values := []float64{1.0, -1.0, 0.1, 123456.789, -0.000001}
	for _, v := range values {
		words, status := Encode48(v)
		if status != StatusOK {
			t.Fatalf("Encode48(%v) status=%d", v, status)
		}
		got := Decode48(words)
		if relErr(got, v) > 1.0/(1<<38) {
			t.Errorf("Encode48/Decode48(%v) = %v, relative error too large", v, got)
		}
	}
}

func TestZero(t *testing.T) {
	words, status := Encode32(0)
	if status != StatusOK || words != [2]uint16{0, 0} {
		t.Fatalf("Encode32(0) = %v, %d", words, status)
	}
	if Decode32(words) != 0 {
		t.Fatalf("Decode32(zero) != 0")
	}
}

func TestOverflow32(t *testing.T) {
	_, status := Encode32(Flt32Max * 4)
	if status != StatusOverflow {
		t.Fatalf("expected overflow, got status=%d", status)
	}
}

func TestUnderflow32(t *testing.T) {
	_, status := Encode32(Flt32Min / 4)
	if status != StatusUnderflow {
		t.Fatalf("expected underflow, got status=%d", status)
	}
}

func TestOverflowSaturationIgnoresSign(t *testing.T) {
	// Overflow saturates to the fixed maximum-magnitude pattern regardless
	// of the sign of the value that overflowed.
	wordsPos, status := Encode32(Flt32Max * 4)
	if status != StatusOverflow {
		t.Fatalf("expected overflow, got status=%d", status)
	}
	if wordsPos != [2]uint16{0x7FFF, 0xFF7F} {
		t.Fatalf("Encode32(positive overflow) = %#v, want {0x7FFF,0xFF7F}", wordsPos)
	}
	wordsNeg, status := Encode32(-Flt32Max * 4)
	if status != StatusOverflow {
		t.Fatalf("expected overflow, got status=%d", status)
	}
	if wordsNeg != wordsPos {
		t.Fatalf("Encode32(negative overflow) = %#v, want same pattern as positive overflow %#v", wordsNeg, wordsPos)
	}

	words48Pos, status := Encode48(Flt48Max * 4)
	if status != StatusOverflow {
		t.Fatalf("expected overflow, got status=%d", status)
	}
	if words48Pos != [3]uint16{0x7FFF, 0xFFFF, 0xFF7F} {
		t.Fatalf("Encode48(positive overflow) = %#v, want {0x7FFF,0xFFFF,0xFF7F}", words48Pos)
	}
	words48Neg, status := Encode48(-Flt48Max * 4)
	if status != StatusOverflow {
		t.Fatalf("expected overflow, got status=%d", status)
	}
	if words48Neg != words48Pos {
		t.Fatalf("Encode48(negative overflow) = %#v, want same pattern as positive overflow %#v", words48Neg, words48Pos)
	}
}

func TestOneRepresentation(t *testing.T) {
	// Scenario C's 1.0 pattern: {0x4000, 0x0001}.
	words := [2]uint16{0x4000, 0x0001}
	got := Decode32(words)
	if relErr(got, 1.0) > 1e-6 {
		t.Fatalf("Decode32({0x4000,0x0001}) = %v, want ~1.0", got)
	}
}

func relErr(got, want float64) float64 {
	if want == 0 {
		if got == 0 {
			return 0
		}
		return 1
	}
	d := got - want
	if d < 0 {
		d = -d
	}
	if want < 0 {
		want = -want
	}
	return d / want
}
