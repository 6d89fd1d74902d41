package memory

import "testing"

func TestPeekPokeRoundTrip(t *testing.T) {
	var m Memory
	m.Init()

	if _, written := m.Peek(0x12345); written {
		t.Fatalf("expected unwritten word to report written=false")
	}

	m.Poke(0x12345, 0xBEEF)
	word, written := m.Peek(0x12345)
	if !written || word != 0xBEEF {
		t.Fatalf("Peek after Poke = (%#04x, %v), want (0xbeef, true)", word, written)
	}
	if !m.WasWritten(0x12345) {
		t.Fatalf("WasWritten should be true after Poke")
	}
}

func TestInitClearsButKeepsAllocation(t *testing.T) {
	var m Memory
	m.Init()
	m.Poke(0x00500, 0x1111)
	p := m.pages[0]

	m.Init()
	word, written := m.Peek(0x00500)
	if word != 0 || written {
		t.Fatalf("after Init, (%#04x, %v), want (0, false)", word, written)
	}
	if m.pages[0] != p {
		t.Fatalf("Init should zero page 0 in place, not reallocate it")
	}
}

func TestPage0EagerlyAllocated(t *testing.T) {
	var m Memory
	m.Init()
	if m.WasWritten(0) {
		t.Fatalf("fresh page 0 should report unwritten")
	}
	if m.pages[0] == nil {
		t.Fatalf("page 0 should be allocated by Init")
	}
	// Page 0 must already exist: WasWritten must not allocate or panic.
	m.Poke(0, 0x42)
	word, _ := m.Peek(0)
	if word != 0x42 {
		t.Fatalf("got %#04x", word)
	}
}

func TestOutOfRangeAddressPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range address")
		}
	}()
	var m Memory
	m.Peek(1 << 20)
}
