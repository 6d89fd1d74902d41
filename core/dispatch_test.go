package core

import (
	"testing"

	"github.com/EtchedPixels/sim1750a/chip"
	"github.com/EtchedPixels/sim1750a/float1750"
	"github.com/EtchedPixels/sim1750a/mmu"
	"github.com/EtchedPixels/sim1750a/registers"
)

// countingHooks answers Cancelled() true on exactly one call index, letting
// a test script a cancellation at a precise point in a Block MOV's loop
// (scenario F) without needing real wall-clock concurrency.
type countingHooks struct {
	defaultHooks
	calls    int
	cancelOn int
}

func (h *countingHooks) Cancelled() bool {
	hit := h.calls == h.cancelOn
	h.calls++
	return hit
}

// Scenario A/B (§8): AR R2,R3 (0xA123) adds two register-direct INT16
// operands, sets carry on overflow, and leaves condition status correct.
func TestScenarioAddRegisterDirect(t *testing.T) {
	c := newTestCore()
	c.Mem.Poke(0, 0xA123)
	c.Regs.R[2] = 5
	c.Regs.R[3] = 7

	cycles, st := c.ExecuteOne()
	if st != StatusOK {
		t.Fatalf("status = %v, want StatusOK", st)
	}
	if c.Regs.R[2] != 12 {
		t.Fatalf("R2 = %d, want 12", c.Regs.R[2])
	}
	if c.Regs.IC != 1 {
		t.Fatalf("IC = %#04x, want 1", c.Regs.IC)
	}
	if c.Regs.SW&registers.CSCarry != 0 {
		t.Fatalf("unexpected carry on non-overflowing add")
	}
	if cycles <= 0 {
		t.Fatalf("expected a positive cycle count")
	}
}

// Scenario B: the same AR encoding, but with operands that carry out of the
// 16-bit result.
func TestScenarioAddRegisterDirectCarry(t *testing.T) {
	c := newTestCore()
	c.Mem.Poke(0, 0xA123)
	c.Regs.R[2] = 0xFFFF
	c.Regs.R[3] = 0x0002

	_, st := c.ExecuteOne()
	if st != StatusOK {
		t.Fatalf("status = %v, want StatusOK", st)
	}
	if c.Regs.R[2] != 0x0001 {
		t.Fatalf("R2 = %#04x, want 0x0001", c.Regs.R[2])
	}
	if c.Regs.SW&registers.CSCarry == 0 {
		t.Fatalf("expected carry to be set")
	}
}

// Scenario C (§8): FDR R0,R2 (0xD902) divides the FLT32 accumulator in
// R0/R1 by the FLT32 pair in R2/R3; dividing by exact zero must raise
// PIR.FLOATOFL and leave the accumulator cleared rather than produce Inf/NaN.
func TestScenarioFloatDivideByZero(t *testing.T) {
	c := newTestCore()
	c.Mem.Poke(0, 0xD902)
	// R0/R1 hold a nonzero FLT32 value; R2/R3 are the zero divisor.
	c.Regs.R[0] = 0x4000
	c.Regs.R[1] = 0x0001
	c.Regs.R[2] = 0
	c.Regs.R[3] = 0

	_, st := c.ExecuteOne()
	if st != StatusOK {
		t.Fatalf("status = %v, want StatusOK (the fault is architectural, not a simulator error)", st)
	}
	if c.Regs.PIR&registers.PIRFloatOfl == 0 {
		t.Fatalf("expected PIR.FLOATOFL to be set on divide by zero")
	}
	if c.Regs.R[0] != 0 || c.Regs.R[1] != 0 {
		t.Fatalf("accumulator should be cleared on divide-by-zero fault, got R0=%#04x R1=%#04x", c.Regs.R[0], c.Regs.R[1])
	}
}

// Scenario D (§8): a store to a write-protected page must fault without
// performing the write and without advancing IC past the faulting
// instruction, so a retry after the host clears protection resumes cleanly.
//
// The literal scenario D encoding in the spec (0x9000 with an all-zero low
// byte) cannot name an operand register under this opcode map — see
// DESIGN.md's resolution of this Open Question. 0x9020 (ST R2, memory
// direct, no index) is used instead to exercise the identical behavior.
func TestScenarioStoreToProtectedPage(t *testing.T) {
	c := newTestCore()
	c.Mem.Poke(0, 0x9020)   // ST R2, <disp>
	c.Mem.Poke(1, 0x1000)   // displacement, fetched through the code bank
	c.Regs.R[2] = 0x55AA

	c.MMU.Set(mmu.Data, 0, 1, mmu.PageReg{PPA: 1, AL: 0, EW: true})

	_, st := c.ExecuteOne()
	if st != StatusMemError {
		t.Fatalf("status = %v, want StatusMemError", st)
	}
	if c.Regs.IC != 0 {
		t.Fatalf("IC = %#04x, want 0 (rolled back to the faulting instruction)", c.Regs.IC)
	}
	if c.Regs.FT&registers.FTMemProt == 0 {
		t.Fatalf("expected FT.MEMPROT to be recorded")
	}
	w, wasWritten := c.Mem.Peek(0x1000)
	if wasWritten || w != 0 {
		t.Fatalf("protected word must be untouched, got %#04x (written=%v)", w, wasWritten)
	}

	// Clearing protection and retrying the identical instruction now succeeds.
	c.MMU.Set(mmu.Data, 0, 1, mmu.PageReg{PPA: 1, AL: 0, EW: false})
	_, st = c.ExecuteOne()
	if st != StatusOK {
		t.Fatalf("retry status = %v, want StatusOK", st)
	}
	if w, _ := c.Mem.Peek(0x1000); w != 0x55AA {
		t.Fatalf("store did not take effect after retry, got %#04x", w)
	}
}

// Scenario E (§8): a pending, enabled, unmasked interrupt is serviced after
// the current instruction completes, vectoring through the fixed
// Linkage-Pointer/Service-Pointer table and saving the pre-interrupt
// {MK,SW,IC} triple at the linkage address.
func TestScenarioInterruptVectoring(t *testing.T) {
	c := newTestCore()
	const level = 15 // lowest priority, PIRUser5.
	lpAddr := uint32(0x0020 + 2*level)
	spAddr := lpAddr + 1

	const linkage = 0x0500
	const service = 0x0600
	const handlerEntry = 0x0700

	c.Mem.Poke(lpAddr, linkage)
	c.Mem.Poke(spAddr, service)
	c.Mem.Poke(service, 0x0001)   // new MK: keep PIRUser5 unmasked.
	c.Mem.Poke(service+1, 0x0000) // new SW: AS 0.
	c.Mem.Poke(service+2, handlerEntry)

	c.Mem.Poke(0, 0xFF00) // NOP, so the instruction itself does nothing observable.
	c.Regs.SYS |= registers.SysInt
	c.Regs.MK |= registers.PIRUser5
	c.Regs.PIR |= registers.PIRUser5

	_, st := c.ExecuteOne()
	if st != StatusOK {
		t.Fatalf("status = %v, want StatusOK", st)
	}
	if c.Regs.IC != handlerEntry {
		t.Fatalf("IC = %#04x, want %#04x (vectored to handler)", c.Regs.IC, handlerEntry)
	}
	if c.Regs.PIR&registers.PIRUser5 != 0 {
		t.Fatalf("serviced interrupt bit should be cleared from PIR")
	}
	if c.Regs.SYS&registers.SysInt != 0 {
		t.Fatalf("SYS.INT should be cleared on entry to the handler")
	}
	if savedIC, _ := c.Mem.Peek(linkage + 2); savedIC != 1 {
		t.Fatalf("saved IC at linkage+2 = %#04x, want 1 (post-NOP)", savedIC)
	}
}

// Scenario F (§8): Block MOV (0x9321, MOV R2,R1) is interruptible between
// words. A cancellation mid-transfer must leave the already-moved words
// committed and IC rewound to the MOV opcode itself, so blindly
// re-executing the same instruction resumes the transfer using the
// register state the partial run already left behind.
func TestScenarioBlockMoveRestart(t *testing.T) {
	c := newTestCore()
	c.Mem.Poke(0, 0x9321) // MOV R2,R1: src=R1, dst=R2, count=R3.
	c.Regs.R[1] = 0x2000
	c.Regs.R[2] = 0x3000
	c.Regs.R[3] = 3
	c.Mem.Poke(0x2000, 0x1111)
	c.Mem.Poke(0x2001, 0x2222)
	c.Mem.Poke(0x2002, 0x3333)

	hooks := &countingHooks{cancelOn: 1}
	c.Hooks = hooks

	_, st := c.ExecuteOne()
	if st != StatusCancelled {
		t.Fatalf("status = %v, want StatusCancelled", st)
	}
	if c.Regs.IC != 0 {
		t.Fatalf("IC = %#04x, want 0 (rewound to the MOV opcode)", c.Regs.IC)
	}
	if c.Regs.R[1] != 0x2001 || c.Regs.R[2] != 0x3001 || c.Regs.R[3] != 2 {
		t.Fatalf("partial-transfer register state wrong: R1=%#04x R2=%#04x R3=%d",
			c.Regs.R[1], c.Regs.R[2], c.Regs.R[3])
	}
	if w, _ := c.Mem.Peek(0x3000); w != 0x1111 {
		t.Fatalf("first word should already be committed, got %#04x", w)
	}

	_, st = c.ExecuteOne()
	if st != StatusOK {
		t.Fatalf("resumed status = %v, want StatusOK", st)
	}
	if c.Regs.R[3] != 0 {
		t.Fatalf("R3 (count) = %d, want 0 after the resumed transfer completes", c.Regs.R[3])
	}
	if w, _ := c.Mem.Peek(0x3001); w != 0x2222 {
		t.Fatalf("second word wrong, got %#04x", w)
	}
	if w, _ := c.Mem.Peek(0x3002); w != 0x3333 {
		t.Fatalf("third word wrong, got %#04x", w)
	}
}

func TestBreakpointOpcodeNeverAdvancesIC(t *testing.T) {
	c := newTestCore()
	c.Mem.Poke(0, 0xFFFF)
	_, st := c.ExecuteOne()
	if st != StatusBreakpoint {
		t.Fatalf("status = %v, want StatusBreakpoint", st)
	}
	if c.Regs.IC != 0 {
		t.Fatalf("IC = %#04x, want 0", c.Regs.IC)
	}
}

func TestMemoryBreakpointHookRewindsIC(t *testing.T) {
	c := newTestCore()
	c.Mem.Poke(0, 0xA123)
	c.Regs.R[2], c.Regs.R[3] = 1, 1
	c.Hooks = breakOnceHooks{}

	_, st := c.ExecuteOne()
	if st != StatusBreakpoint {
		t.Fatalf("status = %v, want StatusBreakpoint", st)
	}
	if c.Regs.IC != 0 {
		t.Fatalf("IC = %#04x, want 0 (breakpoints never half-execute)", c.Regs.IC)
	}
	if c.Regs.R[2] != 1 {
		t.Fatalf("R2 must be unchanged, got %d", c.Regs.R[2])
	}
}

type breakOnceHooks struct{ defaultHooks }

func (breakOnceHooks) CheckBreakpoint(uint32, BreakKind) bool { return true }

func TestIllegalOpcodeFaults(t *testing.T) {
	c := New(chip.Baseline, nil)
	c.Init()
	c.Mem.Poke(0, 0xFF01) // neither the NOP (0xFF00) nor BPT (0xFFFF) pattern.
	_, st := c.ExecuteOne()
	if st != StatusMemError {
		t.Fatalf("status = %v, want StatusMemError", st)
	}
	if c.Regs.FT&registers.FTIllInstr == 0 {
		t.Fatalf("expected FT.ILLINSTR to be recorded")
	}
}

func TestBifSlotGatedByVariant(t *testing.T) {
	c := New(chip.Baseline, nil)
	c.Init()
	c.Mem.Poke(0, 0x4B00) // GVSC's ESQR/SQRT slot.
	_, st := c.ExecuteOne()
	if st != StatusMemError {
		t.Fatalf("baseline status = %v, want StatusMemError (no BIF extensions)", st)
	}

	g := New(chip.GVSC, nil)
	g.Init()
	g.Mem.Poke(0, 0x4B01) // SQRT on R0/R1.
	words, _ := float1750.Encode32(4.0)
	g.Regs.R[0], g.Regs.R[1] = words[0], words[1]
	_, st = g.ExecuteOne()
	if st != StatusOK {
		t.Fatalf("GVSC SQRT status = %v, want StatusOK", st)
	}
}
