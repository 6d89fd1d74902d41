// Package core owns the complete architectural state of one MIL-STD-1750A
// simulator instance and drives its instruction-by-instruction execution
// loop. It is the "SimulatorCore value" called for in the design notes: a
// single mutable struct referencing the register file, physical memory, MMU,
// interrupt/timer state, and chip variant, with no package-level globals. All
// host-facing collaborators (breakpoint registry, user XIO handler, console)
// are injected through the Hooks interface, the way the teacher's emu/cpu
// package takes its channel and device callbacks rather than reaching for
// globals.
package core

import (
	"fmt"

	"github.com/EtchedPixels/sim1750a/chip"
	"github.com/EtchedPixels/sim1750a/interrupt"
	"github.com/EtchedPixels/sim1750a/memory"
	"github.com/EtchedPixels/sim1750a/mmu"
	"github.com/EtchedPixels/sim1750a/registers"
)

// Status is the outcome of one call to ExecuteOne.
type Status int

const (
	// StatusOK carries a non-negative cycle count in the accompanying value.
	StatusOK Status = iota
	// StatusBreakpoint means a memory breakpoint fired, or the instruction
	// was the explicit BPT opcode 0xFFFF.
	StatusBreakpoint
	// StatusMemError means a memory-protection fault or addressing error
	// occurred; PIR/FT are already updated and IC was not advanced past the
	// faulting instruction.
	StatusMemError
	// StatusCancelled means the host's cooperative cancellation check fired
	// between instructions.
	StatusCancelled
)

// BreakKind distinguishes a read hit from a write hit for the breakpoint
// hook, matching the access that triggered it.
type BreakKind int

const (
	BreakRead BreakKind = iota
	BreakWrite
)

// Hooks are the external collaborators the core never implements itself:
// the breakpoint registry, the user-extensible XIO hook, console output, and
// the host's cancellation check. A nil Hooks is valid; every method then has
// a safe no-op default via hooks.
type Hooks interface {
	// CheckBreakpoint reports whether a read/write at phys should abort the
	// in-flight instruction. Called on the first memory access that could
	// trigger one; the engine never half-executes an instruction.
	CheckBreakpoint(phys uint32, kind BreakKind) bool
	// UserXIO handles an XIO address the built-in table does not recognize.
	// It may mutate *value for an input operation.
	UserXIO(addr uint16, value *uint16) error
	// ConsoleOutput emits one printable byte from the CO XIO operation.
	ConsoleOutput(b byte)
	// Cancelled is polled between instructions; a true return stops the run
	// loop with StatusCancelled while leaving 1750A state consistent.
	Cancelled() bool
}

type defaultHooks struct{}

func (defaultHooks) CheckBreakpoint(uint32, BreakKind) bool     { return false }
func (defaultHooks) UserXIO(addr uint16, value *uint16) error   { return nil }
func (defaultHooks) ConsoleOutput(b byte)                       {}
func (defaultHooks) Cancelled() bool                            { return false }

// backtraceDepth is the fixed ring-buffer size for instruction-entry
// register snapshots (§3).
const backtraceDepth = 200

// Core is the complete simulator state: register file, physical memory, MMU,
// chip variant, and the injected host hooks. The zero value is not usable:
// construct one with New (which builds the dispatch table), then call Init.
type Core struct {
	Regs registers.File
	Mem  memory.Memory
	MMU  mmu.MMU

	Variant chip.Variant
	Hooks   Hooks

	// NeedSpeed disables the backtrace ring and the per-instruction
	// cancellation poll, matching the "speed on" CLI command (§6).
	NeedSpeed bool

	bt      [backtraceDepth]registers.File
	btNext  int
	btCount int

	bex       interrupt.BexIndex
	timerState interrupt.TimerState

	table [256]opcodeFunc
}

// New constructs a Core for the given chip variant with the provided hooks
// (nil is accepted and replaced by a no-op implementation).
func New(variant chip.Variant, hooks Hooks) *Core {
	c := &Core{Variant: variant, Hooks: hooks}
	c.table = buildDispatchTable(variant)
	return c
}

func (c *Core) hooks() Hooks {
	if c.Hooks == nil {
		return defaultHooks{}
	}
	return c.Hooks
}

// Init brings the core to its power-up state: registers and MMU zeroed to
// identity mapping, physical memory zeroed, page 0 eagerly allocated, cycle
// and instruction counters reset. Physical memory page allocation itself is
// monotonic and is not undone by Init (§3 lifecycle).
func (c *Core) Init() {
	c.Regs.Reset()
	c.MMU.Init()
	c.Mem.Init()
	c.btNext, c.btCount = 0, 0
	c.bex = interrupt.BexIndex{}
	c.timerState = interrupt.TimerState{}
}

// Reset re-zeros register and MMU state without touching physical memory
// contents, matching the distinction the spec draws between "init" (clears
// memory too) and "reset" (CPU state only).
func (c *Core) Reset() {
	c.Regs.Reset()
	c.MMU.Init()
	c.btNext, c.btCount = 0, 0
	c.bex = interrupt.BexIndex{}
	c.timerState = interrupt.TimerState{}
}

// snapshotBacktrace records the full register state at instruction entry,
// before decode, into the fixed 200-entry circular buffer. Disabled under
// NeedSpeed.
func (c *Core) snapshotBacktrace() {
	if c.NeedSpeed {
		return
	}
	c.bt[c.btNext] = c.Regs
	c.btNext = (c.btNext + 1) % backtraceDepth
	if c.btCount < backtraceDepth {
		c.btCount++
	}
}

// Backtrace returns up to n most recent pre-decode register snapshots, most
// recent first.
func (c *Core) Backtrace(n int) []registers.File {
	if n > c.btCount {
		n = c.btCount
	}
	out := make([]registers.File, n)
	idx := c.btNext
	for i := 0; i < n; i++ {
		idx--
		if idx < 0 {
			idx = backtraceDepth - 1
		}
		out[i] = c.bt[idx]
	}
	return out
}

// faultMemProtect records a memory-protection fault exactly as a MMU
// violation must: set FT and PIR.MachError, but never advance IC past the
// faulting instruction.
func (c *Core) faultMemProtect() {
	c.Regs.FT = registers.FTMemProt
	c.Regs.PIR |= registers.PIRMachError
}

func (c *Core) faultIllegalInstr() {
	c.Regs.FT = registers.FTIllInstr
	c.Regs.PIR |= registers.PIRMachError
}

func (c *Core) faultPrivInstr() {
	c.Regs.FT = registers.FTPrivInstr
	c.Regs.PIR |= registers.PIRMachError
}

func (c *Core) faultIllegalAddr() {
	c.Regs.FT = registers.FTIllAddr
	c.Regs.PIR |= registers.PIRMachError
}

// faultLogLine renders a one-line fault description for the log, matching the
// "instruction, operands, IC" contract of §7.
func (c *Core) faultLogLine(opcode uint16, err error) string {
	return fmt.Sprintf("fault at ic=%#04x opcode=%#04x: %v", c.Regs.IC, opcode, err)
}
