package core

import (
	"errors"
	"log/slog"

	"github.com/EtchedPixels/sim1750a/chip"
	"github.com/EtchedPixels/sim1750a/interrupt"
	"github.com/EtchedPixels/sim1750a/registers"
)

// opcodeFunc is the contract every handler fulfills: either it completes and
// returns the executed instruction's cycle count, or it leaves state
// unchanged (beyond what it already committed) and returns a fault/control
// status via err (design note on "uniform result-or-error value").
type opcodeFunc func(c *Core, opcode uint16) (cycles uint16, err error)

// errCancelled is returned by movBlock when the host's cooperative
// cancellation hook fires between words of a Block MOV.
var errCancelled = errors.New("core: execution cancelled")

// buildDispatchTable assembles the 256-entry hi-byte dispatch table for the
// given chip variant. Optional opcode groups (GVSC/MA31750/MAS281) are
// gated at table-build time per design note 9 ("select at runtime, not
// build time as the source does") rather than compiled out.
func buildDispatchTable(variant chip.Variant) [256]opcodeFunc {
	var t [256]opcodeFunc
	for i := range t {
		t[i] = illegalOpcode
	}

	installBaseRelFamily(&t)   // 0x00-0x3F
	installIndexedFamily(&t, variant) // 0x40-0x4F
	installBitFamily(&t)        // 0x50-0x5F
	installShiftFamily(&t)      // 0x60-0x6F
	installBranchFamily(&t)     // 0x70-0x7F
	installLoadStoreFamily(&t)  // 0x80-0x9F

	add := makeArithFamily(opAdd, opAddExt)
	sub := makeArithFamily(opSub, opSubExt)
	mul := makeArithFamily(opMul, opMulExt)
	div := makeArithFamily(opDiv, opDivExt)
	cmp := makeCompareFamily()
	for i := 0; i < 16; i++ {
		t[0xA0+i] = add[i]
		t[0xB0+i] = sub[i]
		t[0xC0+i] = mul[i]
		t[0xD0+i] = div[i]
		t[0xF0+i] = cmp[i]
	}

	installLogicalFamily(&t, variant) // 0xE0-0xEF
	installExtensions(&t, variant)

	// 0xFF is the third special hi-byte (§4.6 decode): the full low byte
	// chooses NOP vs illegal. 0xFFFF (BPT) is intercepted before dispatch
	// in ExecuteOne and never reaches this handler.
	t[0xFF] = nopOrIllegal

	return t
}

func nopOrIllegal(c *Core, opcode uint16) (uint16, error) {
	if opcode&0xFF == 0x00 {
		c.Regs.IC++
		return c.timing().Fetch, nil
	}
	c.faultIllegalInstr()
	return 0, errMemProtect
}

func illegalOpcode(c *Core, opcode uint16) (uint16, error) {
	c.faultIllegalInstr()
	return 0, errMemProtect
}

// ExecuteOne fetches, decodes, and executes exactly one instruction, then
// runs timer advance and interrupt dispatch before returning, matching the
// per-instruction contract of §4.6 and the ordering guarantees of §5.
func (c *Core) ExecuteOne() (int, Status) {
	if !c.NeedSpeed && c.hooks().Cancelled() {
		return 0, StatusCancelled
	}

	c.snapshotBacktrace()

	opcode, err := c.fetchCode(c.Regs.IC)
	if err != nil {
		return 0, statusFor(err)
	}

	if opcode == 0xFFFF {
		return 0, StatusBreakpoint
	}

	hiByte := uint8(opcode >> 8)
	handler := c.table[hiByte]

	startIC := c.Regs.IC
	cycles, err := handler(c, opcode)
	if err != nil {
		if st := statusFor(err); st != StatusOK {
			// A memory fault leaves IC at the faulting instruction so the
			// vectored handler's return address is correct. A mid-MOV
			// cancellation also rewinds to the MOV opcode itself: that is
			// precisely how the Block MOV instruction resumes (§4.6,
			// invariant 5) — its own register state (src/dst/count)
			// already reflects the words moved so far.
			if st == StatusMemError || st == StatusCancelled || st == StatusBreakpoint {
				c.Regs.IC = startIC
			}
			if st == StatusMemError {
				slog.Warn(c.faultLogLine(opcode, err))
			}
			return 0, st
		}
	}

	c.postInstructionHousekeeping(cycles)
	return int(cycles), StatusOK
}

func statusFor(err error) Status {
	switch {
	case errors.Is(err, errBreakpoint):
		return StatusBreakpoint
	case errors.Is(err, errMemProtect):
		return StatusMemError
	case errors.Is(err, errCancelled):
		return StatusCancelled
	default:
		return StatusOK
	}
}

// postInstructionHousekeeping advances the timer subsystem and, if
// permitted, takes one pending interrupt. Arithmetic flag updates happen
// strictly before this call (every handler already committed them by the
// time it returns); advance happens strictly before workout_interrupts.
func (c *Core) postInstructionHousekeeping(cycles uint16) {
	goExpired := interrupt.Advance(&c.Regs, &c.timerState, cycles, c.Variant)
	if goExpired {
		c.Regs.FT = registers.FTSysFault0
		c.Regs.PIR |= registers.PIRMachError
	}
	interrupt.Dispatch(&c.Regs, &c.MMU, &c.Mem, c.bex)
	// The latched index is consumed by the switch that takes BEX; while
	// PIR.BEX is still pending (a higher level was taken first) it is kept.
	if c.Regs.PIR&registers.PIRBex == 0 {
		c.bex = interrupt.BexIndex{}
	}
}

// ExecuteUntilBreakOrError runs ExecuteOne in a tight loop until a
// breakpoint, memory error, or cancellation stops it, returning the total
// cycles executed and the terminating status. This is the host loop's
// "go" command (§6).
func (c *Core) ExecuteUntilBreakOrError() (totalCycles int, status Status) {
	for {
		cycles, st := c.ExecuteOne()
		totalCycles += cycles
		if st != StatusOK {
			return totalCycles, st
		}
	}
}
