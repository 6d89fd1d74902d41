// Package interrupt implements the 1750A's Timer A/B/GO-watchdog tick
// accounting and the prioritized, vectored interrupt dispatch that walks PIR
// against MK and performs a context switch through the fixed low-memory
// Linkage-Pointer/Service-Pointer tables. Grounded on the teacher's
// emu/cpu/cpu_timer.go tick-accounting shape, generalized to the 1750A's
// three independent counters and carrying over the priority-walk and vector
// addressing from the reference implementation's workout_timing/
// workout_interrupts.
package interrupt

import (
	"github.com/EtchedPixels/sim1750a/chip"
	"github.com/EtchedPixels/sim1750a/memory"
	"github.com/EtchedPixels/sim1750a/mmu"
	"github.com/EtchedPixels/sim1750a/registers"
)

// Fixed low-memory vector table locations (logical, AS 0, Code bank) for the
// sixteen priority levels, indexed by level n (0 = highest priority,
// PIRPowerDown; 15 = lowest, PIRUser5). Each level has a 2-word entry:
// word 0 is the Linkage Pointer (where to save the interrupted context), word
// 1 is the Service Pointer (where the handler's entry values live).
const (
	vectorBase = 0x0020 // logical address of level 0's Linkage Pointer.
)

// BexIndex is the service-index side channel latched by a BEX instruction:
// when PIRBex is the interrupt taken, the vector lookup is offset by this
// value instead of the fixed per-level slot, matching the reference
// implementation's BEX service-index dispatch.
type BexIndex struct {
	Pending bool
	Index   uint8
}

// priorityBits lists PIR bits from highest to lowest priority, matching the
// bit layout in registers.File's PIR constants (bit 15 highest).
var priorityBits = [16]uint16{
	registers.PIRPowerDown,
	registers.PIRMachError,
	registers.PIRUser0,
	registers.PIRFloatOfl,
	registers.PIRFixedOfl,
	registers.PIRBex,
	registers.PIRFloatUfl,
	registers.PIRTimerA,
	registers.PIRUser1,
	registers.PIRTimerB,
	registers.PIRUser2,
	registers.PIRUser3,
	registers.PIRIOLevel1,
	registers.PIRUser4,
	registers.PIRIOLevel2,
	registers.PIRUser5,
}

// TimerState holds the accumulators that convert executed-cycle counts into
// Timer A/B and GO-watchdog ticks (the reference implementation's static
// one_tatick_in_ns/one_tbtick_in_tatix/one_gotick_in_10usec locals in
// workout_timing). It is kept separate from registers.File because these
// are implementation-internal accumulators with no architectural address,
// not part of 1750A state a program can read or write.
type TimerState struct {
	taAccumNs  uint32
	tbDivCount uint8
	goDivCount uint8
}

// cycleNs is the simulated clock period in nanoseconds per executed cycle,
// grounded on the reference implementation's uP_CYCLE_IN_NS constant.
const cycleNs = 100

// goTickDivisor is how many Timer-A periods elapse per GO-watchdog tick,
// per spec.md's "GO Watchdog: ticks every 10 TA-units". (The reference
// implementation's own GOTIMER_PERIOD_IN_10uSEC is a larger, board-specific
// constant; SPEC_FULL follows spec.md's stated figure here rather than the
// source's literal value.)
const goTickDivisor = 10

// Advance converts cycles executed cycles into Timer A/B ticks and
// GO-watchdog ticks, following the reference implementation's
// workout_timing: cycles accumulate nanoseconds against the chip's Timer-A
// period (10us, 20us for MAS281 per chip.TimerTickDivisor); each period
// crossing ticks Timer A (only while SYS.TA is enabled), decimates into a
// Timer-B tick every ten Timer-A periods (only while SYS.TB is enabled, and
// the decimation counter itself only advances while enabled, matching the
// reference implementation's gating), and decimates into a GO-watchdog tick
// every goTickDivisor Timer-A periods unconditionally (GO has no enable
// bit). Timer A/B post PIRTimerA/PIRTimerB on wraparound past 0xFFFF; GO's
// wraparound is reported to the caller, since GO has no PIR bit of its own
// and the core itself raises Machine-Error/SYSFAULT0.
func Advance(rf *registers.File, ts *TimerState, cycles uint16, variant chip.Variant) (goExpired bool) {
	period := chip.TimerTickDivisor(variant)
	ts.taAccumNs += uint32(cycles) * cycleNs
	for ts.taAccumNs >= period {
		ts.taAccumNs -= period

		if rf.SYS&registers.SysTA != 0 {
			if tickUp(&rf.TA) {
				rf.PIR |= registers.PIRTimerA
			}
		}

		if rf.SYS&registers.SysTB != 0 {
			ts.tbDivCount++
			if ts.tbDivCount >= goTickDivisor {
				ts.tbDivCount = 0
				if tickUp(&rf.TB) {
					rf.PIR |= registers.PIRTimerB
				}
			}
		}

		ts.goDivCount++
		if ts.goDivCount >= goTickDivisor {
			ts.goDivCount = 0
			if tickUp(&rf.GO) {
				goExpired = true
			}
		}
	}
	return goExpired
}

// tickUp increments counter by one, reporting whether it wrapped past
// 0xFFFF back to 0 — the same wraparound rule Timer A, Timer B, and GO all
// share.
func tickUp(counter *uint16) (wrapped bool) {
	if *counter == 0xFFFF {
		*counter = 0
		return true
	}
	*counter++
	return false
}

// exemptFromIntEnable reports whether bit bypasses the SYS.INT master-enable
// gate: Power-Down, Machine-Error, and BEX are always eligible.
func exemptFromIntEnable(bit uint16) bool {
	return bit == registers.PIRPowerDown || bit == registers.PIRMachError || bit == registers.PIRBex
}

// exemptFromMask reports whether bit bypasses the MK gate: Power-Down and
// BEX are always eligible regardless of mask state.
func exemptFromMask(bit uint16) bool {
	return bit == registers.PIRPowerDown || bit == registers.PIRBex
}

// Pending walks PIR from MSB (Power-Down, level 0) to LSB (User-5, level
// 15) and returns the first bit eligible to be serviced: set in PIR, passing
// the SYS.INT gate (unless exempt), and passing the MK gate (unless exempt).
// MK is a per-bit mask register using the same bit layout as PIR, not a
// priority threshold.
func Pending(rf *registers.File) (bit uint16, level int, ok bool) {
	for lvl, b := range priorityBits {
		if rf.PIR&b == 0 {
			continue
		}
		if rf.SYS&registers.SysInt == 0 && !exemptFromIntEnable(b) {
			continue
		}
		if rf.MK&b == 0 && !exemptFromMask(b) {
			continue
		}
		return b, lvl, true
	}
	return 0, 0, false
}

// Dispatch services the highest-priority pending interrupt exactly as
// workout_interrupts does: clear the PIR bit and SYS.INT, read the
// Linkage/Service Pointers from the fixed CODE/AS-0 vector table, load the
// new {MK, SW, IC} triple from the service area (or, for a BEX interrupt,
// take IC from SVP+2+bex_index), and save the old {MK, SW, IC} triple at the
// linkage address under the newly-loaded address state. Only one interrupt
// is serviced per call.
func Dispatch(rf *registers.File, u *mmu.MMU, m *memory.Memory, bex BexIndex) (serviced bool) {
	bit, level, ok := Pending(rf)
	if !ok {
		return false
	}
	intnum := uint16(level)

	lpAddr := vectorBase + 2*intnum
	spAddr := vectorBase + 1 + 2*intnum
	lp, _ := mmu.Fetch(u, m, 0, 0, lpAddr)
	sp, _ := mmu.Fetch(u, m, 0, 0, spAddr)

	// The linkage/service pointer table and the service area it points at
	// both live in AS 0, regardless of the AS the interrupted code was
	// running under (the reference implementation clears SW's AS bits to 0
	// before reading LP/SVP and reads the new MK/SW/IC triple via
	// get_raw(DATA, 0, svp, ...)).
	newMK, _ := mmu.Load(u, m, 0, 0, sp)
	newSW, _ := mmu.Load(u, m, 0, 0, sp+1)
	var newIC uint16
	if bit == registers.PIRBex && bex.Pending {
		newIC, _ = mmu.Load(u, m, 0, 0, sp+2+uint16(bex.Index))
	} else {
		newIC, _ = mmu.Load(u, m, 0, 0, sp+2)
	}
	newAS := uint8(newSW & 0x0F)

	oldMK, oldSW, oldIC := rf.MK, rf.SW, rf.IC
	_ = mmu.Store(u, m, newAS, 0, lp, oldMK)
	_ = mmu.Store(u, m, newAS, 0, lp+1, oldSW)
	_ = mmu.Store(u, m, newAS, 0, lp+2, oldIC)

	rf.PIR &^= bit
	rf.SYS &^= registers.SysInt
	rf.MK = newMK
	rf.SW = newSW
	rf.IC = newIC
	return true
}
