// Package chip describes the handful of physical 1750A implementations the
// simulator can model, and which optional opcodes/timings each one carries.
// Grounded on design note 9's variant-gated dispatch: rather than the
// reference implementation's compile-time #ifdef per chip, variant checks
// happen at dispatch time against a Variant value owned by the core, the way
// the teacher gates optional S/370 features through a single runtime feature
// struct (emu/cpu/cpudefs.go's model-dependent feature flags).
package chip

// Variant identifies a physical 1750A implementation.
type Variant int

const (
	// Baseline is the minimal MIL-STD-1750A instruction set with no
	// manufacturer extensions.
	Baseline Variant = iota
	F9450
	PACE
	GVSC
	MA31750
	MAS281
)

// String names the variant for logging and CLI display.
func (v Variant) String() string {
	switch v {
	case F9450:
		return "F9450"
	case PACE:
		return "PACE"
	case GVSC:
		return "GVSC"
	case MA31750:
		return "MA31750"
	case MAS281:
		return "MAS281"
	default:
		return "baseline"
	}
}

// Extension names an optional opcode group gated by variant.
type Extension int

const (
	ExtGVSCOps Extension = iota
	ExtMA31750Ops
	ExtMAS281Ops
)

// supports maps each variant to the extension groups it implements.
var supports = map[Variant]map[Extension]bool{
	GVSC:    {ExtGVSCOps: true},
	MA31750: {ExtMA31750Ops: true},
	MAS281:  {ExtMAS281Ops: true},
}

// Supports reports whether variant v implements opcode group ext.
func Supports(v Variant, ext Extension) bool {
	return supports[v][ext]
}

// Timing holds the per-instruction-class cycle counts for a variant. Variants
// beyond Baseline run faster on several classes; values are cycles at the
// chip's nominal clock, matching the reference implementation's per-chip
// timing tables.
type Timing struct {
	Fetch    uint16
	ALUOp    uint16
	MemOp    uint16
	FloatOp  uint16
	BranchOp uint16
}

var timingTable = map[Variant]Timing{
	Baseline: {Fetch: 2, ALUOp: 2, MemOp: 2, FloatOp: 6, BranchOp: 2},
	F9450:    {Fetch: 2, ALUOp: 2, MemOp: 2, FloatOp: 6, BranchOp: 2},
	PACE:     {Fetch: 1, ALUOp: 1, MemOp: 2, FloatOp: 4, BranchOp: 1},
	GVSC:     {Fetch: 1, ALUOp: 1, MemOp: 1, FloatOp: 3, BranchOp: 1},
	MA31750:  {Fetch: 1, ALUOp: 1, MemOp: 1, FloatOp: 2, BranchOp: 1},
	// MAS281 doubles the GO-watchdog/timer tick period (20000ns vs 10000ns);
	// that ratio is consumed by the core's cycle-to-tick conversion, not here.
	MAS281: {Fetch: 1, ALUOp: 1, MemOp: 1, FloatOp: 2, BranchOp: 1},
}

// TimingFor returns the cycle-count table for v, falling back to Baseline for
// an unrecognized value.
func TimingFor(v Variant) Timing {
	if t, ok := timingTable[v]; ok {
		return t
	}
	return timingTable[Baseline]
}

// TimerTickDivisor returns how many nanoseconds of wall/cycle time correspond
// to one Timer A/B tick for the variant: MAS281's timer period is double the
// baseline's.
func TimerTickDivisor(v Variant) uint32 {
	if v == MAS281 {
		return 20000
	}
	return 10000
}
