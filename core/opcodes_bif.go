package core

import (
	"math"

	"github.com/EtchedPixels/sim1750a/alu"
	"github.com/EtchedPixels/sim1750a/chip"
	"github.com/EtchedPixels/sim1750a/float1750"
	"github.com/EtchedPixels/sim1750a/registers"
)

// bifHandler implements the Built-In-Function slot at hi-byte 0x4B, which
// carries the chip-specific extension opcodes named in SPEC_FULL's
// supplemented-features section: GVSC's ESQR/SQRT/UAR/USR/STE/LE, MA31750's
// LSL/LDL/LEFL and MAS281's UCIM/UCR/UC, dispatched by the opcode's low nibble and gated
// by variant at table-build time (design note 9) rather than compiled out.
func bifHandler(variant chip.Variant) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := opcode & 0xF

		switch {
		case chip.Supports(variant, chip.ExtGVSCOps) && lower < 0x6:
			return gvscOp(c, lower, upper)
		case chip.Supports(variant, chip.ExtMA31750Ops) && lower >= 0x6 && lower < 0xC:
			return ma31750Op(c, lower, upper)
		case chip.Supports(variant, chip.ExtMAS281Ops) && lower >= 0xC:
			return mas281Op(c, lower, upper)
		}
		c.faultIllegalInstr()
		return 0, errMemProtect
	}
}

// gvscOp implements the F9450/GVSC square-root and unsigned-arithmetic
// extensions: ESQR/SQRT operate on the float32 accumulator at R[upper],
// UAR/USR are unsigned add/subtract register-register against R[upper+1].
func gvscOp(c *Core, lower uint16, upper uint8) (uint16, error) {
	switch lower {
	case 0x0, 0x1: // ESQR (estimate), SQRT (full precision) on FLT32 acc.
		words := c.regWords(upper, 2)
		v := float1750.Decode32([2]uint16{words[0], words[1]})
		if v < 0 {
			c.faultIllegalInstr()
			return 0, errMemProtect
		}
		r, status := float1750.Encode32(math.Sqrt(v))
		c.setRegWords(upper, []uint16{r[0], r[1]})
		reportArithStatus(c, status)
		alu.UpdateCS(&c.Regs, []uint16{r[0], r[1]})
	case 0x2, 0x3: // UAR/USR: unsigned add/subtract register-register.
		src := (upper + 1) % 16
		a := uint32(c.Regs.R[upper])
		b := uint32(c.Regs.R[src])
		var result uint32
		if lower == 0x2 {
			result = a + b
		} else {
			result = a - b
		}
		c.Regs.R[upper] = uint16(result)
		alu.UpdateCS(&c.Regs, []uint16{uint16(result)})
	default: // STE/LE: store/load exponent byte of the FLT32 acc.
		if lower == 0x4 {
			c.Regs.R[upper] = c.Regs.R[upper]&0xFF00 | (c.Regs.R[(upper+1)%16] & 0xFF)
		} else {
			c.Regs.R[(upper+1)%16] = c.Regs.R[upper] & 0xFF
		}
	}
	return c.timing().FloatOp, nil
}

func reportArithStatus(c *Core, status int) {
	switch {
	case status > 0:
		c.Regs.PIR |= registers.PIRFloatOfl
	case status < 0:
		c.Regs.PIR |= registers.PIRFloatUfl
	}
}

// ma31750Op implements the MA31750's long-shift/load-long family: LSL/LDL
// operate on a 32-bit accumulator at R[upper]/R[upper+1]; LEFL loads the
// exponent of the FLT48 accumulator.
func ma31750Op(c *Core, lower uint16, upper uint8) (uint16, error) {
	switch lower {
	case 0x6: // LSL: logical shift left of the 32-bit pair by R[upper+1]'s low five bits.
		words := c.regWords(upper, 2)
		v := (uint32(words[0]) << 16) | uint32(words[1])
		n := uint(c.Regs.R[(upper+1)%16] & 0x1F)
		v <<= n
		c.setRegWords(upper, []uint16{uint16(v >> 16), uint16(v)})
	case 0x7: // LDL: load long (32-bit) from the following two registers.
		src := c.regWords((upper+2)%16, 2)
		c.setRegWords(upper, src)
	default: // LEFL: load the exponent byte of the FLT48 accumulator.
		words := c.regWords(upper, 3)
		c.Regs.R[(upper+1)%16] = words[2] & 0xFF
	}
	alu.UpdateCS(&c.Regs, c.regWords(upper, 2))
	return c.timing().ALUOp, nil
}

// mas281Op implements the MAS281's unsigned compare-immediate family:
// UCIM/UCR/UC compare R[upper] against an immediate, a register, or memory
// as unsigned rather than signed values.
func mas281Op(c *Core, lower uint16, upper uint8) (uint16, error) {
	switch lower {
	case 0xC: // UCIM: unsigned compare immediate.
		imm, err := c.immediateLong()
		if err != nil {
			return 0, err
		}
		unsignedCompare(c, c.Regs.R[upper], imm)
	case 0xD: // UCR: unsigned compare register-register.
		c.Regs.IC++
		unsignedCompare(c, c.Regs.R[upper], c.Regs.R[(upper+1)%16])
	default: // UC: unsigned compare memory-direct.
		addr, err := c.memoryDirect(0)
		if err != nil {
			return 0, err
		}
		w, err := c.loadData(addr)
		if err != nil {
			return 0, err
		}
		unsignedCompare(c, c.Regs.R[upper], w)
	}
	return c.timing().ALUOp, nil
}

func unsignedCompare(c *Core, a, b uint16) {
	switch {
	case a < b:
		c.Regs.SetCS(registers.CSNegative)
	case a > b:
		c.Regs.SetCS(registers.CSPositive)
	default:
		c.Regs.SetCS(registers.CSZero)
	}
}
