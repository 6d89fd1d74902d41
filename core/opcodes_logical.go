package core

import (
	"github.com/EtchedPixels/sim1750a/chip"
	"github.com/EtchedPixels/sim1750a/float1750"
	"github.com/EtchedPixels/sim1750a/registers"
)

// installLogicalFamily wires 0xE0-0xEF: bitwise logical register-register
// ops, the FIX/FLT float<->integer conversions, and the XBR/XWR
// byte/word-exchange operations named in SPEC_FULL's opcode map.
//
//	0xE0 AND  bitwise AND, R[upper] &= R[lower]
//	0xE1 OR   bitwise OR
//	0xE2 XOR  bitwise XOR
//	0xE3 NOT  one's complement of R[upper]
//	0xE4 FIX  FLT32 accumulator (R[upper],R[upper+1]) -> INT16 in R[upper]
//	0xE5 FLT  INT16 in R[upper] -> FLT32 accumulator
//	0xE6 FIXD FLT48 accumulator -> INT32
//	0xE7 FLTD INT32 -> FLT48 accumulator
//	0xE8 XBR  exchange high/low bytes of R[upper]
//	0xE9 XWR  exchange R[upper] and R[lower]
func installLogicalFamily(t *[256]opcodeFunc, variant chip.Variant) {
	t[0xE0] = logicalOp(func(a, b uint16) uint16 { return a & b })
	t[0xE1] = logicalOp(func(a, b uint16) uint16 { return a | b })
	t[0xE2] = logicalOp(func(a, b uint16) uint16 { return a ^ b })
	t[0xE3] = logicalNot
	t[0xE4] = fixOp
	t[0xE5] = fltOp
	t[0xE6] = fixDOp
	t[0xE7] = fltDOp
	t[0xE8] = xbrOp
	t[0xE9] = xwrOp
	_ = variant // reserved for future chip-gated logical extensions.
}

func logicalOp(f func(a, b uint16) uint16) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := uint8(opcode & 0xF)
		c.Regs.IC++
		v := f(c.Regs.R[upper], c.Regs.R[lower])
		c.Regs.R[upper] = v
		updateCSWord(&c.Regs, v)
		return c.timing().ALUOp, nil
	}
}

func logicalNot(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	c.Regs.IC++
	v := ^c.Regs.R[upper]
	c.Regs.R[upper] = v
	updateCSWord(&c.Regs, v)
	return c.timing().ALUOp, nil
}

// clampToInt16 saturates a float value into the representable INT16 range
// before truncation, per design note 9's host-compiler-sensitivity fix:
// casting out-of-range doubles to a signed integer is undefined on some
// hosts, so the range is clamped first.
func clampToInt16(v float64) (int16, bool) {
	const lo, hi = -32768.0, 32767.0
	if v < lo {
		return -32768, true
	}
	if v > hi {
		return 32767, true
	}
	return int16(v), false
}

func fixOp(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	c.Regs.IC++
	words := c.regWords(upper, 2)
	v := float1750.Decode32([2]uint16{words[0], words[1]})
	n, overflowed := clampToInt16(v)
	if overflowed {
		c.Regs.PIR |= registers.PIRFixedOfl
	}
	c.Regs.R[upper] = uint16(n)
	updateCSWord(&c.Regs, uint16(n))
	return c.timing().FloatOp, nil
}

func fltOp(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	c.Regs.IC++
	n := int16(c.Regs.R[upper])
	words, status := float1750.Encode32(float64(n))
	c.setRegWords(upper, []uint16{words[0], words[1]})
	if status > 0 {
		c.Regs.PIR |= registers.PIRFloatOfl
	} else if status < 0 {
		c.Regs.PIR |= registers.PIRFloatUfl
	}
	updateCSWord(&c.Regs, words[0])
	return c.timing().FloatOp, nil
}

func fixDOp(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	c.Regs.IC++
	words := c.regWords(upper, 3)
	v := float1750.Decode48([3]uint16{words[0], words[1], words[2]})
	const lo, hi = -2147483648.0, 2147483647.0
	var n int32
	overflowed := false
	switch {
	case v < lo:
		n, overflowed = -2147483648, true
	case v > hi:
		n, overflowed = 2147483647, true
	default:
		n = int32(v)
	}
	if overflowed {
		c.Regs.PIR |= registers.PIRFixedOfl
	}
	c.setRegWords(upper, []uint16{uint16(uint32(n) >> 16), uint16(n)})
	updateCSWords32(&c.Regs, uint32(n))
	return c.timing().FloatOp, nil
}

func fltDOp(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	c.Regs.IC++
	words := c.regWords(upper, 2)
	n := (int32(int16(words[0])) << 16) | int32(uint16(words[1]))
	out, status := float1750.Encode48(float64(n))
	c.setRegWords(upper, []uint16{out[0], out[1], out[2]})
	if status > 0 {
		c.Regs.PIR |= registers.PIRFloatOfl
	} else if status < 0 {
		c.Regs.PIR |= registers.PIRFloatUfl
	}
	updateCSWord(&c.Regs, out[0])
	return c.timing().FloatOp, nil
}

func xbrOp(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	c.Regs.IC++
	v := c.Regs.R[upper]
	c.Regs.R[upper] = (v << 8) | (v >> 8)
	return c.timing().ALUOp, nil
}

func xwrOp(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	lower := uint8(opcode & 0xF)
	c.Regs.IC++
	c.Regs.R[upper], c.Regs.R[lower] = c.Regs.R[lower], c.Regs.R[upper]
	return c.timing().ALUOp, nil
}

// installExtensions is a placeholder hook for future chip-gated opcode
// groups beyond the 0x4B BIF slot; none of the remaining hi-bytes need
// variant-specific wiring today.
func installExtensions(t *[256]opcodeFunc, variant chip.Variant) {
	_ = t
	_ = variant
}
