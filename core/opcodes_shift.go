package core

import "github.com/EtchedPixels/sim1750a/registers"

// installShiftFamily wires 0x60-0x6F: fixed-count shifts (count = upper+1,
// 1..16) in 0x60-0x63, and variable-count shifts reading the count from a
// register in 0x64-0x69, per §4.6.
//
//	0x60 SLL  shift left logical, fixed count
//	0x61 SRL  shift right logical, fixed count
//	0x62 SRA  shift right arithmetic, fixed count
//	0x63 SLC  shift left circular, fixed count
//	0x64 SLR  shift left/right logical, variable count (single word)
//	0x65 SAR  shift left/right arithmetic, variable count (single word)
//	0x66 SCR  shift circular, variable count (single word)
//	0x67 DSLR variable logical shift, double word
//	0x68 DSAR variable arithmetic shift, double word
//	0x69 DSCR variable circular shift, double word
func installShiftFamily(t *[256]opcodeFunc) {
	t[0x60] = fixedShift(shiftLeftLogical)
	t[0x61] = fixedShift(shiftRightLogical)
	t[0x62] = fixedShift(shiftRightArith)
	t[0x63] = fixedShift(shiftLeftCircular)
	t[0x64] = variableShift(shiftLogicalKind, false)
	t[0x65] = variableShift(shiftArithKind, false)
	t[0x66] = variableShift(shiftCircularKind, false)
	t[0x67] = variableShift(shiftLogicalKind, true)
	t[0x68] = variableShift(shiftArithKind, true)
	t[0x69] = variableShift(shiftCircularKind, true)
}

type shiftOp int

const (
	shiftLeftLogical shiftOp = iota
	shiftRightLogical
	shiftRightArith
	shiftLeftCircular
)

func fixedShift(op shiftOp) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := uint8(opcode & 0xF)
		c.Regs.IC++
		count := uint(upper) + 1
		v := c.Regs.R[lower]
		switch op {
		case shiftLeftLogical:
			v = shiftLeft(v, count)
		case shiftRightLogical:
			v = v >> minShift(count, 16)
		case shiftRightArith:
			v = uint16(int16(v) >> minShift(count, 15))
		case shiftLeftCircular:
			v = rotateLeft16(v, count)
		}
		c.Regs.R[lower] = v
		updateCSWord(&c.Regs, v)
		return c.timing().ALUOp, nil
	}
}

type shiftKind int

const (
	shiftLogicalKind shiftKind = iota
	shiftArithKind
	shiftCircularKind
)

// variableShift reads the shift count from R[lower] as a signed value:
// negative means shift right, positive means shift left. A magnitude
// exceeding the operand width raises PIR.FIXOFL (open question in §9:
// result left undefined beyond raising the fault; this implementation
// clamps to a full-width shift after flagging it).
func variableShift(kind shiftKind, wide bool) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := uint8(opcode & 0xF)
		c.Regs.IC++

		width := 16
		if wide {
			width = 32
		}
		n := int16(c.Regs.R[lower])
		count := uint(n)
		left := n >= 0
		if !left {
			count = uint(-n)
		}
		if int(count) > width {
			c.Regs.PIR |= registers.PIRFixedOfl
			count = uint(width)
		}

		if !wide {
			v := c.Regs.R[upper]
			v = shiftSingle(kind, v, count, left)
			c.Regs.R[upper] = v
			updateCSWord(&c.Regs, v)
			return c.timing().ALUOp, nil
		}

		hi, lo := c.Regs.R[upper], c.Regs.R[(upper+1)%16]
		v := (uint32(hi) << 16) | uint32(lo)
		v = shiftDouble(kind, v, count, left)
		c.Regs.R[upper] = uint16(v >> 16)
		c.Regs.R[(upper+1)%16] = uint16(v)
		updateCSWords32(&c.Regs, v)
		return c.timing().ALUOp, nil
	}
}

func shiftSingle(kind shiftKind, v uint16, count uint, left bool) uint16 {
	switch kind {
	case shiftLogicalKind:
		if left {
			return shiftLeft(v, count)
		}
		return v >> minShift(count, 16)
	case shiftArithKind:
		if left {
			return shiftLeft(v, count)
		}
		return uint16(int16(v) >> minShift(count, 15))
	default: // circular
		if left {
			return rotateLeft16(v, count)
		}
		return rotateLeft16(v, 16-(count%16))
	}
}

func shiftDouble(kind shiftKind, v uint32, count uint, left bool) uint32 {
	switch kind {
	case shiftLogicalKind:
		if left {
			return shiftLeft32(v, count)
		}
		return v >> minShift(count, 32)
	case shiftArithKind:
		if left {
			return shiftLeft32(v, count)
		}
		return uint32(int32(v) >> minShift(count, 31))
	default:
		if left {
			return rotateLeft32(v, count)
		}
		return rotateLeft32(v, 32-(count%32))
	}
}

func shiftLeft(v uint16, count uint) uint16 {
	if count >= 16 {
		return 0
	}
	return v << count
}

func shiftLeft32(v uint32, count uint) uint32 {
	if count >= 32 {
		return 0
	}
	return v << count
}

func minShift(count uint, cap uint) uint {
	if count > cap {
		return cap
	}
	return count
}

func rotateLeft16(v uint16, count uint) uint16 {
	count %= 16
	return (v << count) | (v >> (16 - count))
}

func rotateLeft32(v uint32, count uint) uint32 {
	count %= 32
	if count == 0 {
		return v
	}
	return (v << count) | (v >> (32 - count))
}

func updateCSWord(rf *registers.File, v uint16) {
	switch {
	case v == 0:
		rf.SetCS(registers.CSZero)
	case v&0x8000 != 0:
		rf.SetCS(registers.CSNegative)
	default:
		rf.SetCS(registers.CSPositive)
	}
}

func updateCSWords32(rf *registers.File, v uint32) {
	switch {
	case v == 0:
		rf.SetCS(registers.CSZero)
	case v&0x80000000 != 0:
		rf.SetCS(registers.CSNegative)
	default:
		rf.SetCS(registers.CSPositive)
	}
}
