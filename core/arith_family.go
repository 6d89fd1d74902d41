package core

import (
	"github.com/EtchedPixels/sim1750a/alu"
	"github.com/EtchedPixels/sim1750a/chip"
	"github.com/EtchedPixels/sim1750a/registers"
)

// Primary/extension op pairs for each arithmetic family. Add/Sub have no
// alternate form, so their "extension" slots (kindExtA/kindExtB) simply
// require the chip to support the GVSC opcode group before executing the
// same op; Mul/Div reuse the slots for their genuinely different
// single-wide-signed (MulS) and single/single divide (DivV) forms.
const (
	opAdd, opAddExt = alu.Add, alu.Add
	opSub, opSubExt = alu.Sub, alu.Sub
	opMul, opMulExt = alu.Mul, alu.MulS
	opDiv, opDivExt = alu.Div, alu.DivV
)

// makeArithFamily builds the 16-slot handler set for one arithmetic op
// (Add/Sub/Mul/MulS/Div/DivV), shared by the 0xA0-0xAF (Add), 0xB0-0xBF
// (Sub), 0xC0-0xCF (Mul/MulS), and 0xD0-0xDF (Div/DivV) hi-byte blocks. opExt
// is used for the MulS/DivV slots that some chips expose in the high half of
// the 16-slot scheme (kindExtA/kindExtB); baseline chips treat those slots
// as illegal.
func makeArithFamily(op, opExt alu.Op) [16]opcodeFunc {
	var fns [16]opcodeFunc
	for i := 0; i < 16; i++ {
		kind := operandKind(i)
		fns[i] = arithHandler(op, opExt, kind)
	}
	return fns
}

func arithHandler(op, opExt alu.Op, kind operandKind) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := uint8(opcode & 0xF)

		if kind == kindExtA || kind == kindExtB {
			if !chip.Supports(c.Variant, chip.ExtGVSCOps) {
				c.faultIllegalInstr()
				return 0, errMemProtect
			}
		}

		useOp := op
		if kind == kindExtA || kind == kindExtB {
			useOp = opExt
		}

		width := kind.width()
		// INT16 Mul/Div/DivV write a register pair: the double-wide product,
		// or the quotient in R[upper] and the remainder in R[upper+1].
		if kind.aluType() == alu.Int16 && (useOp == alu.Mul || useOp == alu.Div || useOp == alu.DivV) {
			width = 2
		}
		dst := c.regWords(upper, width)
		src, err := c.resolveSrc(kind, lower)
		if err != nil {
			return 0, err
		}

		alu.Arith(&c.Regs, useOp, kind.aluType(), dst, src)
		c.setRegWords(upper, dst)
		return c.timing().ALUOp, nil
	}
}

// makeCompareFamily builds the 0xF0-0xFF compare-family handlers: same
// operand resolution as arithmetic, but delegates to alu.Compare and never
// writes the destination back (compare only updates condition status).
func makeCompareFamily() [16]opcodeFunc {
	var fns [16]opcodeFunc
	for i := 0; i < 16; i++ {
		kind := operandKind(i)
		fns[i] = compareHandler(kind)
	}
	return fns
}

func compareHandler(kind operandKind) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := uint8(opcode & 0xF)
		if kind == kindExtA || kind == kindExtB {
			c.faultIllegalInstr()
			return 0, errMemProtect
		}
		a := c.regWords(upper, kind.width())
		b, err := c.resolveSrc(kind, lower)
		if err != nil {
			return 0, err
		}
		alu.Compare(&c.Regs, kind.aluType(), a, b)
		return c.timing().ALUOp, nil
	}
}

func (c *Core) timing() chip.Timing {
	return chip.TimingFor(c.Variant)
}

// clearCS is a convenience wrapper used by non-arithmetic handlers that
// still must post exactly one of {P,Z,N}.
func clearCS(rf *registers.File, words []uint16) {
	alu.UpdateCS(rf, words)
}
