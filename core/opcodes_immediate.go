package core

import "github.com/EtchedPixels/sim1750a/alu"

// makeImmediateFamily builds the single handler installed at hi-byte 0x4A:
// the instruction word following the opcode is a 16-bit immediate; the low
// nibble of the opcode's low byte selects which of 16 immediate operations
// to perform against R[upper], the upper nibble.
func makeImmediateFamily() opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := opcode & 0xF
		imm, err := c.immediateLong()
		if err != nil {
			return 0, err
		}
		dst := []uint16{c.Regs.R[upper]}
		src := []uint16{imm}
		switch lower {
		case 0x0: // LIM: load immediate.
			c.Regs.R[upper] = imm
		case 0x1: // AIM: add immediate.
			alu.Arith(&c.Regs, alu.Add, alu.Int16, dst, src)
			c.Regs.R[upper] = dst[0]
		case 0x2: // SIM: subtract immediate.
			alu.Arith(&c.Regs, alu.Sub, alu.Int16, dst, src)
			c.Regs.R[upper] = dst[0]
		case 0x3: // CIM: compare immediate.
			alu.Compare(&c.Regs, alu.Int16, dst, src)
		case 0x4: // ANDM: bitwise AND immediate.
			c.Regs.R[upper] &= imm
			alu.UpdateCS(&c.Regs, []uint16{c.Regs.R[upper]})
		case 0x5: // ORM: bitwise OR immediate.
			c.Regs.R[upper] |= imm
			alu.UpdateCS(&c.Regs, []uint16{c.Regs.R[upper]})
		case 0x6: // XORM: bitwise XOR immediate.
			c.Regs.R[upper] ^= imm
			alu.UpdateCS(&c.Regs, []uint16{c.Regs.R[upper]})
		case 0x7: // MIM: multiply immediate (single-wide, low half kept).
			alu.Arith(&c.Regs, alu.MulS, alu.Int16, dst, src)
			c.Regs.R[upper] = dst[0]
		default:
			c.faultIllegalInstr()
			return 0, errMemProtect
		}
		return c.timing().ALUOp, nil
	}
}
