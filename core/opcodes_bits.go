package core

import "github.com/EtchedPixels/sim1750a/registers"

// installBitFamily wires 0x50-0x5F: bit-test/set/clear operations on
// R[lower], bit index (15 - upper) in MSB-first numbering (§4.6). The low
// nibble of the hi-byte selects the bit operation; upper/lower come from the
// low byte as usual.
//
//	0x50: TB  test bit
//	0x51: SB  set bit
//	0x52: CB  clear bit
//	0x53: XB  complement bit
func installBitFamily(t *[256]opcodeFunc) {
	t[0x50] = bitOp(bitTest)
	t[0x51] = bitOp(bitSet)
	t[0x52] = bitOp(bitClear)
	t[0x53] = bitOp(bitComplement)
}

type bitKind int

const (
	bitTest bitKind = iota
	bitSet
	bitClear
	bitComplement
)

func bitOp(kind bitKind) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF) // bit index selector, 0..15.
		lower := uint8(opcode & 0xF)        // target register.
		c.Regs.IC++

		bitNum := 15 - upper
		mask := uint16(1) << bitNum
		was := c.Regs.R[lower]&mask != 0

		switch kind {
		case bitSet:
			c.Regs.R[lower] |= mask
		case bitClear:
			c.Regs.R[lower] &^= mask
		case bitComplement:
			c.Regs.R[lower] ^= mask
		}

		// TB-family condition status: Z if the bit was clear, P if set,
		// with the stated exception that bit 0 (MSB, upper==0) reports N
		// instead of P when set (§4.6).
		switch {
		case !was:
			c.Regs.SetCS(registers.CSZero)
		case bitNum == 15:
			c.Regs.SetCS(registers.CSNegative)
		default:
			c.Regs.SetCS(registers.CSPositive)
		}
		return c.timing().ALUOp, nil
	}
}
