package core

import "github.com/EtchedPixels/sim1750a/alu"

// operandKind describes the {addressing-mode, type} pairing selected by the
// low nibble of an arithmetic/compare/load/store opcode's hi byte. The same
// 16-slot scheme is reused across the Add/Sub/Mul/Div/Compare families (and,
// with a narrower width, Load/Store), the kernel-composition design note 9
// calls for: roughly 40 operation kernels crossed with a handful of
// addressing modes instead of ~200 hand-written bodies.
//
// Slots 2/3 (base-relative forms) fix the base register to R15 rather than
// decoding a 2-bit base-register select from the opcode: the generic slot
// only has the 4-bit lower nibble to spend (it already carries the
// index/displacement), unlike the dedicated 0x00-0x3F base-relative block
// which has a full low byte free for a 2-bit base select plus an 8-bit
// displacement (see baseRelative/baseRelativeIndexed and the 0x00-0x3F
// family in opcodes_baserel.go). This is recorded as an Open Question
// resolution in DESIGN.md.
type operandKind uint8

const (
	kindMemDirectInt16 operandKind = iota
	kindRegDirectInt16
	kindBaseRelInt16
	kindBaseRelIdxInt16
	kindMemDirectInt32
	kindRegDirectInt32
	kindBaseRelInt32
	kindBaseRelIdxInt32
	kindMemDirectFlt32
	kindRegDirectFlt32
	kindMemDirectFlt48
	kindRegDirectFlt48
	kindMemIndirectInt16
	kindImmediateInt16
	kindExtA // chip-gated extension slot (GVSC-style unsigned variant)
	kindExtB // chip-gated extension slot (MA31750-style variant)
)

func (k operandKind) width() int {
	switch k {
	case kindMemDirectInt32, kindRegDirectInt32, kindBaseRelInt32, kindBaseRelIdxInt32,
		kindMemDirectFlt32, kindRegDirectFlt32:
		return 2
	case kindMemDirectFlt48, kindRegDirectFlt48:
		return 3
	default:
		return 1
	}
}

func (k operandKind) aluType() alu.Type {
	switch k {
	case kindMemDirectInt32, kindRegDirectInt32, kindBaseRelInt32, kindBaseRelIdxInt32:
		return alu.Int32
	case kindMemDirectFlt32, kindRegDirectFlt32:
		return alu.Flt32
	case kindMemDirectFlt48, kindRegDirectFlt48:
		return alu.Flt48
	default:
		return alu.Int16
	}
}

// regWords gathers width words starting at register index base (R0..R15),
// wrapping the index modulo 16 so a dst/src pair that starts at R15 reads
// R15, R0 rather than running off the register file.
func (c *Core) regWords(base uint8, width int) []uint16 {
	out := make([]uint16, width)
	for i := 0; i < width; i++ {
		out[i] = c.Regs.R[(int(base)+i)%16]
	}
	return out
}

func (c *Core) setRegWords(base uint8, words []uint16) {
	for i, w := range words {
		c.Regs.R[(int(base)+i)%16] = w
	}
}

// resolveSrc reads the source operand named by kind/lower into a fresh
// width-word buffer, applying the addressing mode's own IC advance.
func (c *Core) resolveSrc(kind operandKind, lower uint8) ([]uint16, error) {
	width := kind.width()
	switch kind {
	case kindMemDirectInt16, kindMemDirectInt32, kindMemDirectFlt32, kindMemDirectFlt48:
		addr, err := c.memoryDirect(lower)
		if err != nil {
			return nil, err
		}
		return c.loadWords(addr, width)
	case kindRegDirectInt16, kindRegDirectInt32, kindRegDirectFlt32, kindRegDirectFlt48:
		c.Regs.IC++
		return c.regWords(lower, width), nil
	case kindBaseRelInt16, kindBaseRelInt32:
		addr := c.baseRelative(3, lower)
		return c.loadWords(addr, width)
	case kindBaseRelIdxInt16, kindBaseRelIdxInt32:
		addr := c.baseRelativeIndexed(3, lower)
		return c.loadWords(addr, width)
	case kindMemIndirectInt16:
		addr, err := c.memoryIndirect(lower)
		if err != nil {
			return nil, err
		}
		return c.loadWords(addr, width)
	case kindImmediateInt16:
		v, err := c.immediateLong()
		if err != nil {
			return nil, err
		}
		return []uint16{v}, nil
	default:
		c.Regs.IC++
		return c.regWords(lower, width), nil
	}
}

func (c *Core) loadWords(addr uint16, width int) ([]uint16, error) {
	out := make([]uint16, width)
	for i := 0; i < width; i++ {
		w, err := c.loadData(addr + uint16(i))
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func (c *Core) storeWords(addr uint16, words []uint16) error {
	for i, w := range words {
		if err := c.storeData(addr+uint16(i), w); err != nil {
			return err
		}
	}
	return nil
}
