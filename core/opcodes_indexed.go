package core

import (
	"github.com/EtchedPixels/sim1750a/chip"
)

// installIndexedFamily wires the 0x40-0x4F block: base-register-indexed
// load/store (0x40-0x43, each further dispatching 16 sub-ops on the upper
// nibble — here, which of R0-R15 supplies the base address), XIO (0x44),
// VIO (0x45), the immediate-long family (0x4A, 16 sub-ops on the lower
// nibble), and the chip-gated Built-In-Function extensions (0x4B).
func installIndexedFamily(t *[256]opcodeFunc, variant chip.Variant) {
	t[0x40] = indexedLoadWord
	t[0x41] = indexedStoreWord
	t[0x42] = indexedLoadByte
	t[0x43] = indexedStoreByte

	t[0x44] = xioHandler
	t[0x45] = vioHandler

	imm := makeImmediateFamily()
	t[0x4A] = imm

	t[0x4B] = bifHandler(variant)
}

// indexedLoadWord: upper nibble selects the base register (full R0-R15,
// generalizing the restricted R12-R15 base-relative block), lower nibble
// selects the destination register. Address = R[base]; IC advances by 1.
func indexedLoadWord(c *Core, opcode uint16) (uint16, error) {
	base := uint8((opcode >> 4) & 0xF)
	dst := uint8(opcode & 0xF)
	c.Regs.IC++
	w, err := c.loadData(c.Regs.R[base])
	if err != nil {
		return 0, err
	}
	c.Regs.R[dst] = w
	return c.timing().MemOp, nil
}

func indexedStoreWord(c *Core, opcode uint16) (uint16, error) {
	base := uint8((opcode >> 4) & 0xF)
	src := uint8(opcode & 0xF)
	c.Regs.IC++
	if err := c.storeData(c.Regs.R[base], c.Regs.R[src]); err != nil {
		return 0, err
	}
	return c.timing().MemOp, nil
}

func indexedLoadByte(c *Core, opcode uint16) (uint16, error) {
	base := uint8((opcode >> 4) & 0xF)
	dst := uint8(opcode & 0xF)
	c.Regs.IC++
	byteAddr := c.Regs.R[base]
	w, err := c.loadData(byteAddr >> 1)
	if err != nil {
		return 0, err
	}
	if byteAddr&1 == 0 {
		c.Regs.R[dst] = w >> 8
	} else {
		c.Regs.R[dst] = w & 0xFF
	}
	return c.timing().MemOp, nil
}

func indexedStoreByte(c *Core, opcode uint16) (uint16, error) {
	base := uint8((opcode >> 4) & 0xF)
	src := uint8(opcode & 0xF)
	c.Regs.IC++
	byteAddr := c.Regs.R[base]
	w, err := c.loadData(byteAddr >> 1)
	if err != nil {
		return 0, err
	}
	b := c.Regs.R[src] & 0xFF
	if byteAddr&1 == 0 {
		w = (w & 0x00FF) | (b << 8)
	} else {
		w = (w & 0xFF00) | b
	}
	if err := c.storeData(byteAddr>>1, w); err != nil {
		return 0, err
	}
	return c.timing().MemOp, nil
}
