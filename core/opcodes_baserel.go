package core

// installBaseRelFamily wires the 0x00-0x3F block: dedicated base-relative
// byte/word load and store opcodes, the only family where the full low byte
// is free to carry a genuine 2-bit base-register select plus an 8-bit
// displacement exactly as §4.6 describes the Base-Relative addressing mode.
// To make room for that inside a single 16-bit instruction, these opcodes
// restrict the operand register to R0-R3 (the low two bits of the opcode
// hi-byte), a real constraint of the compact base-relative encodings (see
// DESIGN.md's resolution of this Open Question).
//
//	0x00-0x0F: LB  (load byte, base-relative)
//	0x10-0x1F: STB (store byte, base-relative)
//	0x20-0x2F: L   (load word, base-relative)
//	0x30-0x3F: ST  (store word, base-relative)
func installBaseRelFamily(t *[256]opcodeFunc) {
	for hi := 0; hi < 0x40; hi++ {
		group := hi >> 4  // 0=LB 1=STB 2=L 3=ST
		reg := uint8(hi & 0x3)
		baseSel := uint8((hi >> 2) & 0x3)
		switch group {
		case 0:
			t[hi] = baseRelLoadByte(reg, baseSel)
		case 1:
			t[hi] = baseRelStoreByte(reg, baseSel)
		case 2:
			t[hi] = baseRelLoad(reg, baseSel)
		case 3:
			t[hi] = baseRelStore(reg, baseSel)
		}
	}
}

func baseRelLoad(reg, baseSel uint8) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		disp := uint8(opcode & 0xFF)
		addr := c.baseRelative(baseSel, disp)
		w, err := c.loadData(addr)
		if err != nil {
			return 0, err
		}
		c.Regs.R[reg] = w
		return c.timing().MemOp, nil
	}
}

func baseRelStore(reg, baseSel uint8) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		disp := uint8(opcode & 0xFF)
		addr := c.baseRelative(baseSel, disp)
		if err := c.storeData(addr, c.Regs.R[reg]); err != nil {
			return 0, err
		}
		return c.timing().MemOp, nil
	}
}

// baseRelLoadByte loads one byte (high byte of the register zero-filled),
// treating the base-relative address as a byte address, a conventional
// 1750A byte-within-word addressing trick: bit 0 of the computed address
// selects the high (0) or low (1) byte of the word at addr>>1.
func baseRelLoadByte(reg, baseSel uint8) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		disp := uint8(opcode & 0xFF)
		byteAddr := c.baseRelative(baseSel, disp)
		w, err := c.loadData(byteAddr >> 1)
		if err != nil {
			return 0, err
		}
		if byteAddr&1 == 0 {
			c.Regs.R[reg] = w >> 8
		} else {
			c.Regs.R[reg] = w & 0xFF
		}
		return c.timing().MemOp, nil
	}
}

func baseRelStoreByte(reg, baseSel uint8) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		disp := uint8(opcode & 0xFF)
		byteAddr := c.baseRelative(baseSel, disp)
		w, err := c.loadData(byteAddr >> 1)
		if err != nil {
			return 0, err
		}
		b := c.Regs.R[reg] & 0xFF
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
}
