package core

// Addressing-mode helpers. Each assumes c.Regs.IC still points at the
// opcode word that was just fetched (not yet advanced) and leaves IC
// pointing at the first word of the next instruction on success. None of
// them touch condition status; that's the operation kernel's job.

// memoryDirect reads the instruction word following the opcode as a 16-bit
// logical address, optionally indexed by R[indexReg] (index 0 means no
// indexing), and advances IC by 2 words.
func (c *Core) memoryDirect(indexReg uint8) (uint16, error) {
	disp, err := c.fetchCode(c.Regs.IC + 1)
	if err != nil {
		return 0, err
	}
	c.Regs.IC += 2
	addr := disp
	if indexReg != 0 {
		addr += c.Regs.R[indexReg]
	}
	return addr, nil
}

// memoryIndirect is memoryDirect followed by one further indirection
// through data memory.
func (c *Core) memoryIndirect(indexReg uint8) (uint16, error) {
	addr, err := c.memoryDirect(indexReg)
	if err != nil {
		return 0, err
	}
	return c.loadData(addr)
}

// baseRelative reads an 8-bit unsigned displacement from the low byte of
// the opcode and adds it to one of R12..R15 selected by baseSel (0..3);
// IC advances by 1 word only, since the whole instruction fits in one word.
func (c *Core) baseRelative(baseSel uint8, disp8 uint8) uint16 {
	c.Regs.IC++
	return c.Regs.R[12+(baseSel&0x3)] + uint16(disp8)
}

// baseRelativeIndexed adds R[indexReg] to one of R12..R15; IC advances by 1.
func (c *Core) baseRelativeIndexed(baseSel, indexReg uint8) uint16 {
	c.Regs.IC++
	return c.Regs.R[12+(baseSel&0x3)] + c.Regs.R[indexReg]
}

// immediateLong reads the instruction word following the opcode as a literal
// 16-bit value (not an address) and advances IC by 2.
func (c *Core) immediateLong() (uint16, error) {
	v, err := c.fetchCode(c.Regs.IC + 1)
	if err != nil {
		return 0, err
	}
	c.Regs.IC += 2
	return v, nil
}

// icRelative reads an 8-bit two's-complement displacement from the opcode's
// low byte and returns the branch target relative to the instruction
// following this one; IC itself is advanced by the caller only if the
// branch is taken (condition evaluation happens in the branch kernel).
func icRelative(icAfter uint16, disp8 uint8) uint16 {
	return icAfter + uint16(int16(int8(disp8)))
}
