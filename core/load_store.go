package core

// makeLoadFamily builds the 0x80-0x8F hi-byte block: dst = R[upper]..,
// loaded from the location named by the low nibble's operandKind. Loads
// never touch condition status (§9's update_cs contract is reserved for
// arithmetic/float operations).
func makeLoadFamily() [16]opcodeFunc {
	var fns [16]opcodeFunc
	for i := 0; i < 16; i++ {
		kind := operandKind(i)
		fns[i] = loadHandler(kind)
	}
	return fns
}

func loadHandler(kind operandKind) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := uint8(opcode & 0xF)
		if kind == kindExtA || kind == kindExtB {
			c.faultIllegalInstr()
			return 0, errMemProtect
		}
		words, err := c.resolveSrc(kind, lower)
		if err != nil {
			return 0, err
		}
		c.setRegWords(upper, words)
		return c.timing().MemOp, nil
	}
}

// makeStoreFamily builds the 0x90-0x9F hi-byte block. Slot 0x93 is
// overridden by the caller with the dedicated Block MOV handler (spec
// §4.6); every other slot stores R[upper].. to the location named by the
// low nibble.
func makeStoreFamily() [16]opcodeFunc {
	var fns [16]opcodeFunc
	for i := 0; i < 16; i++ {
		kind := operandKind(i)
		fns[i] = storeHandler(kind)
	}
	return fns
}

func storeHandler(kind operandKind) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		upper := uint8((opcode >> 4) & 0xF)
		lower := uint8(opcode & 0xF)
		width := kind.width()
		src := c.regWords(upper, width)

		switch kind {
		case kindMemDirectInt16, kindMemDirectInt32, kindMemDirectFlt32, kindMemDirectFlt48:
			addr, err := c.memoryDirect(lower)
			if err != nil {
				return 0, err
			}
			if err := c.storeWords(addr, src); err != nil {
				return 0, err
			}
		case kindRegDirectInt16, kindRegDirectInt32, kindRegDirectFlt32, kindRegDirectFlt48:
			c.Regs.IC++
			c.setRegWords(lower, src)
		case kindBaseRelInt16, kindBaseRelInt32:
			addr := c.baseRelative(3, lower)
			if err := c.storeWords(addr, src); err != nil {
				return 0, err
			}
		case kindBaseRelIdxInt16, kindBaseRelIdxInt32:
			addr := c.baseRelativeIndexed(3, lower)
			if err := c.storeWords(addr, src); err != nil {
				return 0, err
			}
		case kindMemIndirectInt16:
			addr, err := c.memoryIndirect(lower)
			if err != nil {
				return 0, err
			}
			if err := c.storeWords(addr, src); err != nil {
				return 0, err
			}
		default:
			c.faultIllegalInstr()
			return 0, errMemProtect
		}
		return c.timing().MemOp, nil
	}
}

// movBlock implements the interruptible Block MOV (opcode 0x93): R[lower]
// is the source pointer, R[upper] the destination pointer, R[upper+1] the
// unsigned count. After every word moved all three registers are updated
// and movBlock itself runs advance/workout_interrupts
// (postInstructionHousekeeping), making the
// instruction restartable by simply re-executing it (§4.6, invariant 5,
// scenario F).
func movBlock(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	lower := uint8(opcode & 0xF)
	c.Regs.IC++

	srcReg := lower
	dstReg := upper
	cntReg := (upper + 1) % 16

	for c.Regs.R[cntReg] != 0 {
		word, err := c.loadData(c.Regs.R[srcReg])
		if err != nil {
			return 0, err
		}
		if err := c.storeData(c.Regs.R[dstReg], word); err != nil {
			return 0, err
		}
		c.Regs.R[srcReg]++
		c.Regs.R[dstReg]++
		c.Regs.R[cntReg]--

		if c.Regs.R[cntReg] == 0 {
			break
		}
		cycles := c.timing().MemOp
		c.postInstructionHousekeeping(cycles)
		if c.hooks().Cancelled() {
			return 0, errCancelled
		}
	}
	return c.timing().MemOp, nil
}

// installLoadStoreFamily wires 0x80-0x8F to the load family and 0x90-0x9F
// to the store family, with 0x93 overridden to the dedicated Block MOV
// handler (spec §4.6).
func installLoadStoreFamily(t *[256]opcodeFunc) {
	load := makeLoadFamily()
	store := makeStoreFamily()
	for i := 0; i < 16; i++ {
		t[0x80+i] = load[i]
		t[0x90+i] = store[i]
	}
	t[0x93] = movBlock
}
