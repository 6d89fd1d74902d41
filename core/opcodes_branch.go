package core

import "github.com/EtchedPixels/sim1750a/registers"

// installBranchFamily wires 0x70-0x7F: IC-relative conditional branches,
// BEX (executive call), and the privileged LST/LSTI status-load
// instructions, per §4.6.
//
//	0x70 BR   branch always
//	0x71 BEZ  branch if zero
//	0x72 BNZ  branch if not zero
//	0x73 BPZ  branch if positive
//	0x74 BNG  branch if negative
//	0x75 BC   branch if carry
//	0x76 BNC  branch if not carry
//	0x77 BGE  branch if positive or zero
//	0x78 LST  load status word from register (privileged)
//	0x79 LSTI load status word from immediate (privileged)
//	0x7F BEX  executive call (16 service entries by low nibble)
func installBranchFamily(t *[256]opcodeFunc) {
	t[0x70] = conditionalBranch(func(uint16) bool { return true })
	t[0x71] = conditionalBranch(func(sw uint16) bool { return sw&registers.CSZero != 0 })
	t[0x72] = conditionalBranch(func(sw uint16) bool { return sw&registers.CSZero == 0 })
	t[0x73] = conditionalBranch(func(sw uint16) bool { return sw&registers.CSPositive != 0 })
	t[0x74] = conditionalBranch(func(sw uint16) bool { return sw&registers.CSNegative != 0 })
	t[0x75] = conditionalBranch(func(sw uint16) bool { return sw&registers.CSCarry != 0 })
	t[0x76] = conditionalBranch(func(sw uint16) bool { return sw&registers.CSCarry == 0 })
	t[0x77] = conditionalBranch(func(sw uint16) bool { return sw&(registers.CSPositive|registers.CSZero) != 0 })
	t[0x78] = lstHandler
	t[0x79] = lstiHandler
	t[0x7F] = bexHandler
}

func conditionalBranch(test func(sw uint16) bool) opcodeFunc {
	return func(c *Core, opcode uint16) (uint16, error) {
		disp := uint8(opcode & 0xFF)
		icAfter := c.Regs.IC + 1
		if test(c.Regs.SW) {
			c.Regs.IC = icRelative(icAfter, disp)
		} else {
			c.Regs.IC = icAfter
		}
		return c.timing().BranchOp, nil
	}
}

// bexHandler implements the Built-in-Function executive call. The low
// nibble selects one of 16 service entries; it is latched on the core so
// the interrupt dispatcher can read the IC for this specific entry from
// SVP+2+bex_index instead of the fixed per-level slot (§4.5,
// SPEC_FULL supplemented feature 3).
func bexHandler(c *Core, opcode uint16) (uint16, error) {
	c.Regs.IC++
	c.bex.Pending = true
	c.bex.Index = uint8(opcode & 0xF)
	c.Regs.PIR |= registers.PIRBex
	return c.timing().BranchOp, nil
}
