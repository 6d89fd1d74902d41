package core

import "github.com/EtchedPixels/sim1750a/registers"

// XIO address assignments, adopted verbatim from the reference xiodef.h
// table named in SPEC_FULL's supplemented-features section. Unknown
// addresses fall through to the injected Hooks.UserXIO.
const (
	xioSMK  = 0x2000 // Set Mask (write MK).
	xioCLIR = 0x2001 // Clear PIR (write 1 bits to clear).
	xioENBL = 0x2002 // Master interrupt enable.
	xioDSBL = 0x2003 // Master interrupt disable.
	xioRPI  = 0x2004 // Read PIR.
	xioWSW  = 0x200E // Write SW.

	xioCO   = 0x4000 // Console output: emit low byte to host stdout.
	xioDMAE = 0x4006 // Enable DMA.
	xioDMAD = 0x4007 // Disable DMA.
	xioTAS  = 0x4008 // Timer A arm (enable).
	xioTAH  = 0x4009 // Timer A halt (disable).
	xioOTA  = 0x400A // Output (write) Timer A.
	xioGOC  = 0x400B // Clear GO watchdog.
	xioTBS  = 0x400C
	xioTBH  = 0x400D
	xioOTB  = 0x400E

	xioRMK  = 0xA000 // Read Mask.
	xioRSW  = 0xA00E // Read SW.
	xioRCFR = 0xA00F // Read config/fault register; also clears MachError.

	xioITA = 0xC00A // Input (read) Timer A.
	xioITB = 0xC00E
)

// Page-register XIO ranges: 0x51xx writes the instruction-bank PPA,
// 0x52xx the data-bank PPA; 0xD1xx/0xD2xx read them back. The low byte
// encodes (AS in bits 7-4, hi-nibble/logical-page in bits 3-0).
const (
	xioWritePPACode = 0x5100
	xioWritePPAData = 0x5200
	xioReadPPACode  = 0xD100
	xioReadPPAData  = 0xD200
)

func xioHandler(c *Core, opcode uint16) (uint16, error) {
	c.Regs.IC++
	if c.Regs.AK() != 0 {
		c.faultPrivInstr()
		return 0, errMemProtect
	}
	addr, err := c.fetchCode(c.Regs.IC)
	if err != nil {
		return 0, err
	}
	c.Regs.IC++
	reg := uint8((opcode >> 4) & 0xF)
	value := c.Regs.R[reg]
	if err := c.doXIO(addr, &value); err != nil {
		return 0, err
	}
	c.Regs.R[reg] = value
	return c.timing().MemOp, nil
}

func lstHandler(c *Core, opcode uint16) (uint16, error) {
	c.Regs.IC++
	if c.Regs.AK() != 0 {
		c.faultPrivInstr()
		return 0, errMemProtect
	}
	reg := uint8(opcode & 0xF)
	c.Regs.SW = c.Regs.R[reg]
	return c.timing().ALUOp, nil
}

func lstiHandler(c *Core, opcode uint16) (uint16, error) {
	v, err := c.immediateLong()
	if err != nil {
		return 0, err
	}
	if c.Regs.AK() != 0 {
		c.faultPrivInstr()
		return 0, errMemProtect
	}
	c.Regs.SW = v
	return c.timing().ALUOp, nil
}

// vioHandler implements Vector IO: the code word following the opcode is a
// 16-bit vector-select mask. For each set bit n (15 downto 0), one XIO is
// performed on base_cmd + n*R[upper], transferring the i-th data word at
// base_addr+2+i. XIO reads (bit 15 of the command set) write the result
// back to that data word.
func vioHandler(c *Core, opcode uint16) (uint16, error) {
	upper := uint8((opcode >> 4) & 0xF)
	if c.Regs.AK() != 0 {
		c.faultPrivInstr()
		return 0, errMemProtect
	}
	mask, err := c.fetchCode(c.Regs.IC + 1)
	if err != nil {
		return 0, err
	}
	baseCmd, err := c.fetchCode(c.Regs.IC + 2)
	if err != nil {
		return 0, err
	}
	baseAddr := c.Regs.IC + 3
	c.Regs.IC += 3

	i := uint16(0)
	for n := 15; n >= 0; n-- {
		if mask&(1<<uint(n)) == 0 {
			continue
		}
		cmd := baseCmd + uint16(n)*c.Regs.R[upper]
		dataAddr := baseAddr + i
		value, err := c.loadData(dataAddr)
		if err != nil {
			return 0, err
		}
		if err := c.doXIO(cmd, &value); err != nil {
			return 0, err
		}
		if cmd&0x8000 != 0 {
			if err := c.storeData(dataAddr, value); err != nil {
				return 0, err
			}
		}
		i++
	}
	return c.timing().MemOp, nil
}

// doXIO dispatches one XIO command, falling through to the injected user
// hook for addresses the built-in table does not recognize.
func (c *Core) doXIO(addr uint16, value *uint16) error {
	switch addr {
	case xioSMK:
		c.Regs.MK = *value
	case xioRMK:
		*value = c.Regs.MK
	case xioENBL:
		c.Regs.SYS |= registers.SysInt
	case xioDSBL:
		c.Regs.SYS &^= registers.SysInt
	case xioRPI:
		*value = c.Regs.PIR
	case xioCLIR:
		c.Regs.PIR &^= *value
	case xioWSW:
		c.Regs.SW = *value
	case xioRSW:
		*value = c.Regs.SW
	case xioRCFR:
		*value = c.Regs.FT
		c.Regs.PIR &^= registers.PIRMachError
	case xioCO:
		c.hooks().ConsoleOutput(byte(*value))
	case xioDMAE:
		c.Regs.SYS |= registers.SysDMA
	case xioDMAD:
		c.Regs.SYS &^= registers.SysDMA
	case xioTAS:
		c.Regs.SYS |= registers.SysTA
	case xioTAH:
		c.Regs.SYS &^= registers.SysTA
	case xioOTA:
		c.Regs.TA = *value
	case xioITA:
		*value = c.Regs.TA
	case xioTBS:
		c.Regs.SYS |= registers.SysTB
	case xioTBH:
		c.Regs.SYS &^= registers.SysTB
	case xioOTB:
		c.Regs.TB = *value
	case xioITB:
		*value = c.Regs.TB
	case xioGOC:
		c.Regs.GO = 0
	default:
		if addr&0xFF00 == xioWritePPACode || addr&0xFF00 == xioWritePPAData ||
			addr&0xFF00 == xioReadPPACode || addr&0xFF00 == xioReadPPAData {
			return c.pageRegXIO(addr, value)
		}
		return c.hooks().UserXIO(addr, value)
	}
	return nil
}

func (c *Core) pageRegXIO(addr uint16, value *uint16) error {
	as := uint8((addr >> 4) & 0xF)
	page := uint8(addr & 0xF)
	switch addr & 0xFF00 {
	case xioWritePPACode:
		c.MMU.Set(bankFromPPAValue(0), as, page, pageRegFromWord(*value))
	case xioWritePPAData:
		c.MMU.Set(bankFromPPAValue(1), as, page, pageRegFromWord(*value))
	case xioReadPPACode:
		*value = wordFromPageReg(c.MMU.Get(bankFromPPAValue(0), as, page))
	case xioReadPPAData:
		*value = wordFromPageReg(c.MMU.Get(bankFromPPAValue(1), as, page))
	}
	return nil
}
