package core

import (
	"errors"

	"github.com/EtchedPixels/sim1750a/mmu"
)

// errBreakpoint is returned internally by the memory helpers when the
// breakpoint hook fires; ExecuteOne translates it into StatusBreakpoint
// without touching PIR/FT, since a breakpoint is a simulator-control event,
// not an architectural fault (§7).
var errBreakpoint = errors.New("core: breakpoint hit")

// fetchCode reads one word through the instruction bank at the current
// AS/AK, translating, breakpoint-checking, and faulting exactly as the MMU
// component contract requires.
func (c *Core) fetchCode(logical uint16) (uint16, error) {
	return c.access(mmu.Code, logical, BreakRead, false)
}

// loadData reads one word through the data bank at the current AS/AK.
func (c *Core) loadData(logical uint16) (uint16, error) {
	return c.access(mmu.Data, logical, BreakRead, false)
}

// storeData writes one word through the data bank at the current AS/AK.
func (c *Core) storeData(logical uint16, value uint16) error {
	_, err := c.accessStore(mmu.Data, logical, value)
	return err
}

func (c *Core) access(bank mmu.Bank, logical uint16, kind BreakKind, write bool) (uint16, error) {
	as, ak := c.Regs.AS(), c.Regs.AK()
	phys, fault := c.MMU.Translate(bank, as, ak, logical, write)
	if fault != mmu.FaultNone {
		c.faultMemProtect()
		return 0, errMemProtect
	}
	if c.hooks().CheckBreakpoint(phys, kind) {
		return 0, errBreakpoint
	}
	word, _ := c.Mem.Peek(phys)
	return word, nil
}

func (c *Core) accessStore(bank mmu.Bank, logical uint16, value uint16) (uint16, error) {
	as, ak := c.Regs.AS(), c.Regs.AK()
	phys, fault := c.MMU.Translate(bank, as, ak, logical, true)
	if fault != mmu.FaultNone {
		c.faultMemProtect()
		return 0, errMemProtect
	}
	if c.hooks().CheckBreakpoint(phys, BreakWrite) {
		return 0, errBreakpoint
	}
	c.Mem.Poke(phys, value)
	return value, nil
}

// errMemProtect is the sentinel used internally to unwind a handler back to
// ExecuteOne once the PIR/FT bits are already recorded.
var errMemProtect = errors.New("core: memory protection fault")
