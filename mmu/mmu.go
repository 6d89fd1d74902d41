// Package mmu implements the 1750A two-level memory management unit: a page
// table keyed by (bank, address-state, logical page) that maps a 4-Kword
// logical page to a physical page plus an access lock and a write-protect
// bit, in the style of the teacher's emu/memory address-translation helpers
// generalized from S370's single-level DAT to the 1750A's bank/AS/page
// table shape described in design note on MMU layout.
package mmu

import (
	"fmt"

	"github.com/EtchedPixels/sim1750a/memory"
)

// Bank selects which of the two parallel page tables (instruction fetch or
// data access) an address goes through.
type Bank int

const (
	Code Bank = iota
	Data
)

const (
	numAS    = 16
	numPages = 16 // logical pages per (bank, AS): logical address hi-nibble.
)

// PageReg is one page-table entry: physical page number, access lock, and
// the effective/write protect bit.
type PageReg struct {
	PPA uint8 // physical page address, 8 bits (256 physical pages).
	AL  uint8 // access lock, 4 bits: access is allowed if AK is 0, AL is 0xF, or AK == AL.
	EW  bool  // true blocks every fetch and store to the page (Effective/Write bit).
}

// MMU holds both page tables. The zero value is NOT usable; call Init first.
type MMU struct {
	table [2][numAS][numPages]PageReg
}

// Init installs the identity mapping required at power-up: logical page N of
// any (bank, AS) maps to physical page N, access lock 0, not write-protected.
func (u *MMU) Init() {
	for b := 0; b < 2; b++ {
		for as := 0; as < numAS; as++ {
			for lp := 0; lp < numPages; lp++ {
				u.table[b][as][lp] = PageReg{PPA: uint8(lp), AL: 0, EW: false}
			}
		}
	}
}

// Get returns the page register for (bank, as, logicalPage).
func (u *MMU) Get(bank Bank, as, logicalPage uint8) PageReg {
	return u.table[bank][as&0xF][logicalPage&0xF]
}

// Set installs a page register, as the XIO page-register-load instructions
// do.
func (u *MMU) Set(bank Bank, as, logicalPage uint8, reg PageReg) {
	u.table[bank][as&0xF][logicalPage&0xF] = reg
}

// Fault describes why a translated access was rejected.
type Fault int

const (
	FaultNone Fault = iota
	FaultAccessKey
	FaultWriteProtect
)

// Translate converts a 16-bit logical address under the given bank/AS/access
// key into a 20-bit physical address. accessKey is the requester's current
// AK (from SW). Translate never allocates memory — that happens lazily in
// the memory package on the first Fetch/Store. The write parameter is kept
// for callers but does not change which checks apply: the reference
// implementation's E/W bit gates both fetch and store identically.
func (u *MMU) Translate(bank Bank, as, accessKey uint8, logical uint16, write bool) (phys uint32, fault Fault) {
	lp := uint8(logical >> 12)
	reg := u.Get(bank, as, lp)
	// AL 0xF means public: any key passes. AK 0 is the supervisor key: it
	// always passes regardless of AL. Otherwise the key must match exactly.
	if accessKey != 0 && reg.AL != 0xF && accessKey != reg.AL {
		return 0, FaultAccessKey
	}
	if reg.EW {
		return 0, FaultWriteProtect
	}
	phys = (uint32(reg.PPA) << 12) | uint32(logical&0x0FFF)
	return phys, FaultNone
}

// Fetch translates and reads one word through the Code bank (instruction
// fetch), returning an error that names the fault for the caller to record
// into FT/PIR.
func Fetch(u *MMU, m *memory.Memory, as, accessKey uint8, logical uint16) (uint16, error) {
	phys, fault := u.Translate(Code, as, accessKey, logical, false)
	if fault != FaultNone {
		return 0, faultError(fault, logical)
	}
	word, _ := m.Peek(phys)
	return word, nil
}

// Load translates and reads one word through the Data bank.
func Load(u *MMU, m *memory.Memory, as, accessKey uint8, logical uint16) (uint16, error) {
	phys, fault := u.Translate(Data, as, accessKey, logical, false)
	if fault != FaultNone {
		return 0, faultError(fault, logical)
	}
	word, _ := m.Peek(phys)
	return word, nil
}

// Store translates and writes one word through the Data bank.
func Store(u *MMU, m *memory.Memory, as, accessKey uint8, logical uint16, value uint16) error {
	phys, fault := u.Translate(Data, as, accessKey, logical, true)
	if fault != FaultNone {
		return faultError(fault, logical)
	}
	m.Poke(phys, value)
	return nil
}

func faultError(fault Fault, logical uint16) error {
	switch fault {
	case FaultAccessKey:
		return fmt.Errorf("mmu: access key violation at logical %#04x", logical)
	case FaultWriteProtect:
		return fmt.Errorf("mmu: write to protected page at logical %#04x", logical)
	default:
		return nil
	}
}
