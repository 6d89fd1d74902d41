// Package registers models the MIL-STD-1750A register file: sixteen general
// registers plus the named special registers (PIR, MK, FT, IC, SW, TA, TB,
// GO, SYS) and the bitfields packed into SW.
package registers

import "fmt"

// File is the complete architectural register state of a 1750A CPU. It is
// owned by exactly one core.Core value; there is no package-level state here.
type File struct {
	R [16]uint16 // R0..R15, R15 conventionally used as stack pointer.

	PIR uint16 // Pending Interrupt Register.
	MK  uint16 // Mask register.
	FT  uint16 // Fault register.
	IC  uint16 // Instruction counter.
	SW  uint16 // Status word: CS | reserved | AK | AS.
	TA  uint16 // Timer A.
	TB  uint16 // Timer B.
	GO  uint16 // GO watchdog.
	SYS uint16 // System configuration flags.
}

// Condition-status bits within SW[15:12].
const (
	CSCarry    uint16 = 0x8000
	CSPositive uint16 = 0x4000
	CSZero     uint16 = 0x2000
	CSNegative uint16 = 0x1000
	csMask     uint16 = 0xF000
)

// Access-Key / Address-State fields within SW.
const (
	akShift = 4
	akMask  = 0xF0
	asMask  = 0x0F
)

// SYS flag bits.
const (
	SysInt uint16 = 0x1 // Master interrupt enable.
	SysDMA uint16 = 0x2
	SysTA  uint16 = 0x4
	SysTB  uint16 = 0x8
)

// FT fault-cause bits.
const (
	FTMemProt    uint16 = 0x8000
	FTIllIO      uint16 = 0x0400
	FTSysFault0  uint16 = 0x0100
	FTIllAddr    uint16 = 0x0080
	FTIllInstr   uint16 = 0x0040
	FTPrivInstr  uint16 = 0x0020
)

// PIR interrupt bits, bit 15 is highest priority (Power-Down).
const (
	PIRPowerDown  uint16 = 0x8000
	PIRMachError  uint16 = 0x4000
	PIRUser0      uint16 = 0x2000
	PIRFloatOfl   uint16 = 0x1000
	PIRFixedOfl   uint16 = 0x0800
	PIRBex        uint16 = 0x0400
	PIRFloatUfl   uint16 = 0x0200
	PIRTimerA     uint16 = 0x0100
	PIRUser1      uint16 = 0x0080
	PIRTimerB     uint16 = 0x0040
	PIRUser2      uint16 = 0x0020
	PIRUser3      uint16 = 0x0010
	PIRIOLevel1   uint16 = 0x0008
	PIRUser4      uint16 = 0x0004
	PIRIOLevel2   uint16 = 0x0002
	PIRUser5      uint16 = 0x0001
)

// AK returns the current Access Key from SW[7:4].
func (f *File) AK() uint8 { return uint8((f.SW & akMask) >> akShift) }

// AS returns the current Address State from SW[3:0].
func (f *File) AS() uint8 { return uint8(f.SW & asMask) }

// SetAS replaces SW[3:0], leaving the rest of SW untouched.
func (f *File) SetAS(as uint8) {
	f.SW = (f.SW &^ asMask) | uint16(as&0x0F)
}

// ClearCarry clears SW[15], the Carry bit. Every arithmetic op clears it
// before computing, per spec.
func (f *File) ClearCarry() { f.SW &^= CSCarry }

// SetCS replaces the condition-status nibble SW[14:12] with exactly one of
// {Positive, Zero, Negative}, leaving Carry and everything else untouched.
func (f *File) SetCS(bit uint16) {
	f.SW = (f.SW &^ (csMask &^ CSCarry)) | (bit &^ CSCarry)
}

// Reset zeros every register. Memory is untouched — that's memory's job.
func (f *File) Reset() {
	*f = File{}
}

// namedFields enumerates the string keys accepted by Get/Set, matching the "public
// query/mutate" surface in the external-interfaces section of the spec.
var namedFields = map[string]func(f *File) *uint16{
	"pir": func(f *File) *uint16 { return &f.PIR },
	"mk":  func(f *File) *uint16 { return &f.MK },
	"ft":  func(f *File) *uint16 { return &f.FT },
	"ic":  func(f *File) *uint16 { return &f.IC },
	"sw":  func(f *File) *uint16 { return &f.SW },
	"ta":  func(f *File) *uint16 { return &f.TA },
	"tb":  func(f *File) *uint16 { return &f.TB },
	"go":  func(f *File) *uint16 { return &f.GO },
	"sys": func(f *File) *uint16 { return &f.SYS },
}

// Get reads a register by its string key: r0..r15 or one of the named
// registers (pir, mk, ft, ic, sw, ta, tb, go, sys).
func (f *File) Get(name string) (uint16, error) {
	if n, ok := regIndex(name); ok {
		return f.R[n], nil
	}
	if acc, ok := namedFields[name]; ok {
		return *acc(f), nil
	}
	return 0, fmt.Errorf("registers: unknown register %q", name)
}

// Set writes a register by its string key.
func (f *File) Set(name string, value uint16) error {
	if n, ok := regIndex(name); ok {
		f.R[n] = value
		return nil
	}
	if acc, ok := namedFields[name]; ok {
		*acc(f) = value
		return nil
	}
	return fmt.Errorf("registers: unknown register %q", name)
}

func regIndex(name string) (int, bool) {
	if len(name) < 2 || len(name) > 3 || (name[0] != 'r' && name[0] != 'R') {
		return 0, false
	}
	n := 0
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n < 0 || n > 15 {
		return 0, false
	}
	return n, true
}
