// Package alu is the Arithmetic Unit: one entry point that performs
// add/sub/mul/mul-signed/div/div-single across the four 1750A data types,
// updating condition status and PIR exactly as arith() does in the C
// reference (sim1750's arith.c), generalized from S370's per-type handlers
// in emu/cpu/cpu_standard.go.
package alu

import (
	"github.com/EtchedPixels/sim1750a/float1750"
	"github.com/EtchedPixels/sim1750a/registers"
)

// Op identifies the arithmetic operation.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	MulS
	Div
	DivV
)

// Type identifies the 1750A operand representation.
type Type int

const (
	Int16 Type = iota
	Int32
	Flt32
	Flt48
)

// Arith performs op on dst (the accumulator, 1/2/2/3 words depending on
// type, except that INT16 Mul, Div and DivV take a 2-word dst) and src (1 word for INT16/FLT32-as-divisor-width rules below; see
// per-type comments), leaving dst updated in place and SW/PIR reflecting the
// result. It always clears Carry first. On a fault that leaves the
// destination unchanged (divide by zero, min-negative / -1), dst is left
// untouched.
func Arith(rf *registers.File, op Op, typ Type, dst, src []uint16) {
	rf.ClearCarry()
	switch typ {
	case Int16:
		arithInt16(rf, op, dst, src)
	case Int32:
		arithInt32(rf, op, dst, src)
	case Flt32:
		arithFloat(rf, op, dst, src, false)
	case Flt48:
		arithFloat(rf, op, dst, src, true)
	}
}

func arithInt16(rf *registers.File, op Op, dst, src []uint16) {
	a := int32(int16(dst[0]))
	b := int32(int16(src[0]))
	switch op {
	case Add:
		ua, ub := uint32(dst[0]), uint32(src[0])
		sum := ua + ub
		if sum&0x10000 != 0 {
			rf.SW |= registers.CSCarry
		}
		if (ua&0x8000) == (ub&0x8000) && (ub&0x8000) != (sum&0x8000) {
			rf.PIR |= registers.PIRFixedOfl
		}
		dst[0] = uint16(sum)
	case Sub:
		ua, ub := uint32(dst[0]), uint32(src[0])
		diff := ua - ub
		if diff&0x10000 != 0 {
			rf.SW |= registers.CSCarry
		}
		if (ua&0x8000) != (ub&0x8000) && (ua&0x8000) != (diff&0x8000) {
			rf.PIR |= registers.PIRFixedOfl
		}
		dst[0] = uint16(diff)
	case Mul:
		prod := a * b
		dst[0] = uint16(uint32(prod) >> 16)
		dst[1] = uint16(uint32(prod))
		updateCSWords(rf, dst[:2])
		return
	case MulS:
		prod := a * b
		if a != 0 && b != 0 {
			if (a < 0) == (b < 0) {
				if uint32(prod)&0xFFFF8000 != 0 {
					rf.PIR |= registers.PIRFixedOfl
				}
			} else if uint32(prod)&0xFFFF8000 != 0xFFFF8000 {
				rf.PIR |= registers.PIRFixedOfl
			}
		}
		dst[0] = uint16(prod)
	case Div, DivV:
		var dividend int32
		if op == Div {
			dividend = (int32(int16(dst[0])) << 16) | int32(uint16(dst[1]))
		} else {
			dividend = int32(int16(dst[0]))
		}
		if b == 0 || (b == -1 && (dividend == -1<<31 || dividend == -1<<15)) {
			rf.PIR |= registers.PIRFixedOfl
			return
		}
		q := dividend / b
		r := dividend % b
		dst[0] = uint16(q)
		dst[1] = uint16(r)
	}
	updateCSWords(rf, dst[:1])
}

func arithInt32(rf *registers.File, op Op, dst, src []uint16) {
	a := (int64(int16(dst[0])) << 16) | int64(uint16(dst[1]))
	b := (int64(int16(src[0])) << 16) | int64(uint16(src[1]))
	switch op {
	case Add:
		ua := (uint64(dst[0]) << 16) | uint64(dst[1])
		ub := (uint64(src[0]) << 16) | uint64(src[1])
		sum := ua + ub
		if sum&0x100000000 != 0 {
			rf.SW |= registers.CSCarry
		}
		if (ua&0x80000000) == (ub&0x80000000) && (ub&0x80000000) != (sum&0x80000000) {
			rf.PIR |= registers.PIRFixedOfl
		}
		dst[0], dst[1] = uint16(sum>>16), uint16(sum)
	case Sub:
		ua := (uint64(dst[0]) << 16) | uint64(dst[1])
		ub := (uint64(src[0]) << 16) | uint64(src[1])
		diff := ua - ub
		if diff&0x100000000 != 0 {
			rf.SW |= registers.CSCarry
		}
		if (ua&0x80000000) != (ub&0x80000000) && (ua&0x80000000) != (diff&0x80000000) {
			rf.PIR |= registers.PIRFixedOfl
		}
		dst[0], dst[1] = uint16(diff>>16), uint16(diff)
	case Mul:
		prod := a * b
		up := uint64(prod)
		// Caller supplies a 4-word dst for the double-wide result; when only
		// 2 words are given (32x32->32 truncated), keep low half only.
		if len(dst) >= 4 {
			dst[0], dst[1] = uint16(up>>48), uint16(up>>32)
			dst[2], dst[3] = uint16(up>>16), uint16(up)
		} else {
			dst[0], dst[1] = uint16(up>>16), uint16(up)
		}
		updateCSWords(rf, dst)
		return
	case MulS:
		prod := a * b
		if a != 0 && b != 0 {
			if (a < 0) == (b < 0) {
				if prod&^0x7FFFFFFF != 0 {
					rf.PIR |= registers.PIRFixedOfl
				}
			} else if prod&^0x7FFFFFFF != ^int64(0)&^0x7FFFFFFF {
				rf.PIR |= registers.PIRFixedOfl
			}
		}
		dst[0], dst[1] = uint16(uint32(prod)>>16), uint16(uint32(prod))
	case Div, DivV:
		var dividend int64
		if op == Div && len(dst) >= 4 {
			dividend = (a << 32) | (int64(uint16(dst[2]))<<16 | int64(uint16(dst[3])))
		} else {
			dividend = a
		}
		if b == 0 || (b == -1 && (dividend == -1<<63 || dividend == -1<<31)) {
			rf.PIR |= registers.PIRFixedOfl
			return
		}
		q := dividend / b
		r := dividend % b
		dst[0], dst[1] = uint16(q>>16), uint16(q)
		if len(dst) >= 4 {
			dst[2], dst[3] = uint16(r>>16), uint16(r)
		}
	}
	updateCSWords(rf, dst[:2])
}

func arithFloat(rf *registers.File, op Op, dst, src []uint16, wide bool) {
	a := decode(dst, wide)
	b := decode(src, wide)
	var r float64
	switch op {
	case Add:
		r = a + b
	case Sub:
		r = a - b
	case Mul, MulS:
		r = a * b
	case Div, DivV:
		min := float1750.Flt32Min
		if mag(b) < min {
			rf.PIR |= registers.PIRFloatOfl
			clearWords(dst)
			updateCSWords(rf, dst)
			return
		}
		r = a / b
	}
	encode(rf, dst, r, wide)
}

func mag(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func decode(words []uint16, wide bool) float64 {
	if wide {
		var w [3]uint16
		copy(w[:], words)
		return float1750.Decode48(w)
	}
	var w [2]uint16
	copy(w[:], words)
	return float1750.Decode32(w)
}

func encode(rf *registers.File, dst []uint16, value float64, wide bool) {
	if wide {
		words, status := float1750.Encode48(value)
		copy(dst, words[:])
		reportStatus(rf, status)
	} else {
		words, status := float1750.Encode32(value)
		copy(dst, words[:])
		reportStatus(rf, status)
	}
	updateCSWords(rf, dst)
}

func reportStatus(rf *registers.File, status int) {
	switch {
	case status > 0:
		rf.PIR |= registers.PIRFloatOfl
	case status < 0:
		rf.PIR |= registers.PIRFloatUfl
	}
}

func clearWords(dst []uint16) {
	for i := range dst {
		dst[i] = 0
	}
}

// UpdateCS sets exactly one of {P, Z, N} in SW based on the first word's sign
// bit and whether every word is zero. This is the single primitive used after
// every integer/float op that affects condition status (design note 9).
func UpdateCS(rf *registers.File, words []uint16) {
	updateCSWords(rf, words)
}

func updateCSWords(rf *registers.File, words []uint16) {
	allZero := true
	for _, w := range words {
		if w != 0 {
			allZero = false
			break
		}
	}
	switch {
	case allZero:
		rf.SetCS(registers.CSZero)
	case len(words) > 0 && words[0]&0x8000 != 0:
		rf.SetCS(registers.CSNegative)
	default:
		rf.SetCS(registers.CSPositive)
	}
}

// Compare sets N/Z/P according to a signed (or float) comparison of a and b,
// leaving Carry unchanged.
func Compare(rf *registers.File, typ Type, a, b []uint16) {
	var less, greater bool
	switch typ {
	case Int16:
		av, bv := int16(a[0]), int16(b[0])
		less, greater = av < bv, av > bv
	case Int32:
		av := (int32(int16(a[0])) << 16) | int32(uint16(a[1]))
		bv := (int32(int16(b[0])) << 16) | int32(uint16(b[1]))
		less, greater = av < bv, av > bv
	case Flt32:
		av, bv := decode(a, false), decode(b, false)
		less, greater = av < bv, av > bv
	case Flt48:
		av, bv := decode(a, true), decode(b, true)
		less, greater = av < bv, av > bv
	}
	switch {
	case less:
		rf.SetCS(registers.CSNegative)
	case greater:
		rf.SetCS(registers.CSPositive)
	default:
		rf.SetCS(registers.CSZero)
	}
}
