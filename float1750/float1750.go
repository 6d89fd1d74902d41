// Package float1750 implements the proprietary MIL-STD-1750A 32-bit and
// 48-bit floating-point formats: a two's-complement fractional mantissa
// (0.5 <= |mantissa| < 1.0, or zero) times 2^exponent, exponent stored as an
// 8-bit two's complement byte. Rounding is truncation only, per spec.
package float1750

import "math"

// Saturation thresholds. The 48-bit form shares the exponent range with the
// 32-bit form (same byte position) and only extends mantissa precision.
const (
	Flt32Max = 1.70141163178059628080016879768632819712e38
	Flt32Min = 1.469367938527859384960920671527807097273331945965109401885939632848e-39
	Flt48Max = Flt32Max
	Flt48Min = Flt32Min
)

// Status codes returned by the encoders.
const (
	StatusOK         = 0
	StatusOverflow   = 1
	StatusUnderflow  = -1
)

// Decode32 converts a 32-bit 1750A float (two words) to a host float64.
// Layout: word[0] = mantissa bits [23:8] (sign in bit 15), word[1] high byte
// = mantissa bits [7:0], word[1] low byte = two's complement exponent.
func Decode32(words [2]uint16) float64 {
	mant24 := (uint32(words[0]) << 8) | (uint32(words[1]) >> 8)
	exp := int8(words[1] & 0xFF)
	return decode(signExtend(uint64(mant24), 24), 23, exp)
}

// Decode48 converts a 48-bit 1750A float (three words) to a host float64.
// Layout: word[0..1] = mantissa bits [39:8], word[2] high byte = mantissa
// bits [7:0], word[2] low byte = exponent.
func Decode48(words [3]uint16) float64 {
	mant40 := (uint64(words[0]) << 24) | (uint64(words[1]) << 8) | (uint64(words[2]) >> 8)
	exp := int8(words[2] & 0xFF)
	return decode(signExtend(mant40, 40), 39, exp)
}

func signExtend(v uint64, bits int) int64 {
	shift := 64 - uint(bits)
	return int64(v<<shift) >> shift
}

func decode(mantissa int64, fracBits uint, exp int8) float64 {
	if mantissa == 0 {
		return 0
	}
	m := float64(mantissa) / float64(int64(1)<<fracBits)
	return m * math.Pow(2, float64(exp))
}

// Encode32 packs a host float64 into 1750A 32-bit format. Status is 0 on
// success, >0 on overflow (exponent > 127), <0 on underflow (exponent <
// -128); on either fault the returned words are the saturated pattern.
func Encode32(value float64) ([2]uint16, int) {
	mant, exp, status := normalize(value, 23)
	if status != StatusOK {
		return saturate32(value, status), status
	}
	m24 := uint32(mant) & 0xFFFFFF
	return [2]uint16{
		uint16(m24 >> 8),
		uint16(m24<<8) | uint16(uint8(exp)),
	}, StatusOK
}

// Encode48 packs a host float64 into 1750A 48-bit format.
func Encode48(value float64) ([3]uint16, int) {
	mant, exp, status := normalize(value, 39)
	if status != StatusOK {
		return saturate48(value, status), status
	}
	m40 := uint64(mant) & 0xFFFFFFFFFF
	return [3]uint16{
		uint16(m40 >> 24),
		uint16(m40 >> 8),
		uint16(m40<<8) | uint16(uint8(exp)),
	}, StatusOK
}

// normalize splits value into a signed fracBits+1-bit mantissa and an 8-bit
// exponent such that value == (mantissa / 2^fracBits) * 2^exponent, with the
// mantissa's magnitude in [2^(fracBits-1), 2^fracBits) (i.e. [0.5, 1.0) before
// scaling), or (0, 0) for an exact zero.
func normalize(value float64, fracBits uint) (mantissa int64, exponent int32, status int) {
	if value == 0 {
		return 0, 0, StatusOK
	}
	frac, exp := math.Frexp(value) // frac in [-1,-0.5] U [0.5,1), value = frac*2^exp
	// Truncate toward zero: MIL-STD-1750A defines no rounding mode for the
	// proprietary float format other than truncation (spec.md Non-goals).
	mant := int64(math.Trunc(frac * float64(int64(1)<<fracBits)))
	full := int64(1) << fracBits
	if mant >= full {
		mant >>= 1
		exp++
	}
	if exp > 127 {
		return 0, 0, StatusOverflow
	}
	if exp < -128 {
		return 0, 0, StatusUnderflow
	}
	return mant, int32(exp), StatusOK
}

func saturate32(value float64, status int) [2]uint16 {
	if status == StatusUnderflow {
		return [2]uint16{0x4000, 0x0080} // minimum normalized positive magnitude.
	}
	// Overflow: fixed maximum-magnitude pattern, regardless of sign.
	return [2]uint16{0x7FFF, 0xFF7F}
}

func saturate48(value float64, status int) [3]uint16 {
	if status == StatusUnderflow {
		return [3]uint16{0, 0, 0} // defined small pattern: zero, for the 48-bit form.
	}
	// Overflow: fixed maximum-magnitude pattern, regardless of sign.
	return [3]uint16{0x7FFF, 0xFFFF, 0xFF7F}
}
