// Package numeric decodes the fixed width numbers found in GRIB sections and
// in the binary index files that embed them.
//
// GRIB does not use two's complement: a negative value is indicated by setting
// the high-order bit of the left-hand octet, and the remaining bits hold the
// magnitude. A field with every bit set is reserved for "missing".
package numeric

import (
	"encoding/binary"
	"math"
)

// Undefined is returned for missing values and for fields that do not apply
// to a template.
const Undefined = -9999

// Bit masks for flag tables, numbered from the most significant bit as in the
// WMO manuals.
const (
	Bit1 = 128
	Bit2 = 64
	Bit3 = 32
	Bit4 = 16
	Bit5 = 8
	Bit6 = 4
	Bit7 = 2
	Bit8 = 1
)

func allOnes(b []byte) bool {
	for _, x := range b {
		if x != 0xff {
			return false
		}
	}
	return true
}

// Uint2 decodes a two byte unsigned big endian integer.
func Uint2(b []byte) int {
	return int(binary.BigEndian.Uint16(b[:2]))
}

// Uint3 decodes a three byte unsigned big endian integer.
func Uint3(b []byte) int {
	return int(binary.BigEndian.Uint32([]byte{0, b[0], b[1], b[2]}))
}

// Int2 decodes a two byte sign-magnitude integer.
func Int2(b []byte) int {
	if allOnes(b[:2]) {
		return Undefined
	}
	abs := Uint2(b) & 0x7fff
	if b[0]&Bit1 != 0 {
		return -abs
	}
	return abs
}

// Int3 decodes a three byte sign-magnitude integer.
func Int3(b []byte) int {
	if allOnes(b[:3]) {
		return Undefined
	}
	abs := Uint3(b) & 0x7fffff
	if b[0]&Bit1 != 0 {
		return -abs
	}
	return abs
}

// Int4 decodes a four byte sign-magnitude integer.
func Int4(b []byte) int {
	if allOnes(b[:4]) {
		return Undefined
	}
	abs := int(binary.BigEndian.Uint32(b[:4]) & 0x7fffffff)
	if b[0]&Bit1 != 0 {
		return -abs
	}
	return abs
}

// Int8 decodes an eight byte sign-magnitude integer.
func Int8(b []byte) int64 {
	if allOnes(b[:8]) {
		return Undefined
	}
	abs := int64(binary.BigEndian.Uint64(b[:8]) & math.MaxInt64)
	if b[0]&Bit1 != 0 {
		return -abs
	}
	return abs
}

// IsBitSet reports whether any bit of mask is set in value.
func IsBitSet(value, mask int) bool {
	return value&mask != 0
}

// CloseEnough reports whether a and b differ by less than 1e-4 relative to
// their magnitude.
func CloseEnough(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff/largest < 1e-4
}

// ScaledValue applies a GRIB scale factor: value × 10^-scale. A zero scale or
// a zero value is returned unchanged.
func ScaledValue(scale, value int) float32 {
	if scale == 0 || value == 0 {
		return float32(value)
	}
	return float32(float64(value) * math.Pow(10, float64(-scale)))
}
