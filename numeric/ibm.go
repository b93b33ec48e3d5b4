package numeric

import (
	"math"
)

// Float4 decodes a single precision IBM hexadecimal floating point number, the
// encoding GRIB uses for reference values, rotation angles and probability
// limits.
//
// See https://en.wikipedia.org/wiki/IBM_hexadecimal_floating-point.
func Float4(b []byte) float32 {
	// See 92.6.4 in the GRIB1 manual:
	// R = (–1)^s × 2^(–24) × B x 16^(A–64)
	// =>
	// R = (–1)^s × B x (2)^(4A–4*64 - 24)
	mantissa := (int(b[1]) << 16) | (int(b[2]) << 8) | int(b[3])
	if mantissa == 0 {
		return 0
	}
	a := b[0] & 0b0111_1111
	exp := 4*(int(a)-64) - 24
	out := math.Ldexp(float64(mantissa), exp)

	// 0 for positive, 1 for negative
	if b[0]&0b1000_0000 != 0 {
		out = -out
	}
	return float32(out)
}
