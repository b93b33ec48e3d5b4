package numeric

import (
	"testing"
)

func TestFloat4(t *testing.T) {
	for _, tt := range []struct {
		name string
		ibm  []byte
		want float32
	}{
		{
			// example from https://en.wikipedia.org/wiki/IBM_hexadecimal_floating-point
			"negative",
			[]byte{0b1100_0010, 0b0111_0110, 0b1010_0000, 0b0000_0000},
			-118.625,
		},
		{
			"positive",
			[]byte{0b0100_0010, 0b0111_0110, 0b1010_0000, 0b0000_0000},
			118.625,
		},
		{
			"one",
			[]byte{0x41, 0x10, 0x00, 0x00},
			1,
		},
		{
			"zero",
			[]byte{0, 0, 0, 0},
			0,
		},
		{
			"zero mantissa ignores sign and exponent",
			[]byte{0xC5, 0, 0, 0},
			0,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := Float4(tt.ibm)
			if got != tt.want {
				t.Errorf("decoded %f, wanted %f (delta = %f)", got, tt.want, got-tt.want)
			}
		})
	}
}
