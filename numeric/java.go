package numeric

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Index files were produced by a JVM, so geometry keys are hashes of
// Double.toString output and geometry parameters use Float.toString. The
// functions below reproduce those renderings so that keys and parameters
// decoded here compare equal to the ones stored in the files.

// FormatJavaDouble renders v the way java.lang.Double.toString does.
func FormatJavaDouble(v float64) string {
	return formatJava(v, 64)
}

// FormatJavaFloat renders v the way java.lang.Float.toString does.
func FormatJavaFloat(v float32) string {
	return formatJava(float64(v), 32)
}

func formatJava(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(v)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(v, 'f', -1, bitSize)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	// Computerized scientific notation: 1.0E10, 1.234E-5.
	s := strconv.FormatFloat(v, 'e', -1, bitSize)
	mantissa, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(e)
}

// JavaStringHash returns java.lang.String.hashCode for s.
func JavaStringHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	return h
}
