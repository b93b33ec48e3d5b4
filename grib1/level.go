package grib1

import "github.com/golang/glog"

// Level is a decoded level from octets 10-12 of section 1.
//
// See https://codes.ecmwf.int/grib/format/grib1/level/3/.
type Level struct {
	Type   int
	Name   string
	Value1 float32
	Value2 float32
}

type levelEncoding int

const (
	levelNone     levelEncoding = iota // no value
	levelWhole                         // octets 11-12 are one value
	levelLayer                         // octet 11 is the top, octet 12 the bottom
	levelScaled                        // octets 11-12 scaled by a factor
	levelLayerMul                      // octets 11 and 12 scaled by a factor
	levelFromTop                       // value = factor - octet
)

type levelDef struct {
	name     string
	encoding levelEncoding
	factor   float64
}

var levels = map[int]levelDef{
	0:   {"reserved", levelNone, 0},
	1:   {"surface", levelNone, 0},
	2:   {"cloud base level", levelNone, 0},
	3:   {"cloud top level", levelNone, 0},
	4:   {"0 degree isotherm level", levelNone, 0},
	5:   {"condensation level", levelNone, 0},
	6:   {"maximum wind level", levelNone, 0},
	7:   {"tropopause level", levelNone, 0},
	8:   {"nominal atmosphere top", levelNone, 0},
	9:   {"sea bottom", levelNone, 0},
	20:  {"isothermal level", levelScaled, 0.01},
	100: {"isobaric", levelWhole, 0},
	101: {"layer between two isobaric levels", levelLayerMul, 10},
	102: {"mean sea level", levelNone, 0},
	103: {"altitude above MSL", levelWhole, 0},
	104: {"layer between two altitudes above MSL", levelLayerMul, 100},
	105: {"fixed height above ground", levelWhole, 0},
	106: {"layer between two height levels", levelLayerMul, 100},
	107: {"sigma level", levelScaled, 0.0001},
	108: {"layer between two sigma layers", levelLayerMul, 0.01},
	109: {"hybrid level", levelWhole, 0},
	110: {"layer between two hybrid levels", levelLayer, 0},
	111: {"depth below land surface", levelWhole, 0},
	112: {"layer between two levels below land surface", levelLayer, 0},
	113: {"isentropic theta level", levelWhole, 0},
	114: {"layer between two isentropic layers", levelFromTop, 475},
	115: {"level at specified pressure difference from ground to level", levelWhole, 0},
	116: {"layer between pressure differences from ground to levels", levelLayer, 0},
	117: {"potential vorticity(pv) surface", levelWhole, 0},
	119: {"eta level", levelScaled, 0.0001},
	120: {"layer between two Eta levels", levelLayerMul, 0.01},
	121: {"layer between two isobaric surfaces", levelFromTop, 1100},
	125: {"height above ground high precision", levelWhole, 0},
	126: {"isobaric level", levelWhole, 0},
	128: {"layer between two sigma levels", levelNone, 0},
	141: {"layer between two isobaric surfaces", levelNone, 0},
	160: {"depth below sea level", levelWhole, 0},
	200: {"entire atmosphere layer", levelNone, 0},
	201: {"entire ocean layer", levelNone, 0},
	204: {"highest tropospheric freezing level", levelNone, 0},
	206: {"grid scale cloud bottom level", levelNone, 0},
	207: {"grid scale cloud top level", levelNone, 0},
	209: {"boundary layer cloud bottom level", levelNone, 0},
	210: {"boundary layer cloud top level", levelNone, 0},
	211: {"boundary layer cloud layer", levelNone, 0},
	212: {"low cloud bottom level", levelNone, 0},
	213: {"low cloud top level", levelNone, 0},
	214: {"low cloud layer", levelNone, 0},
	215: {"cloud ceiling", levelNone, 0},
	220: {"plantary boundary layer", levelNone, 0},
	222: {"middle cloud bottom level", levelNone, 0},
	223: {"middle cloud top level", levelNone, 0},
	224: {"middle cloud layer", levelNone, 0},
	232: {"high cloud bottom level", levelNone, 0},
	233: {"high cloud top level", levelNone, 0},
	234: {"high cloud layer", levelNone, 0},
	235: {"ocean isotherm level", levelNone, 0},
	236: {"layer between two depths below ocean surface", levelLayer, 0},
	237: {"bottom of ocean mixed layer", levelNone, 0},
	238: {"bottom of ocean isothermal layer", levelNone, 0},
	239: {"layer ocean surface", levelNone, 0},
	240: {"ocean mix layer", levelNone, 0},
	242: {"convective cloud bottom level", levelNone, 0},
	243: {"convective cloud top level", levelNone, 0},
	244: {"convective cloud layer", levelNone, 0},
	245: {"lowest level of the wet bulb zero", levelNone, 0},
	246: {"maximum equivalent potential temperature level", levelNone, 0},
	247: {"equilibrium level", levelNone, 0},
	248: {"shallow convective cloud bottom level", levelNone, 0},
	249: {"shallow convective cloud top level", levelNone, 0},
	251: {"deep convective cloud bottom level", levelNone, 0},
	252: {"deep convective cloud top level", levelNone, 0},
	253: {"lowest level water layer", levelNone, 0},
	254: {"highest level water layer", levelNone, 0},
}

// NewLevel decodes a level type and its two value octets.
func NewLevel(typ, o11, o12 int) Level {
	l := Level{Type: typ}
	def, ok := levels[typ]
	if !ok {
		glog.Warningf("level type %d is not implemented", typ)
		l.Name = "undefined level"
		return l
	}
	l.Name = def.name
	whole := o11<<8 | o12
	switch def.encoding {
	case levelWhole:
		l.Value1 = float32(whole)
	case levelLayer:
		l.Value1, l.Value2 = float32(o11), float32(o12)
	case levelScaled:
		l.Value1 = float32(float64(whole) * def.factor)
	case levelLayerMul:
		l.Value1 = float32(float64(o11) * def.factor)
		l.Value2 = float32(float64(o12) * def.factor)
	case levelFromTop:
		l.Value1 = float32(def.factor - float64(o11))
		l.Value2 = float32(def.factor - float64(o12))
	}
	switch typ {
	case 128:
		l.Value1 = float32(1.1 - float64(o11)*0.001)
		l.Value2 = float32(1.1 - float64(o12)*0.001)
	case 141:
		// The top is given in hPa, the bottom as 1100 - hPa.
		l.Value1 = float32(o11)
		l.Value2 = float32(1100 - o12)
	}
	return l
}
