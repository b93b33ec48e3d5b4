// Package grib2 decodes the edition 2 sections that a GRIB index stores for
// each message: the product definition section (section 4) and the grid
// definition section (section 3).
//
// The code tables are published by WMO as
// https://library.wmo.int/doc_num.php?explnum_id=11283 and, in browsable
// form, at https://codes.ecmwf.int/grib/format/grib2/.
package grib2

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

// productDefinitionFixedLength is the number of octets up to and including
// the parameter number, shared by every product definition template.
const productDefinitionFixedLength = 11

// ProductDefinition is a raw product definition section as stored in an index
// file. Accessors decode fields on demand; a field the template does not carry
// is numeric.Undefined.
type ProductDefinition struct {
	data     []byte
	length   int // Int4(data[0:4])
	template int // Uint2(data[7:9])
}

// ParseProductDefinition wraps a section 4 block.
func ParseProductDefinition(data []byte) (*ProductDefinition, error) {
	/* https://codes.ecmwf.int/grib/format/grib2/sections/4/

	Octets	Key	Type	Content
	1-4	section4Length	unsigned	Length of the section in octets (nn)
	5	numberOfSection	unsigned	Number of the section (4)
	6-7	NV	unsigned	Number of coordinate values after template
	8-9	productDefinitionTemplateNumber	codetable	Product definition template number (see Code table 4.0)
	10-nn			Product definition template (see Template 4.X, where X is the product definition template number given in octets 8-9)
	*/
	if len(data) < productDefinitionFixedLength {
		return nil, fmt.Errorf("product definition section must be at least %d bytes long, got %d", productDefinitionFixedLength, len(data))
	}
	return &ProductDefinition{
		data:     data,
		length:   numeric.Int4(data[0:4]),
		template: numeric.Uint2(data[7:9]),
	}, nil
}

// octet returns data[i], or 255 (missing) past the end of the block.
func (p *ProductDefinition) octet(i int) int {
	if i < 0 || i >= len(p.data) {
		return 255
	}
	return int(p.data[i])
}

func (p *ProductDefinition) int4(i int) int {
	return numeric.Int4([]byte{byte(p.octet(i)), byte(p.octet(i + 1)), byte(p.octet(i + 2)), byte(p.octet(i + 3))})
}

// Length returns the declared section length.
func (p *ProductDefinition) Length() int { return p.length }

// Template returns the product definition template number (code table 4.0).
func (p *ProductDefinition) Template() int { return p.template }

// Category returns the parameter category (code table 4.1).
func (p *ProductDefinition) Category() int { return p.octet(9) }

// Parameter returns the parameter number (code table 4.2).
func (p *ProductDefinition) Parameter() int { return p.octet(10) }

// TypeGenProcess returns the type of generating process (code table 4.3).
func (p *ProductDefinition) TypeGenProcess() int {
	switch p.template {
	case 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 20, 30, 31, 1000, 1001, 1002, 1100, 1101:
		return p.octet(11)
	case 40, 41, 42, 43:
		return p.octet(13)
	}
	return numeric.Undefined
}

// TimeUnit returns the indicator of unit of time range (code table 4.4).
func (p *ProductDefinition) TimeUnit() int {
	switch p.template {
	case 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 1000, 1001, 1002, 1100, 1101:
		return p.octet(17)
	case 20:
		return p.octet(13)
	case 40, 41, 42, 43:
		return p.octet(19)
	}
	return numeric.Undefined
}

// increment converts a length in the given time unit to the unit the
// forecast time is reported in. The 3, 6 and 12 hour units become hours.
func increment(unit, length int) int {
	switch unit {
	case 1, 0, 2, 3, 4, 5, 6, 7, 13:
		return length
	case 10:
		return 3 * length
	case 11:
		return 6 * length
	case 12:
		return 12 * length
	}
	return numeric.Undefined
}

// forecasts returns the two candidate forecast offsets: octets 19-22 and, for
// the chemical templates, octets 21-24.
func (p *ProductDefinition) forecasts() (int, int) {
	f1, f2 := numeric.Undefined, numeric.Undefined
	scale := increment(p.TimeUnit(), 1)
	if scale == numeric.Undefined {
		return f1, f2
	}
	if p.length > 21 {
		if v := p.int4(18); v != numeric.Undefined {
			f1 = v * scale
		}
	}
	if p.length > 23 {
		if v := p.int4(20); v != numeric.Undefined {
			f2 = v * scale
		}
	}
	return f1, f2
}

// timeRangeOffsets gives, per interval template, the offset of the "number of
// time ranges" octet that starts the statistical processing block.
var timeRangeOffsets = map[int]int{
	8:  41,
	9:  54,
	10: 42,
	11: 44,
	12: 43,
	13: 75,
	14: 71,
	42: 43,
	43: 46,
}

// TimeRange is one entry of the statistical processing block.
type TimeRange struct {
	StatProcess   int // code table 4.10
	IncrementType int // code table 4.11
	Unit          int
	Length        int
	IncrementUnit int
	Increment     int
}

// TimeRanges returns the statistical processing block of an interval template.
func (p *ProductDefinition) TimeRanges() []TimeRange {
	idx, ok := timeRangeOffsets[p.template]
	if !ok {
		return nil
	}
	n := p.octet(idx)
	idx += 5 // number of ranges, then the Int4 count of missing values
	var out []TimeRange
	for i := 0; i < n && idx < len(p.data); i++ {
		out = append(out, TimeRange{
			StatProcess:   p.octet(idx),
			IncrementType: p.octet(idx + 1),
			Unit:          p.octet(idx + 2),
			Length:        p.int4(idx + 3),
			IncrementUnit: p.octet(idx + 7),
			Increment:     p.int4(idx + 8),
		})
		idx += 12
	}
	return out
}

// intervalEnd adds the statistical processing span to start.
func (p *ProductDefinition) intervalEnd(start int) int {
	ranges := p.TimeRanges()
	switch {
	case len(ranges) == 1:
		inc := increment(ranges[0].Unit, ranges[0].Length)
		if inc == numeric.Undefined || start == numeric.Undefined {
			return numeric.Undefined
		}
		return start + inc
	case len(ranges) == 2 && ranges[0].StatProcess == 194 && ranges[0].Unit == ranges[1].Unit:
		// Monthly climate reanalysis: one range of daily values, one of the
		// hours averaged within each day.
		inc := increment(ranges[0].Unit, ranges[0].Length*ranges[1].Length)
		if inc == numeric.Undefined || start == numeric.Undefined {
			return numeric.Undefined
		}
		return start + inc
	case len(ranges) == 2:
		glog.Errorf("template 4.%d: two time ranges with different units are not supported", p.template)
	default:
		glog.Errorf("template 4.%d: %d time ranges are not supported", p.template, len(ranges))
	}
	return numeric.Undefined
}

// IsInterval reports whether the template is a statistic over a time range.
func (p *ProductDefinition) IsInterval() bool {
	_, ok := timeRangeOffsets[p.template]
	return ok
}

// Interval returns the [start, end] of an interval template in TimeUnit
// units. Both are numeric.Undefined for point-in-time templates. A zero
// length interval is returned as is.
func (p *ProductDefinition) Interval() [2]int {
	f1, f2 := p.forecasts()
	switch p.template {
	case 8, 9, 10, 11, 12, 13, 14:
		return [2]int{f1, p.intervalEnd(f1)}
	case 42, 43:
		return [2]int{f2, p.intervalEnd(f2)}
	}
	return [2]int{numeric.Undefined, numeric.Undefined}
}

// ForecastTime returns the forecast offset, the end of the interval for
// interval templates.
func (p *ProductDefinition) ForecastTime() int {
	f1, f2 := p.forecasts()
	switch p.template {
	case 0, 1, 2, 3, 4, 5, 6, 7, 1000, 1001, 1002, 1100, 1101:
		return f1
	case 8, 9, 10, 11, 12, 13, 14, 42, 43:
		return p.Interval()[1]
	case 40, 41:
		return f2
	case 30, 31:
		return 0
	}
	return numeric.Undefined
}

// IntervalStatType returns the statistical process (code table 4.10) of the
// first time range, or -1 for templates that do not carry one.
func (p *ProductDefinition) IntervalStatType() int {
	switch p.template {
	case 8:
		return p.octet(46)
	case 9:
		return p.octet(59)
	case 10, 12:
		return p.octet(48)
	case 11:
		return p.octet(49)
	case 13:
		return p.octet(80)
	case 14:
		return p.octet(76)
	}
	return -1
}

// levelOffset returns where the first fixed surface starts, or -1.
func (p *ProductDefinition) levelOffset() int {
	switch p.template {
	case 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 1100, 1101:
		return 22
	case 40, 41, 42, 43:
		return 24
	}
	return -1
}

// LevelType1 returns the type of the first fixed surface (code table 4.5).
func (p *ProductDefinition) LevelType1() int {
	if p.template == 30 || p.template == 31 {
		return 0
	}
	if o := p.levelOffset(); o >= 0 {
		return p.octet(o)
	}
	return numeric.Undefined
}

// LevelValue1 returns the scaled value of the first fixed surface.
func (p *ProductDefinition) LevelValue1() float32 {
	if o := p.levelOffset(); o >= 0 {
		return numeric.ScaledValue(p.octet(o+1), p.int4(o+2))
	}
	return numeric.Undefined
}

// LevelType2 returns the type of the second fixed surface.
func (p *ProductDefinition) LevelType2() int {
	if p.template == 30 || p.template == 31 {
		return 0
	}
	if o := p.levelOffset(); o >= 0 {
		return p.octet(o + 6)
	}
	return numeric.Undefined
}

// LevelValue2 returns the scaled value of the second fixed surface.
func (p *ProductDefinition) LevelValue2() float32 {
	if o := p.levelOffset(); o >= 0 {
		return numeric.ScaledValue(p.octet(o+7), p.int4(o+8))
	}
	return numeric.Undefined
}

// IsEnsemble reports whether the generating process is an ensemble forecast,
// a probability forecast or a derived product.
func (p *ProductDefinition) IsEnsemble() bool {
	switch p.TypeGenProcess() {
	case 4, 5, 10, 193:
		return true
	}
	return false
}

// Type returns the ensemble type (code table 4.6), the derived forecast type
// (code table 4.7) or the probability type (code table 4.9), depending on
// the template.
func (p *ProductDefinition) Type() int {
	switch p.template {
	case 1, 2, 3, 4, 11, 12, 13, 14:
		return p.octet(34)
	case 5, 9, 41, 43:
		return p.octet(36)
	}
	return numeric.Undefined
}

// PerturbationNumber returns the ensemble member number.
func (p *ProductDefinition) PerturbationNumber() int {
	switch p.template {
	case 1, 11:
		return p.octet(35)
	case 41, 43:
		return p.octet(37)
	}
	return numeric.Undefined
}

// NumberForecasts returns the number of forecasts in the ensemble.
func (p *ProductDefinition) NumberForecasts() int {
	switch p.template {
	case 2, 3, 4, 5, 9, 12, 13, 14:
		return p.octet(35)
	case 1, 11:
		return p.octet(36)
	case 41, 43:
		return p.octet(38)
	}
	return numeric.Undefined
}

// ProbabilityNumber returns the forecast probability number.
func (p *ProductDefinition) ProbabilityNumber() int {
	if p.template == 5 || p.template == 9 {
		return p.octet(34)
	}
	return numeric.Undefined
}

// LowerLimit returns the scaled lower limit of a probability forecast.
func (p *ProductDefinition) LowerLimit() float32 {
	if p.template == 5 || p.template == 9 {
		return numeric.ScaledValue(p.octet(37), p.int4(38))
	}
	return numeric.Undefined
}

// UpperLimit returns the scaled upper limit of a probability forecast.
func (p *ProductDefinition) UpperLimit() float32 {
	if p.template == 5 || p.template == 9 {
		return numeric.ScaledValue(p.octet(42), p.int4(43))
	}
	return numeric.Undefined
}

// Percentile returns the percentile value of templates 6 and 10.
func (p *ProductDefinition) Percentile() int {
	if p.template == 6 || p.template == 10 {
		return p.octet(34)
	}
	return numeric.Undefined
}

// Fields normalizes the section for the catalog. Edition 2 sections carry no
// center, decimal scale or bitmap flag; those come from the index.
func (p *ProductDefinition) Fields() catalog.Fields {
	f := catalog.Fields{
		ProductTemplate:  p.template,
		Category:         p.Category(),
		ParamNumber:      p.Parameter(),
		TypeGenProcess:   p.TypeGenProcess(),
		LevelType1:       p.LevelType1(),
		LevelValue1:      p.LevelValue1(),
		LevelType2:       p.LevelType2(),
		LevelValue2:      p.LevelValue2(),
		TimeUnit:         p.TimeUnit(),
		ForecastTime:     p.ForecastTime(),
		IntervalStatType: p.IntervalStatType(),
		DecimalScale:     numeric.Undefined,
	}
	if p.IsInterval() {
		f.HasInterval = true
		f.Interval = p.Interval()
		f.ForecastTime = f.Interval[1]
	}
	if p.IsEnsemble() {
		f.IsEnsemble = true
		f.Type = p.Type()
		f.EnsembleNumber = p.PerturbationNumber()
		f.NumberForecasts = p.NumberForecasts()
		f.LowerLimit = p.LowerLimit()
		f.UpperLimit = p.UpperLimit()
	}
	return f
}
