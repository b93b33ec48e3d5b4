package grib1

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

// productDefinitionFixedLength is the length of section 1 up to and including
// the decimal scale factor.
const productDefinitionFixedLength = 28

// Centers with a known local ensemble extension of section 1.
const (
	centerNCEP  = 7
	centerECMWF = 98
)

// ProductDefinition has information about the contents of a Message.
type ProductDefinition struct {
	data []byte

	section1Length              int        // Uint3(data[0:3])
	table2Version               int        // data[3]
	center                      int        // data[4]
	generatingProcessIdentifier int        // data[5]
	gridDefinition              int        // data[6]
	section1Flags               int        // data[7]
	indicatorOfParameter        int        // data[8]
	level                       Level      // data[9], data[10], data[11]
	referenceTime               time.Time  // data[12:17], data[24]
	unitOfTimeRange             UnitOfTime // data[17]
	p1                          int        // data[18]
	p2                          int        // data[19]
	timeRangeIndicator          int        // data[20]
	numberIncludedInAverage     int        // Uint2(data[21:23])
	numberMissing               int        // data[23]
	subCentre                   int        // data[25]
	decimalScaleFactor          int        // Int2(data[26:28])
}

/*
	Code table 1 – Flag indication relative to Sections 2 and 3

Bit No. Value Meaning
1       0     Section 2 omitted
1       1     Section 2 included
2       0     Section 3 omitted
2       1     Section 3 included
Note: Bits enumerated from left to right.
*/
const (
	section2Included = 1 << 7
	section3Included = 1 << 6
)

// ParseProductDefinition decodes a section 1 block.
func ParseProductDefinition(data []byte) (*ProductDefinition, error) {
	/* https://apps.ecmwf.int/codes/grib/format/grib1/sections/1/

	Octets	Key	Type	Content
	1-3	section1Length	unsigned	Length of section
	4	table2Version	unsigned	GRIB tables Version No.
	5	centre	codetable	Identification of originating/generating centre
	6	generatingProcessIdentifier	unsigned	Generating process identification number
	7	gridDefinition	unsigned	Grid definition (Number of grid used from catalogue defined by originating centre)
	8	section1Flags	codeflag	Flag (see Code table 1)
	9	indicatorOfParameter	codetable	Indicator of parameter (see Code table 2)
	10	indicatorOfTypeOfLevel	codetable	Indicator of type of level (see Code table 3)
	11-12			Height, pressure, etc. of levels (see Code table 3)
	13-17	yearOfCentury, month, day, hour, minute	Reference time of data
	18	unitOfTimeRange	codetable	Indicator of unit of time range (see Code table 4)
	19	P1	unsigned	P1 Period of time
	20	P2	unsigned	P2 Period of time
	21	timeRangeIndicator	codetable	Time range indicator (see Code table 5)
	22-23	numberIncludedInAverage	unsigned	Number included in average
	24	numberMissingFromAveragesOrAccumulations	unsigned	Number missing from averages or accumulations
	25	centuryOfReferenceTimeOfData	unsigned	Century of reference time of data
	26	subCentre	codetable	Sub-centre identification
	27-28	decimalScaleFactor	signed	Units decimal scale factor (D)
	29-40			Reserved: need not be present
	41-nn			Reserved for originating centre use
	*/
	if len(data) < productDefinitionFixedLength {
		return nil, fmt.Errorf("section 1 must be at least %d bytes long, got %d", productDefinitionFixedLength, len(data))
	}
	s := &ProductDefinition{data: data}
	s.section1Length = numeric.Uint3(data[0:3])
	s.table2Version = int(data[3])
	s.center = int(data[4])
	s.generatingProcessIdentifier = int(data[5])
	s.gridDefinition = int(data[6])
	s.section1Flags = int(data[7])
	s.indicatorOfParameter = int(data[8])
	s.level = NewLevel(int(data[9]), int(data[10]), int(data[11]))
	s.unitOfTimeRange = UnitOfTime(data[17])
	s.p1 = int(data[18])
	s.p2 = int(data[19])
	s.timeRangeIndicator = int(data[20])
	s.numberIncludedInAverage = numeric.Uint2(data[21:23])
	s.numberMissing = int(data[23])
	s.subCentre = int(data[25])
	s.decimalScaleFactor = numeric.Int2(data[26:28])

	century := int(data[24]) - 1
	if century == -1 {
		century = 20
	}
	s.referenceTime = time.Date(century*100+int(data[12]), time.Month(data[13]), int(data[14]),
		int(data[15]), int(data[16]), 0, 0, time.UTC)

	if s.section1Length > len(data) {
		return nil, fmt.Errorf("section 1 claims its length %d is greater than data size %d", s.section1Length, len(data))
	}
	return s, nil
}

func (s *ProductDefinition) octet(i int) int {
	if i < 0 || i >= len(s.data) {
		return 255
	}
	return int(s.data[i])
}

// Length returns the declared section length.
func (s *ProductDefinition) Length() int { return s.section1Length }

// TableVersion returns the parameter table version (octet 4).
func (s *ProductDefinition) TableVersion() int { return s.table2Version }

// Center returns the originating center (octet 5).
func (s *ProductDefinition) Center() int { return s.center }

// SubCenter returns the originating sub-center (octet 26).
func (s *ProductDefinition) SubCenter() int { return s.subCentre }

// TypeGenProcess returns the generating process identifier (octet 6).
func (s *ProductDefinition) TypeGenProcess() int { return s.generatingProcessIdentifier }

// GridID returns the catalogue number of the grid (octet 7).
func (s *ProductDefinition) GridID() int { return s.gridDefinition }

// GridDescriptionIncluded reports whether the message carries section 2.
func (s *ProductDefinition) GridDescriptionIncluded() bool {
	return (s.section1Flags & section2Included) != 0
}

// BitmapIncluded reports whether the message carries section 3.
func (s *ProductDefinition) BitmapIncluded() bool {
	return (s.section1Flags & section3Included) != 0
}

// Parameter returns the indicator of parameter (code table 2).
func (s *ProductDefinition) Parameter() int { return s.indicatorOfParameter }

// Level returns the decoded level.
func (s *ProductDefinition) Level() Level { return s.level }

// ReferenceTime returns the reference time of the data.
func (s *ProductDefinition) ReferenceTime() time.Time { return s.referenceTime }

// TimeUnit returns the unit of P1 and P2.
func (s *ProductDefinition) TimeUnit() UnitOfTime { return s.unitOfTimeRange }

// TimeRangeIndicator returns the time range indicator (code table 5). It plays
// the role of the product template for the catalog.
func (s *ProductDefinition) TimeRangeIndicator() int { return s.timeRangeIndicator }

// DecimalScale returns the units decimal scale factor.
func (s *ProductDefinition) DecimalScale() int { return s.decimalScaleFactor }

// ForecastTime returns the forecast offset, or the end of the interval for
// time ranges that span one.
func (s *ProductDefinition) ForecastTime() int {
	switch s.timeRangeIndicator {
	case TimeRangeValidAtP1:
		return s.p1
	case TimeRangeAnalysis:
		return 0
	case TimeRangeValidBetween, TimeRangeAverage, TimeRangeAccumulation, TimeRangeDifference, TimeRangeAverageAround:
		return s.p2
	case TimeRangeAverageBefore:
		return -s.p2
	case TimeRangeP1Extended:
		return numeric.Int2([]byte{byte(s.p1), byte(s.p2)})
	case TimeRangeMeanToP2:
		return s.p2
	case TimeRangeAverageForecasts:
		return s.p1
	}
	glog.Warningf("time range indicator %d is not supported; using P1", s.timeRangeIndicator)
	return s.p1
}

// IntervalStatType returns the code table 4.10 statistic of an interval, 255
// for an interval without statistic and -1 when the product is not an
// interval.
func (s *ProductDefinition) IntervalStatType() int {
	switch s.timeRangeIndicator {
	case TimeRangeAverage, TimeRangeAverageAround:
		return 0
	case TimeRangeAccumulation:
		return 1
	case TimeRangeDifference:
		return 4
	case TimeRangeValidBetween:
		return 255
	}
	return -1
}

// Interval returns [P1, P2] for interval products.
func (s *ProductDefinition) Interval() [2]int {
	if s.IntervalStatType() == -1 {
		return [2]int{numeric.Undefined, numeric.Undefined}
	}
	return [2]int{s.p1, s.p2}
}

func (s *ProductDefinition) isNCEPEnsemble() bool {
	return s.center == centerNCEP && len(s.data) >= 45 && s.octet(40) == 1
}

func (s *ProductDefinition) isECMWFEnsemble() bool {
	return s.center == centerECMWF && len(s.data) >= 51
}

// IsEnsemble reports whether the section carries a local ensemble extension.
func (s *ProductDefinition) IsEnsemble() bool {
	return s.isNCEPEnsemble() || s.isECMWFEnsemble()
}

// Type returns the ensemble type of the local extension.
func (s *ProductDefinition) Type() int {
	switch {
	case s.isNCEPEnsemble():
		return s.octet(41)
	case s.isECMWFEnsemble():
		return s.octet(42)
	}
	return numeric.Undefined
}

// EnsembleNumber returns the member identifier.
func (s *ProductDefinition) EnsembleNumber() int {
	switch {
	case s.isNCEPEnsemble():
		return s.octet(42)
	case s.isECMWFEnsemble():
		return s.octet(49)
	}
	return numeric.Undefined
}

// ProductID returns the NCEP ensemble product identifier.
func (s *ProductDefinition) ProductID() int {
	if s.isNCEPEnsemble() {
		return s.octet(43)
	}
	return numeric.Undefined
}

// NumberForecasts returns the size of the ensemble.
func (s *ProductDefinition) NumberForecasts() int {
	switch {
	case s.isNCEPEnsemble() && len(s.data) >= 61:
		return s.octet(60)
	case s.isECMWFEnsemble():
		return s.octet(50)
	}
	return numeric.Undefined
}

// ProbabilityType returns the NCEP probability type: 1 below the lower limit,
// 2 above the upper limit, 3 between both.
func (s *ProductDefinition) ProbabilityType() int {
	if s.isNCEPEnsemble() && len(s.data) >= 55 {
		switch t := s.octet(46); t {
		case 1, 2, 3:
			return t
		}
	}
	return numeric.Undefined
}

// LowerLimit returns the lower limit of a probability product.
func (s *ProductDefinition) LowerLimit() float32 {
	if s.ProbabilityType() == numeric.Undefined {
		return numeric.Undefined
	}
	return numeric.Float4(s.data[47:51])
}

// UpperLimit returns the upper limit of a probability product.
func (s *ProductDefinition) UpperLimit() float32 {
	if s.ProbabilityType() == numeric.Undefined {
		return numeric.Undefined
	}
	return numeric.Float4(s.data[51:55])
}

// Fields normalizes the section for the catalog. Edition 1 has no parameter
// categories; Category is -1.
func (s *ProductDefinition) Fields() catalog.Fields {
	f := catalog.Fields{
		ProductTemplate:  s.timeRangeIndicator,
		Category:         -1,
		ParamNumber:      s.indicatorOfParameter,
		TypeGenProcess:   s.generatingProcessIdentifier,
		LevelType1:       s.level.Type,
		LevelValue1:      s.level.Value1,
		LevelType2:       255,
		LevelValue2:      s.level.Value2,
		TimeUnit:         int(s.unitOfTimeRange),
		ForecastTime:     s.ForecastTime(),
		IntervalStatType: s.IntervalStatType(),
		DecimalScale:     s.decimalScaleFactor,
		BmsExists:        s.BitmapIncluded(),
		Center:           s.center,
		SubCenter:        s.subCentre,
		Table:            s.table2Version,
	}
	if f.IntervalStatType != -1 {
		f.HasInterval = true
		f.Interval = s.Interval()
		f.ForecastTime = f.Interval[1]
	}
	if s.IsEnsemble() {
		f.IsEnsemble = true
		f.Type = s.Type()
		f.EnsembleNumber = s.EnsembleNumber()
		f.NumberForecasts = s.NumberForecasts()
		f.LowerLimit = s.LowerLimit()
		f.UpperLimit = s.UpperLimit()
	}
	return f
}
