// Package catalog holds the decoded contents of a GRIB index: one Record per
// cataloged message, the deduplicated grid geometries they refer to, and the
// global attributes of the index file.
package catalog

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/numeric"
)

// Record is one cataloged GRIB message.
//
// Offset1 and Offset2 locate the message's product definition and data
// sections in the GRIB file the index was built from.
type Record struct {
	Edition         int
	ProductTemplate int
	Discipline      int
	Category        int
	ParamNumber     int
	TypeGenProcess  int
	LevelType1      int
	LevelValue1     float32
	LevelType2      int
	LevelValue2     float32

	RefTime time.Time
	// ValidTime is the zero time when TimeUnit is not supported.
	ValidTime time.Time
	// ForecastTime is the end of the interval for interval records.
	ForecastTime int
	// StartOfInterval is numeric.Undefined unless the record is an interval.
	StartOfInterval int
	// IntervalStatType is a code table 4.10 value, or -1.
	IntervalStatType int
	TimeUnit         int

	GdsKey  int32
	Offset1 int64
	Offset2 int64

	// DecimalScale is numeric.Undefined for edition 2.
	DecimalScale int
	BmsExists    bool
	Center       int
	SubCenter    int
	Table        int

	IsEnsemble      bool
	Type            int
	EnsembleNumber  int
	NumberForecasts int
	LowerLimit      float32
	UpperLimit      float32
}

// Position is the part of a record that comes from the index file itself
// rather than from the message's product definition section.
type Position struct {
	Edition    int
	Discipline int
	RefTime    time.Time
	GdsKey     int32
	Offset1    int64
	Offset2    int64

	// Center, SubCenter and Table are the index's global attributes. They are
	// used for edition 2; edition 1 carries its own in the product definition.
	Center    int
	SubCenter int
	Table     int
}

// Assemble merges decoded product definition fields with their position in
// the index. It returns false for interval records whose start equals their
// end: those are not valid catalog entries.
func Assemble(pos Position, f Fields) (Record, bool) {
	r := Record{
		Edition:          pos.Edition,
		ProductTemplate:  f.ProductTemplate,
		Discipline:       pos.Discipline,
		Category:         f.Category,
		ParamNumber:      f.ParamNumber,
		TypeGenProcess:   f.TypeGenProcess,
		LevelType1:       f.LevelType1,
		LevelValue1:      f.LevelValue1,
		LevelType2:       f.LevelType2,
		LevelValue2:      f.LevelValue2,
		RefTime:          pos.RefTime,
		ForecastTime:     f.ForecastTime,
		StartOfInterval:  numeric.Undefined,
		IntervalStatType: f.IntervalStatType,
		TimeUnit:         f.TimeUnit,
		GdsKey:           pos.GdsKey,
		Offset1:          pos.Offset1,
		Offset2:          pos.Offset2,
		DecimalScale:     f.DecimalScale,
		BmsExists:        f.BmsExists,
		Center:           f.Center,
		SubCenter:        f.SubCenter,
		Table:            f.Table,
	}
	if pos.Edition == 2 {
		r.Center, r.SubCenter, r.Table = pos.Center, pos.SubCenter, pos.Table
	}

	if f.HasInterval {
		r.StartOfInterval, r.ForecastTime = f.Interval[0], f.Interval[1]
		if r.ForecastTime == r.StartOfInterval {
			return Record{}, false
		}
	}

	if f.IsEnsemble {
		r.IsEnsemble = true
		r.Type = f.Type
		r.EnsembleNumber = f.EnsembleNumber
		r.NumberForecasts = f.NumberForecasts
		r.LowerLimit = f.LowerLimit
		r.UpperLimit = f.UpperLimit
	}

	if valid, ok := ValidTime(r.RefTime, r.TimeUnit, r.ForecastTime); ok {
		r.ValidTime = valid
	} else if glog.V(1) {
		glog.Warningf("unsupported time unit %d; valid time left unset", r.TimeUnit)
	}
	return r, true
}

// IsInterval reports whether the record holds a statistic over a time span.
func (r Record) IsInterval() bool {
	if r.Edition == 1 {
		return r.IntervalStatType != -1
	}
	t := r.ProductTemplate
	return (t > 7 && t < 15) || t == 42 || t == 43
}

// MakeIntervalName returns a name for the record's time span such as "6hr" or
// "12hr_Accumulation". It returns "" for records that are not intervals and
// for time units without an abbreviation.
func (r Record) MakeIntervalName() string {
	if r.Edition == 1 {
		if !r.IsInterval() {
			return ""
		}
	} else if r.ProductTemplate < 8 || r.ProductTemplate > 15 {
		return ""
	}

	span := r.ForecastTime - r.StartOfInterval
	unit := r.TimeUnit
	switch unit {
	case 10:
		span, unit = span*3, 1
	case 11:
		span, unit = span*6, 1
	case 12:
		span, unit = span*12, 1
	}
	abbrev, ok := timeUnitAbbrev[unit]
	if !ok {
		return ""
	}

	name := fmt.Sprintf("%d%s", span, abbrev)
	if stat := StatisticShortName(r.IntervalStatType); stat != "" {
		name += "_" + stat
	}
	return name
}

// MakeSuffix returns the variable name suffix derived from the record's
// template: "error" for forecast errors, a derived statistic name for
// ensemble products and "probability_..." for probability forecasts.
func (r Record) MakeSuffix() string {
	switch r.ProductTemplate {
	case 0, 1, 8, 11:
		if r.TypeGenProcess == 6 || r.TypeGenProcess == 7 {
			return "error"
		}
	case 2, 3, 4, 12, 13, 14:
		if r.TypeGenProcess == 4 {
			return EnsembleTypeName(r.ProductTemplate, r.Type)
		}
	case 5, 9:
		return probabilityName(r.Type, r.LowerLimit, r.UpperLimit)
	}
	return ""
}

func probabilityName(probType int, lower, upper float32) string {
	switch probType {
	case 0:
		return "probability_below_" + limitName(lower)
	case 1:
		return "probability_above_" + limitName(upper)
	case 2:
		return "probability_between_" + limitName(lower) + "_" + limitName(upper)
	case 3:
		return "probability_above_" + limitName(lower)
	case 4:
		return "probability_below_" + limitName(upper)
	}
	return ""
}

func limitName(v float32) string {
	s := []byte(numeric.FormatJavaFloat(v))
	for i, c := range s {
		if c == '.' {
			s[i] = 'p'
		}
	}
	out := string(s)
	if n := len(out); n > 2 && out[n-2:] == "p0" {
		out = out[:n-2]
	}
	return out
}
