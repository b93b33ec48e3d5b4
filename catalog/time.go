package catalog

import "time"

// ValidTime adds a forecast offset to a reference time. unit is a GRIB code
// table 4.4 time unit; the second result is false for units that are not
// supported.
func ValidTime(ref time.Time, unit, forecast int) (time.Time, bool) {
	switch unit {
	case 1, 10, 11, 12:
		return ref.Add(time.Duration(forecast) * time.Hour), true
	case 2:
		return ref.Add(time.Duration(forecast*24) * time.Hour), true
	case 0:
		return ref.Add(time.Duration(forecast) * time.Minute), true
	case 3:
		return addMonths(ref, forecast), true
	case 13, 254:
		// Historical producers wrote hours here.
		return ref.Add(time.Duration(forecast*3600) * time.Second), true
	case 4:
		return addMonths(ref, 12*forecast), true
	case 5:
		return addMonths(ref, 12*10*forecast), true
	case 6:
		return addMonths(ref, 12*30*forecast), true
	case 7:
		return addMonths(ref, 12*100*forecast), true
	}
	return time.Time{}, false
}

// addMonths adds n calendar months, clamping the day to the end of the target
// month instead of overflowing into the next one.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
