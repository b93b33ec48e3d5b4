package catalog

import "fmt"

var timeUnitAbbrev = map[int]string{
	0:   "min",
	1:   "hr",
	2:   "day",
	3:   "mon",
	4:   "yr",
	5:   "decade",
	6:   "normal",
	7:   "cent",
	13:  "sec",
	254: "sec",
}

// StatisticShortName returns the short name of a code table 4.10 statistical
// process, or "" when there is none.
func StatisticShortName(code int) string {
	switch code {
	case 0:
		return "Average"
	case 1:
		return "Accumulation"
	case 2:
		return "Maximum"
	case 3:
		return "Minimum"
	case 4, 8:
		return "Difference"
	case 5:
		return "RootMeanSquare"
	case 6:
		return "StandardDeviation"
	case 7:
		return "Covariance"
	case 9:
		return "Ratio"
	}
	return ""
}

// EnsembleTypeName names the ensemble member or derived forecast type of a
// product template: code table 4.6 for individual members, code table 4.7
// for derived forecasts. Other templates have no ensemble type.
func EnsembleTypeName(template, typ int) string {
	switch template {
	case 1, 11, 41, 43:
		switch typ {
		case 0:
			return "Cntrl_high"
		case 1:
			return "Cntrl_low"
		case 2:
			return "Perturb_neg"
		case 3:
			return "Perturb_pos"
		}
		return "unknownEnsemble"
	case 2, 3, 4, 12, 13, 14:
		switch typ {
		case 0:
			return "unweightedMean"
		case 1:
			return "weightedMean"
		case 2:
			return "stdDev"
		case 3:
			return "stdDevNor"
		case 4:
			return "spread"
		case 5:
			return "anomaly"
		case 6:
			return "unweightedMeanCluster"
		}
		return "unknownEnsemble"
	}
	return ""
}

// ProbabilityTypeName describes a code table 4.9 probability type.
func ProbabilityTypeName(code int) string {
	switch code {
	case 0:
		return "Probability of event below lower limit"
	case 1:
		return "Probability of event above upper limit"
	case 2:
		return "Probability of event between limits (inclusive of lower limit)"
	case 3:
		return "Probability of event above lower limit"
	case 4:
		return "Probability of event below upper limit"
	case 255:
		return "Missing"
	}
	return fmt.Sprintf("Unknown probability type (%d)", code)
}
