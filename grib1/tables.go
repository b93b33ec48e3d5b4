package grib1

import "fmt"

// DataRepresentationType indicates the grid used (code table 6).
type DataRepresentationType uint8

const (
	// DataRepresentationTypeLL indicates Latitude/Longitude Grid.
	DataRepresentationTypeLL = 0
	// DataRepresentationTypeMM indicates Mercator Projection Grid.
	DataRepresentationTypeMM = 1
	// DataRepresentationTypeLC indicates Lambert Conformal.
	DataRepresentationTypeLC = 3
	// DataRepresentationTypeGG indicates Gaussian Latitude/Longitude Grid.
	DataRepresentationTypeGG = 4
	// DataRepresentationTypePS indicates Polar Stereographic Projection Grid.
	DataRepresentationTypePS = 5
	// DataRepresentationTypeUTM indicates Universal Transverse Mercator.
	DataRepresentationTypeUTM = 6
	// DataRepresentationTypeRotatedLL indicates Rotated Latitude/Longitude grid.
	DataRepresentationTypeRotatedLL = 10
	// DataRepresentationTypeOL indicates Oblique Lambert conformal.
	DataRepresentationTypeOL = 13
	// DataRepresentationTypeRotatedGG indicates Rotated Gaussian latitude/longitude grid.
	DataRepresentationTypeRotatedGG = 14
	// DataRepresentationTypeStretchedLL indicates Stretched latitude/longitude grid.
	DataRepresentationTypeStretchedLL = 20
	// DataRepresentationTypeStretchedGG indicates Stretched Gaussian latitude/longitude.
	DataRepresentationTypeStretchedGG = 24
	// DataRepresentationTypeStretchedRotatedLL indicates Stretched and rotated latitude/longitude.
	DataRepresentationTypeStretchedRotatedLL = 30
	// DataRepresentationTypeStretchedRotatedGG indicates Stretched and rotated Gaussian latitude/longitude.
	DataRepresentationTypeStretchedRotatedGG = 34
	// DataRepresentationTypeSV indicates Space view perspective or orthographic grid.
	DataRepresentationTypeSV = 90
	// DataRepresentationTypeCurvilinear indicates Curvilinear orthogonal grid.
	DataRepresentationTypeCurvilinear = 204
)

var gridNames = map[int]string{
	0:   "Latitude_Longitude",
	1:   "Mercator",
	2:   "Gnomonic",
	3:   "Lambert_Conformal",
	4:   "Gaussian_Latitude_Longitude",
	5:   "Polar_Stereographic",
	87:  "Polar_Stereographic",
	6:   "Universal_Transverse_Mercator",
	7:   "Simple_Polyconic",
	8:   "Albers_Equal_Area",
	9:   "Millers_Cylindrical",
	10:  "Rotated_Latitude_Longitude",
	13:  "Oblique_Lambert_Conformal",
	14:  "Rotated_Gaussian_Latitude_Longitude",
	20:  "Stretched_Latitude_Longitude",
	24:  "Stretched_Gaussian_Latitude_Longitude",
	30:  "Stretched_and_Rotated_Latitude_Longitude",
	34:  "Stretched_and_Rotated_Gaussian_Latitude_Longitude",
	50:  "Spherical_Harmonic_Coefficients",
	60:  "Rotated_Spherical_Harmonic_Coefficients",
	70:  "Stretched_Spherical_Harmonics",
	80:  "Stretched_and_Rotated_Spherical_Harmonic_Coefficients",
	90:  "Space_View_Perspective_or_Orthographic",
	201: "Arakawa_Semi_Staggered_E_grid_on_Rotated_Latitude_Longitude_Grid_Point_Array_1D",
	202: "Arakawa_Filled_E_Grid_on_Rotated_Latitude_Longitude_Grid_Point_Array_1D",
	203: "Arakawa_Semi_Staggered_E_grid_on_Rotated_Latitude_Longitude_Grid_Point_Array_2D",
	204: "Curvilinear_Orthogonal",
	205: "Arakawa_Filled_B_Grid_on_Rotated_Latitude_Longitude",
	254: "Grid_point_locations_specified_by_auxilliary_file_or_GRIB_message",
}

// GridName returns the name index producers give a data representation type.
func GridName(typ int) string {
	if n, ok := gridNames[typ]; ok {
		return n
	}
	return fmt.Sprintf("Unknown Grid (%d)", typ)
}

// ShapeName returns the name of an edition 1 earth shape: 1 is an oblate
// spheroid, anything else a sphere.
func ShapeName(shape int) string {
	if shape == 1 {
		return "oblate spheroid"
	}
	return "spherical"
}

// Edition 1 earth dimensions, in km.
const (
	earthRadius    float32 = 6367.47
	earthMajorAxis float32 = 6378.160
	earthMinorAxis float32 = 6356.775
)

// UnitOfTime is GRIB1 code table 4. See
// https://github.com/ecmwf/eccodes/blob/fd549250dc5fe8f7f07dd242b8e781f73982735f/definitions/grib1/4.table
type UnitOfTime uint8

// Units of time of GRIB1 code table 4.
//
// See https://apps.ecmwf.int/codes/grib/format/grib1/ctable/4/
const (
	UnitOfTimeMinute    = 0
	UnitOfTimeHour      = 1
	UnitOfTimeDay       = 2
	UnitOfTimeMonth     = 3
	UnitOfTimeYear      = 4
	UnitOfTimeDecade    = 5
	UnitOfTimeNormal    = 6
	UnitOfTimeCentury   = 7
	UnitOfTime3Hours    = 10
	UnitOfTime6Hours    = 11
	UnitOfTime12Hours   = 12
	UnitOfTime15Minutes = 13
	UnitOfTime30Minutes = 14
	UnitOfTimeSecond    = 254
)

// Time range indicators (code table 5) with their own forecast time rules.
const (
	TimeRangeValidAtP1        = 0
	TimeRangeAnalysis         = 1
	TimeRangeValidBetween     = 2
	TimeRangeAverage          = 3
	TimeRangeAccumulation     = 4
	TimeRangeDifference       = 5
	TimeRangeAverageBefore    = 6
	TimeRangeAverageAround    = 7
	TimeRangeP1Extended       = 10
	TimeRangeMeanToP2         = 51
	TimeRangeAverageForecasts = 113
)
