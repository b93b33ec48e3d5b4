package grib2

import "fmt"

// Grid definition template numbers (code table 3.1) with dedicated decoders.
const (
	GridLatLon                   = 0
	GridRotatedLatLon            = 1
	GridStretchedLatLon          = 2
	GridRotatedStretchedLatLon   = 3
	GridMercator                 = 10
	GridPolarStereographic       = 20
	GridLambertConformal         = 30
	GridAlbersEqualArea          = 31
	GridGaussian                 = 40
	GridRotatedGaussian          = 41
	GridStretchedGaussian        = 42
	GridRotatedStretchedGaussian = 43
	GridSpaceView                = 90
	GridAzimuthalEquidistant     = 110
	GridCurvilinear              = 204
	GridArakawaE                 = 32768
)

var gridNames = map[int]string{
	0:     "Latitude_Longitude",
	1:     "Rotated_Latitude_Longitude",
	2:     "Stretched_Latitude_Longitude",
	3:     "Rotated_and_Stretched_Latitude_Longitude",
	10:    "Mercator",
	20:    "Polar_Stereographic",
	30:    "Lambert_Conformal",
	31:    "Albers_Equal_Area",
	40:    "Gaussian_Latitude_Longitude",
	41:    "Rotated_Gaussian_Latitude_Longitude",
	42:    "Stretched_Gaussian Latitude_Longitude",
	43:    "Rotated_and_Stretched_Gaussian_Latitude_Longitude",
	50:    "Spherical_Harmonic_Coefficients",
	51:    "Rotated_Spherical_Harmonic_Coefficients",
	52:    "Stretched_Spherical_Harmonic_Coefficients",
	53:    "Rotated_and_Stretched_Spherical_Harmonic_Coefficients",
	90:    "Space_View_Perspective_or_Orthographic",
	100:   "Triangular_Grid_Based_on_an_Icosahedron",
	110:   "Equatorial_Azimuthal_Equidistant",
	120:   "Azimuth_Range",
	204:   "Curvilinear_Orthogonal",
	1000:  "Cross_Section_Grid_with_Points_Equally_Spaced_on_the_Horizontal",
	1100:  "Hovmoller_Diagram_with_Points_Equally_Spaced_on_the_Horizontal",
	1200:  "Time_Section_Grid",
	32768: "Rotated_Latitude_Longitude_Arakawa_Staggered_E_Grid",
}

// GridName returns the code table 3.1 name of a grid definition template.
// The spelling matches what index producers write, including the space in
// template 42.
func GridName(gdtn int) string {
	if n, ok := gridNames[gdtn]; ok {
		return n
	}
	return fmt.Sprintf("Unknown projection%d", gdtn)
}

var shapeNames = map[int]string{
	0: "Earth spherical with radius = 6,367,470 m",
	1: "Earth spherical with radius specified by producer in m",
	2: "Earth oblate spheroid with major axis = 6,378,160 m and minor axis = 6,356,775 m",
	3: "Earth oblate spheroid with axes specified by producer in m",
	4: "Earth oblate spheroid with major axis = 6,378,137.0 m and minor axis = 6,356,752.314 m",
	5: "Earth represent by WGS84",
	6: "Earth spherical with radius of 6,371,229.0 m",
	7: "Earth oblate spheroid with axes specified by producer in m",
	8: "Earth spherical with radius of 6,371,200.0 m, represent by WGS84",
}

// ShapeName returns the code table 3.2 description of the shape of the earth.
func ShapeName(shape int) string {
	if n, ok := shapeNames[shape]; ok {
		return n
	}
	return "Unknown Earth Shape"
}
