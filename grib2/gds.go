package grib2

import (
	"fmt"
	"math"

	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

const gridDefinitionFixedLength = 14

// Scale constants used by index producers. They are single precision, and so
// is all arithmetic on them.
const (
	tenToSix    float32 = 1e6
	tenToThree  float32 = 1e3
	tenToNegSix float32 = 1e-6
)

// GridDefinition is a raw grid definition section as stored in an index file.
type GridDefinition struct {
	data     []byte
	template int
}

// ParseGridDefinition wraps a section 3 block.
func ParseGridDefinition(data []byte) (*GridDefinition, error) {
	/* https://codes.ecmwf.int/grib/format/grib2/sections/3/

	Octets	Key	Type	Content
	1-4	section3Length	unsigned	Length of the section in octets (nn)
	5	numberOfSection	unsigned	Number of the section (3)
	6	sourceOfGridDefinition	codetable	Source of grid definition (see Code table 3.0)
	7-10	numberOfDataPoints	unsigned	Number of data points
	11	numberOfOctectsForNumberOfPoints	unsigned	Number of octets for optional list of numbers defining number of points
	12	interpretationOfNumberOfPoints	codetable	Interpretation of list of numbers defining number of points (see Code table 3.11)
	13-14	gridDefinitionTemplateNumber	codetable	Grid definition template number (= N) (see Code table 3.1)
	15-xx			Grid definition template (see Template 3.N, where N is the grid definition template number given in octets 13-14)
	*/
	if len(data) < gridDefinitionFixedLength {
		return nil, fmt.Errorf("grid definition section must be at least %d bytes long, got %d", gridDefinitionFixedLength, len(data))
	}
	return &GridDefinition{data: data, template: numeric.Uint2(data[12:14])}, nil
}

func (g *GridDefinition) octet(i int) int {
	if i < 0 || i >= len(g.data) {
		return 255
	}
	return int(g.data[i])
}

func (g *GridDefinition) int2(i int) int {
	return numeric.Int2([]byte{byte(g.octet(i)), byte(g.octet(i + 1))})
}

func (g *GridDefinition) int4(i int) int {
	return numeric.Int4([]byte{byte(g.octet(i)), byte(g.octet(i + 1)), byte(g.octet(i + 2)), byte(g.octet(i + 3))})
}

// Template returns the grid definition template number (code table 3.1).
func (g *GridDefinition) Template() int { return g.template }

// Olon returns the number of octets of the optional list of points per row.
// Zero means the grid is regular.
func (g *GridDefinition) Olon() int { return g.octet(10) }

func hasShape(template int) bool {
	switch template {
	case 0, 1, 2, 3, 10, 20, 30, 31, 40, 41, 42, 43, 90, 110, 204, 1000, 1100, 32768:
		return true
	}
	return false
}

func isLatLon(template int) bool {
	switch template {
	case 0, 1, 2, 3, 40, 41, 42, 43, 32768:
		return true
	}
	return false
}

// Shape returns the shape of the earth (code table 3.2).
func (g *GridDefinition) Shape() int {
	if hasShape(g.template) {
		return g.octet(14)
	}
	return numeric.Undefined
}

func scaleBy(value, factor int) float32 {
	return float32(float64(float32(value)) / math.Pow(10, float64(factor)))
}

// EarthRadius returns the radius of a spherical earth in metres.
func (g *GridDefinition) EarthRadius() float32 {
	if !hasShape(g.template) {
		return numeric.Undefined
	}
	switch g.Shape() {
	case 0:
		return 6367470
	case 1:
		if f := g.octet(15); f != 0 {
			return scaleBy(g.int4(16), f)
		}
		return float32(g.int4(16))
	case 6:
		return 6371229
	case 8:
		return 6371200
	}
	return numeric.Undefined
}

// MajorAxis returns the major axis of an oblate spheroid earth in metres.
func (g *GridDefinition) MajorAxis() float32 {
	if !hasShape(g.template) {
		return numeric.Undefined
	}
	switch g.Shape() {
	case 2:
		return 6378160
	case 3:
		return scaleBy(g.int4(21), g.octet(20)) * 1000
	case 4, 5:
		return 6378137
	case 7:
		return scaleBy(g.int4(21), g.octet(20))
	}
	return numeric.Undefined
}

// MinorAxis returns the minor axis of an oblate spheroid earth in metres.
func (g *GridDefinition) MinorAxis() float32 {
	if !hasShape(g.template) {
		return numeric.Undefined
	}
	switch g.Shape() {
	case 2:
		return 6356775
	case 3:
		return scaleBy(g.int4(26), g.octet(25)) * 1000
	case 4, 5:
		return 6356752.314
	case 7:
		return scaleBy(g.int4(26), g.octet(25))
	}
	return numeric.Undefined
}

func hasDimensions(template int) bool {
	switch template {
	case 0, 1, 2, 3, 10, 20, 30, 31, 40, 41, 42, 43, 90, 110, 204, 32768:
		return true
	}
	return false
}

// Nx returns the number of points along a parallel. For quasi-regular grids
// it is the longest row of the list of points per row.
func (g *GridDefinition) Nx() int {
	if !hasDimensions(g.template) {
		return numeric.Undefined
	}
	nx := g.int4(30)
	if nx == -1 || nx == numeric.Undefined {
		return g.calculateNx()
	}
	return nx
}

// Ny returns the number of points along a meridian.
func (g *GridDefinition) Ny() int {
	if !hasDimensions(g.template) {
		return numeric.Undefined
	}
	return g.int4(34)
}

func (g *GridDefinition) calculateNx() int {
	// Rows are counted along the meridian. A grid whose rows run along the
	// other axis has no way to size itself.
	if g.ScanMode()&32 != 0 {
		return numeric.Undefined
	}
	rows := g.Ny()
	var offset int
	switch g.template {
	case 0, 10, 40:
		offset = 72
	case 1, 2, 41, 42:
		offset = 84
	case 3, 43:
		offset = 96
	default:
		return numeric.Undefined
	}
	maxPts := 0
	for i := 0; i < rows && offset < len(g.data); i++ {
		var n int
		switch g.Olon() {
		case 1:
			n = g.octet(offset)
			offset++
		case 2:
			n = g.int2(offset)
			offset += 2
		default:
			return maxPts
		}
		maxPts = max(maxPts, n)
	}
	return maxPts
}

// BasicAngle returns the basic angle of the initial production domain.
func (g *GridDefinition) BasicAngle() int {
	switch g.template {
	case 0, 1, 2, 3, 40, 41, 42, 43, 204, 32768:
		return g.int4(38)
	case 1000, 1100:
		return g.int4(34)
	}
	return numeric.Undefined
}

// Subdivisions returns the subdivisions of the basic angle.
func (g *GridDefinition) Subdivisions() int {
	switch g.template {
	case 0, 1, 2, 3, 40, 41, 42, 43, 204, 32768:
		return g.int4(42)
	case 1000, 1100:
		return g.int4(38)
	}
	return numeric.Undefined
}

// ratio is the divisor index producers apply to angles of the lat/lon
// family: 1e6 unless a basic angle is given.
func (g *GridDefinition) ratio() float32 {
	ba := g.BasicAngle()
	if ba == 0 || ba == numeric.Undefined {
		return tenToSix
	}
	return float32(ba) / float32(g.Subdivisions())
}

func (g *GridDefinition) angle(i int) float32 {
	return float32(g.int4(i)) / g.ratio()
}

func (g *GridDefinition) micro(i int) float32 {
	return float32(g.int4(i)) / tenToSix
}

func (g *GridDefinition) milli(i int) float32 {
	return float32(g.int4(i)) / tenToThree
}

// La1 returns the latitude of the first grid point.
func (g *GridDefinition) La1() float32 {
	switch {
	case isLatLon(g.template):
		return g.angle(46)
	}
	switch g.template {
	case 10, 20, 30, 31, 110:
		return g.micro(38)
	case 120:
		return g.micro(22)
	case 1000, 1100:
		return g.angle(42)
	}
	return numeric.Undefined
}

// Lo1 returns the longitude of the first grid point.
func (g *GridDefinition) Lo1() float32 {
	switch {
	case isLatLon(g.template):
		return g.angle(50)
	}
	switch g.template {
	case 10, 20, 30, 31, 110:
		return g.micro(42)
	case 120:
		return g.micro(26)
	case 1000, 1100:
		return g.angle(46)
	}
	return numeric.Undefined
}

// La2 returns the latitude of the last grid point.
func (g *GridDefinition) La2() float32 {
	switch {
	case isLatLon(g.template):
		return g.angle(55)
	case g.template == 10:
		return g.micro(51)
	case g.template == 1000, g.template == 1100:
		return g.angle(51)
	}
	return numeric.Undefined
}

// Lo2 returns the longitude of the last grid point.
func (g *GridDefinition) Lo2() float32 {
	switch {
	case isLatLon(g.template):
		return g.angle(59)
	case g.template == 10:
		return g.micro(55)
	case g.template == 1000, g.template == 1100:
		return g.angle(55)
	}
	return numeric.Undefined
}

// keyCorner returns La1 and Lo1 as index producers compute them for the
// geometry key: scaled by multiplication with an integer angle ratio.
func (g *GridDefinition) keyCorner() (float32, float32) {
	ratio := tenToNegSix
	if ba := g.BasicAngle(); ba != 0 && ba != numeric.Undefined {
		if sub := g.Subdivisions(); sub != 0 {
			ratio = float32(ba / sub)
		}
	}
	switch {
	case isLatLon(g.template), g.template == 1000, g.template == 1100:
		la, lo := 46, 50
		if !isLatLon(g.template) {
			la, lo = 42, 46
		}
		return float32(g.int4(la)) * ratio, float32(g.int4(lo)) * ratio
	}
	switch g.template {
	case 10, 20, 30, 31, 110:
		return float32(g.int4(38)) * tenToNegSix, float32(g.int4(42)) * tenToNegSix
	case 120:
		return float32(g.int4(22)) * tenToNegSix, float32(g.int4(26)) * tenToNegSix
	}
	return numeric.Undefined, numeric.Undefined
}

// Key returns the geometry key index producers assign to this section.
// The template number in the key is read as a signed two byte integer,
// which folds template 32768 onto 0.
func (g *GridDefinition) Key() int32 {
	la1, lo1 := g.keyCorner()
	return catalog.GeometryKey(g.int2(12), la1, lo1)
}

// Resolution returns the resolution and component flags (flag table 3.3).
func (g *GridDefinition) Resolution() int {
	switch {
	case isLatLon(g.template), g.template == 204:
		return g.octet(54)
	}
	switch g.template {
	case 10, 20, 30, 31, 90, 110:
		return g.octet(46)
	}
	return numeric.Undefined
}

// LaD returns the latitude where Dx and Dy are specified.
func (g *GridDefinition) LaD() float32 {
	switch g.template {
	case 10, 20, 30, 31:
		return g.micro(47)
	}
	return numeric.Undefined
}

// LoV returns the orientation of the grid.
func (g *GridDefinition) LoV() float32 {
	switch g.template {
	case 20, 30, 31:
		return g.micro(51)
	}
	return numeric.Undefined
}

// Dx returns the x direction increment.
func (g *GridDefinition) Dx() float32 {
	switch {
	case isLatLon(g.template):
		return g.angle(63)
	}
	switch g.template {
	case 10:
		return g.milli(64)
	case 20, 30, 31:
		return g.milli(55)
	case 90, 120:
		return float32(g.int4(47))
	case 110:
		return g.milli(47)
	}
	return numeric.Undefined
}

// Dy returns the y direction increment.
func (g *GridDefinition) Dy() float32 {
	switch g.template {
	case 0, 1, 2, 3, 32768:
		return g.angle(67)
	case 10:
		return g.milli(68)
	case 20, 30, 31:
		return g.milli(59)
	case 90:
		return float32(g.int4(51))
	case 110:
		return g.milli(51)
	}
	return numeric.Undefined
}

// Np returns the number of parallels between a pole and the equator of a
// Gaussian grid.
func (g *GridDefinition) Np() int {
	switch g.template {
	case 40, 41, 42, 43:
		return g.int4(67)
	}
	return numeric.Undefined
}

// ProjectionFlag returns the projection centre flag (flag table 3.5).
func (g *GridDefinition) ProjectionFlag() int {
	switch g.template {
	case 20, 30, 31:
		return g.octet(63)
	case 110:
		return g.octet(55)
	}
	return numeric.Undefined
}

// ScanMode returns the scanning mode (flag table 3.4).
func (g *GridDefinition) ScanMode() int {
	switch {
	case isLatLon(g.template), g.template == 204:
		return g.octet(71)
	}
	switch g.template {
	case 10:
		return g.octet(59)
	case 20, 30, 31:
		return g.octet(64)
	case 90:
		return g.octet(63)
	case 100:
		return g.octet(33)
	case 110:
		return g.octet(56)
	case 120:
		return g.octet(38)
	case 1000, 1100:
		return g.octet(50)
	}
	return numeric.Undefined
}

// Latin1 returns the first latitude from the pole at which the secant cone
// cuts the sphere.
func (g *GridDefinition) Latin1() float32 {
	if g.template == 30 || g.template == 31 {
		return g.micro(65)
	}
	return numeric.Undefined
}

// Latin2 returns the second latitude of the secant cone.
func (g *GridDefinition) Latin2() float32 {
	if g.template == 30 || g.template == 31 {
		return g.micro(69)
	}
	return numeric.Undefined
}

// Angle returns the orientation of the grid for template 10 and 90.
func (g *GridDefinition) Angle() int {
	switch g.template {
	case 10:
		return g.int4(60)
	case 90:
		return g.int4(64)
	}
	return numeric.Undefined
}

// Lap returns the latitude of the sub-satellite point.
func (g *GridDefinition) Lap() float32 {
	if g.template == 90 {
		return float32(g.int4(38))
	}
	return numeric.Undefined
}

// Lop returns the longitude of the sub-satellite point.
func (g *GridDefinition) Lop() float32 {
	if g.template == 90 {
		return float32(g.int4(42))
	}
	return numeric.Undefined
}

func (g *GridDefinition) spaceView(i int) float32 {
	if g.template == 90 {
		return float32(g.int4(i))
	}
	return numeric.Undefined
}

// Xp returns the x coordinate of the sub-satellite point.
func (g *GridDefinition) Xp() float32 {
	if g.template == 90 {
		return g.milli(55)
	}
	return numeric.Undefined
}

// Yp returns the y coordinate of the sub-satellite point.
func (g *GridDefinition) Yp() float32 {
	if g.template == 90 {
		return g.milli(59)
	}
	return numeric.Undefined
}

// Nr returns the altitude of the camera from the earth's centre.
func (g *GridDefinition) Nr() float32 { return g.spaceView(68) }

// Xo returns the x coordinate of the origin of the sector image.
func (g *GridDefinition) Xo() float32 { return g.spaceView(72) }

// Yo returns the y coordinate of the origin of the sector image.
func (g *GridDefinition) Yo() float32 { return g.spaceView(76) }

// SpLat returns the latitude of the southern pole of projection.
func (g *GridDefinition) SpLat() float32 {
	switch g.template {
	case 1, 2, 3, 41, 43:
		return g.angle(72)
	case 30, 31:
		return g.micro(73)
	}
	return numeric.Undefined
}

// SpLon returns the longitude of the southern pole of projection.
func (g *GridDefinition) SpLon() float32 {
	switch g.template {
	case 1, 2, 3, 41, 43:
		return g.angle(76)
	case 30, 31:
		return g.micro(77)
	}
	return numeric.Undefined
}

// RotationAngle returns the angle of rotation of a rotated grid.
func (g *GridDefinition) RotationAngle() float32 {
	switch g.template {
	case 1, 2, 3, 41, 43:
		return numeric.Float4([]byte{byte(g.octet(80)), byte(g.octet(81)), byte(g.octet(82)), byte(g.octet(83))})
	}
	return numeric.Undefined
}

// PoleLat returns the latitude of the pole of stretching.
func (g *GridDefinition) PoleLat() float32 {
	switch g.template {
	case 3, 43:
		return g.angle(84)
	case 42:
		return g.angle(72)
	}
	return numeric.Undefined
}

// PoleLon returns the longitude of the pole of stretching.
func (g *GridDefinition) PoleLon() float32 {
	switch g.template {
	case 3, 43:
		return g.angle(88)
	case 42:
		return g.angle(76)
	}
	return numeric.Undefined
}

// StretchingFactor returns the stretching factor of a stretched grid.
func (g *GridDefinition) StretchingFactor() float32 {
	switch g.template {
	case 3, 43:
		return g.micro(92)
	case 42:
		return g.micro(80)
	}
	return numeric.Undefined
}

// Units returns the unit of the grid increments.
func (g *GridDefinition) Units() string {
	switch g.template {
	case 0, 1, 2, 3, 40, 41, 42, 43:
		return "degrees"
	case 10, 20, 30, 31:
		return "m"
	}
	return ""
}

func (g *GridDefinition) winds() (string, int) {
	if numeric.IsBitSet(g.Resolution(), numeric.Bit5) {
		return "Relative", 1
	}
	return "True", 0
}

func (g *GridDefinition) npProj() string {
	if g.ProjectionFlag()&128 == 0 {
		return "true"
	}
	return "false"
}

// templateFunc adds the parameters of one template family to a geometry.
type templateFunc func(g *GridDefinition, geom *catalog.Geometry)

var templates = map[int]templateFunc{
	0:     addLatLon,
	1:     addLatLon,
	2:     addLatLon,
	3:     addLatLon,
	32768: addLatLon,
	10:    addMercator,
	20:    addPolarStereographic,
	30:    addLambert,
	31:    addLambert,
	40:    addGaussian,
	41:    addGaussian,
	42:    addGaussian,
	43:    addGaussian,
	90:    addSpaceView,
	110:   addAzimuthalEquidistant,
	204:   addCurvilinear,
}

// Geometry decodes the section into a catalog geometry with the given key.
// Templates without a decoder get the generic parameters only.
func (g *GridDefinition) Geometry(key int32) *catalog.Geometry {
	geom := catalog.NewGeometry(2, g.template)
	geom.SetKey(key)
	geom.SetInt(catalog.ParamGridType, g.template)
	geom.Set(catalog.ParamGridName, GridName(g.template))

	switch t := g.template; {
	case t >= 50 && t <= 53, t == 100, t == 120, t == 1200:
	default:
		shape := g.Shape()
		geom.SetInt(catalog.ParamShapeCode, shape)
		geom.Set(catalog.ParamShape, ShapeName(shape))
		switch {
		case shape < 2 || shape == 6 || shape == 8:
			geom.SetFloat(catalog.ParamRadius, g.EarthRadius())
		case shape < 6 || shape == 7:
			geom.SetFloat(catalog.ParamMajorAxis, g.MajorAxis())
			geom.SetFloat(catalog.ParamMinorAxis, g.MinorAxis())
		}
	}
	if g.Olon() == 0 {
		geom.Set(catalog.ParamQuasi, "false")
	} else {
		geom.Set(catalog.ParamQuasi, "true")
	}

	fn, ok := templates[g.template]
	if !ok {
		glog.Warningf("Unknown Grid Type %d", g.template)
		return geom
	}
	fn(g, geom)
	return geom
}

func addCorner(g *GridDefinition, geom *catalog.Geometry) {
	winds, flag := g.winds()
	geom.SetInt(catalog.ParamNx, g.Nx())
	geom.SetInt(catalog.ParamNy, g.Ny())
	geom.SetFloat(catalog.ParamLa1, g.La1())
	geom.SetFloat(catalog.ParamLo1, g.Lo1())
	geom.SetInt(catalog.ParamResolution, g.Resolution())
	geom.Set(catalog.ParamWinds, winds)
	geom.SetInt(catalog.ParamVectorComponent, flag)
}

func addRotation(g *GridDefinition, geom *catalog.Geometry) {
	geom.SetFloat(catalog.ParamSpLat, g.SpLat())
	geom.SetFloat(catalog.ParamSpLon, g.SpLon())
	geom.SetFloat(catalog.ParamRotationAngle, g.RotationAngle())
}

func addStretching(g *GridDefinition, geom *catalog.Geometry) {
	geom.SetFloat(catalog.ParamPoleLat, g.PoleLat())
	geom.SetFloat(catalog.ParamPoleLon, g.PoleLon())
	geom.SetFloat(catalog.ParamStretching, g.StretchingFactor())
}

func addLatLon(g *GridDefinition, geom *catalog.Geometry) {
	addCorner(g, geom)
	geom.SetFloat(catalog.ParamLa2, g.La2())
	geom.SetFloat(catalog.ParamLo2, g.Lo2())
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.SetFloat(catalog.ParamDy, g.Dy())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
	switch g.template {
	case 1:
		addRotation(g, geom)
	case 2:
		addStretching(g, geom)
	case 3:
		addRotation(g, geom)
		addStretching(g, geom)
	}
}

func addMercator(g *GridDefinition, geom *catalog.Geometry) {
	addCorner(g, geom)
	geom.SetFloat(catalog.ParamLaD, g.LaD())
	geom.SetFloat(catalog.ParamLa2, g.La2())
	geom.SetFloat(catalog.ParamLo2, g.Lo2())
	geom.SetInt(catalog.ParamBasicAngle, g.Angle())
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.SetFloat(catalog.ParamDy, g.Dy())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
}

func addPolarStereographic(g *GridDefinition, geom *catalog.Geometry) {
	addCorner(g, geom)
	geom.SetFloat(catalog.ParamLaD, g.LaD())
	geom.SetFloat(catalog.ParamLoV, g.LoV())
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.SetFloat(catalog.ParamDy, g.Dy())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamProjFlag, g.ProjectionFlag())
	geom.Set(catalog.ParamNpProj, g.npProj())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
}

func addLambert(g *GridDefinition, geom *catalog.Geometry) {
	addPolarStereographic(g, geom)
	geom.SetFloat(catalog.ParamLatin1, g.Latin1())
	geom.SetFloat(catalog.ParamLatin2, g.Latin2())
	geom.SetFloat(catalog.ParamSpLat, g.SpLat())
	geom.SetFloat(catalog.ParamSpLon, g.SpLon())
}

func addGaussian(g *GridDefinition, geom *catalog.Geometry) {
	addCorner(g, geom)
	geom.SetFloat(catalog.ParamLa2, g.La2())
	geom.SetFloat(catalog.ParamLo2, g.Lo2())
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetFloat(catalog.ParamStretching, g.StretchingFactor())
	geom.SetInt(catalog.ParamNumberParallels, g.Np())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
	switch g.template {
	case 41:
		addRotation(g, geom)
	case 42:
		addStretching(g, geom)
	case 43:
		addRotation(g, geom)
		addStretching(g, geom)
	}
}

func addSpaceView(g *GridDefinition, geom *catalog.Geometry) {
	winds, flag := g.winds()
	geom.SetInt(catalog.ParamNx, g.Nx())
	geom.SetInt(catalog.ParamNy, g.Ny())
	geom.SetFloat(catalog.ParamLap, g.Lap())
	geom.SetFloat(catalog.ParamLop, g.Lop())
	geom.SetInt(catalog.ParamResolution, g.Resolution())
	geom.Set(catalog.ParamWinds, winds)
	geom.SetInt(catalog.ParamVectorComponent, flag)
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.SetFloat(catalog.ParamDy, g.Dy())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetFloat(catalog.ParamXp, g.Xp())
	geom.SetFloat(catalog.ParamYp, g.Yp())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
	geom.SetInt(catalog.ParamAngle, g.Angle())
	geom.SetFloat(catalog.ParamNr, g.Nr())
	geom.SetFloat(catalog.ParamXo, g.Xo())
	geom.SetFloat(catalog.ParamYo, g.Yo())
}

func addAzimuthalEquidistant(g *GridDefinition, geom *catalog.Geometry) {
	winds, flag := g.winds()
	geom.SetInt(catalog.ParamNx, g.Nx())
	geom.SetInt(catalog.ParamNy, g.Ny())
	geom.SetFloat(catalog.ParamLa1, g.La1())
	geom.SetFloat(catalog.ParamLo1, g.Lo1())
	geom.SetInt(catalog.ParamResolution, g.Resolution())
	geom.Set(catalog.ParamNpProj, g.npProj())
	geom.Set(catalog.ParamWinds, winds)
	geom.SetInt(catalog.ParamVectorComponent, flag)
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.SetFloat(catalog.ParamDy, g.Dy())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamProjFlag, g.ProjectionFlag())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
}

func addCurvilinear(g *GridDefinition, geom *catalog.Geometry) {
	winds, flag := g.winds()
	geom.SetInt(catalog.ParamNx, g.Nx())
	geom.SetInt(catalog.ParamNy, g.Ny())
	geom.SetInt(catalog.ParamResolution, g.Resolution())
	geom.Set(catalog.ParamWinds, winds)
	geom.SetInt(catalog.ParamVectorComponent, flag)
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
	geom.Set(catalog.ParamUnits, "degrees")
}
