package grib1

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

const gridDescriptionFixedLength = 6

// milli is the scale of edition 1 angles, kept in single precision.
const milli float32 = 0.001

// GridDefinition is a raw grid description section (section 2).
type GridDefinition struct {
	data []byte

	section2Length                   int                    // Uint3(data[0:3])
	numberOfVerticalCoordinateValues int                    // data[3]
	pvlLocation                      int                    // data[4]
	dataRepresentationType           DataRepresentationType // data[5]
}

// ParseGridDefinition wraps a section 2 block.
func ParseGridDefinition(data []byte) (*GridDefinition, error) {
	/* https://apps.ecmwf.int/codes/grib/format/grib1/sections/2/

	Octets	Key	Type	Content
	1-3	section2Length	unsigned	Length of section
	4	numberOfVerticalCoordinateValues	unsigned	NV number of vertical coordinate parameters
	5	pvlLocation	unsigned	PV location (octet number) of the list of vertical coordinate parameters, if present; or PL location (octet number) of the list of numbers of points in each row (if no vertical coordinate parameters are present), if present; or 255 (all bits set to 1) if neither are present
	6	dataRepresentationType	codetable	Data representation type (see Code table 6)
	7-32			Grid definition (according to data representation type - octet 6 above)
	33-42			Extensions of grid definition for rotation or stretching of the coordinate system or Lambert conformal projection or Mercator projection
	*/
	if len(data) < gridDescriptionFixedLength {
		return nil, fmt.Errorf("section 2 must be at least %d bytes long, got %d", gridDescriptionFixedLength, len(data))
	}
	return &GridDefinition{
		data:                             data,
		section2Length:                   numeric.Uint3(data[0:3]),
		numberOfVerticalCoordinateValues: int(data[3]),
		pvlLocation:                      int(data[4]),
		dataRepresentationType:           DataRepresentationType(data[5]),
	}, nil
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

func (g *GridDefinition) int3(i int) int {
	return numeric.Int3([]byte{byte(g.octet(i)), byte(g.octet(i + 1)), byte(g.octet(i + 2))})
}

func (g *GridDefinition) degrees(i int) float32 {
	return float32(g.int3(i)) / 1000
}

// Length returns the declared section length.
func (g *GridDefinition) Length() int { return g.section2Length }

// Template returns the data representation type (code table 6).
func (g *GridDefinition) Template() int { return int(g.dataRepresentationType) }

// Representation returns the data representation type.
func (g *GridDefinition) Representation() DataRepresentationType { return g.dataRepresentationType }

func (g *GridDefinition) in(types ...int) bool {
	for _, t := range types {
		if int(g.dataRepresentationType) == t {
			return true
		}
	}
	return false
}

// Families of data representation types sharing an octet layout.
var (
	withCorner = []int{0, 1, 3, 4, 5, 6, 10, 13, 14, 20, 24, 30, 34, 201, 202, 203, 205}
	withLast   = []int{0, 1, 4, 6, 10, 14, 20, 24, 30, 34, 201, 202, 203, 205}
	angular    = []int{0, 4, 10, 14, 20, 24, 30, 34, 201, 202, 203, 205}
	withRows   = []int{0, 1, 3, 4, 5, 6, 10, 13, 14, 20, 24, 30, 34, 90, 202, 204, 205}
)

func (g *GridDefinition) hasDimensions() bool {
	return g.in(withCorner...) || g.in(DataRepresentationTypeSV, DataRepresentationTypeCurvilinear)
}

// Nx returns the number of points along a parallel. For quasi-regular grids
// it is the longest row of the list of points per row.
func (g *GridDefinition) Nx() int {
	if !g.hasDimensions() {
		return numeric.Undefined
	}
	nx := g.int2(6)
	if nx != -1 && nx != numeric.Undefined {
		return nx
	}
	nv := g.numberOfVerticalCoordinateValues
	if g.pvlLocation != 255 && (nv == 0 || nv == 255) {
		return g.calculateNx()
	}
	return 1
}

// Ny returns the number of points along a meridian.
func (g *GridDefinition) Ny() int {
	switch {
	case g.in(withRows...):
		ny := g.int2(8)
		if ny == -1 || ny == numeric.Undefined {
			return 1
		}
		return ny
	case g.in(201, 203):
		return 1
	}
	return numeric.Undefined
}

func (g *GridDefinition) calculateNx() int {
	// Rows are counted along the meridian. A grid whose rows run along the
	// other axis has no way to size itself.
	if g.ScanMode()&32 != 0 {
		return numeric.Undefined
	}
	rows := g.Ny()
	offset := g.pvlLocation - 1
	maxPts := 0
	for i := 0; i < rows && offset+1 < len(g.data); i++ {
		maxPts = max(maxPts, g.int2(offset))
		offset += 2
	}
	return maxPts
}

// IsThin reports whether the grid carries a list of points per row.
func (g *GridDefinition) IsThin() bool {
	nv := g.numberOfVerticalCoordinateValues
	return g.pvlLocation != 255 && (nv == 0 || nv == 255)
}

// La1 returns the latitude of the first grid point.
func (g *GridDefinition) La1() float32 {
	if g.in(withCorner...) {
		return g.degrees(10)
	}
	return numeric.Undefined
}

// Lo1 returns the longitude of the first grid point.
func (g *GridDefinition) Lo1() float32 {
	if g.in(withCorner...) {
		return g.degrees(13)
	}
	return numeric.Undefined
}

// keyCorner returns La1 and Lo1 as index producers compute them for the
// geometry key: multiplied by a single precision thousandth.
func (g *GridDefinition) keyCorner() (float32, float32) {
	if g.in(withCorner...) {
		return float32(g.int3(10)) * milli, float32(g.int3(13)) * milli
	}
	return numeric.Undefined, numeric.Undefined
}

// Key returns the geometry key index producers assign to this section.
func (g *GridDefinition) Key() int32 {
	la1, lo1 := g.keyCorner()
	return catalog.GeometryKey(g.Template(), la1, lo1)
}

// Lap returns the latitude of the sub-satellite point.
func (g *GridDefinition) Lap() float32 {
	if g.in(DataRepresentationTypeSV) {
		return float32(g.int3(10))
	}
	return numeric.Undefined
}

// Lop returns the longitude of the sub-satellite point.
func (g *GridDefinition) Lop() float32 {
	if g.in(DataRepresentationTypeSV) {
		return float32(g.int3(13))
	}
	return numeric.Undefined
}

// Resolution returns the resolution and component flags (code table 7).
func (g *GridDefinition) Resolution() int {
	if g.hasDimensions() {
		return g.octet(16)
	}
	return numeric.Undefined
}

// LoV returns the orientation of the grid.
func (g *GridDefinition) LoV() float32 {
	if g.in(3, 5, 13) {
		return g.degrees(17)
	}
	return numeric.Undefined
}

// La2 returns the latitude of the last grid point.
func (g *GridDefinition) La2() float32 {
	if g.in(withLast...) {
		return g.degrees(17)
	}
	return numeric.Undefined
}

// Lo2 returns the longitude of the last grid point.
func (g *GridDefinition) Lo2() float32 {
	if g.in(withLast...) {
		return g.degrees(20)
	}
	return numeric.Undefined
}

func (g *GridDefinition) metres(i int) float32 {
	v := g.int3(i)
	if v == -8388607 || v == numeric.Undefined {
		return numeric.Undefined
	}
	return float32(v)
}

// Dx returns the x direction increment: degrees on angular grids, metres on
// projected ones.
func (g *GridDefinition) Dx() float32 {
	switch {
	case g.in(angular...):
		dx := g.int2(23)
		if dx == -1 || dx == numeric.Undefined {
			return g.calculateDx()
		}
		return float32(dx) / 1000
	case g.in(DataRepresentationTypeSV):
		return g.metres(17)
	case g.in(3, 5, 13):
		return g.metres(20)
	case g.in(1, 6):
		return g.metres(28)
	}
	return numeric.Undefined
}

func (g *GridDefinition) calculateDx() float32 {
	lo1, lo2 := g.Lo1(), g.Lo2()
	if lo2 < lo1 {
		lo2 += 360
	}
	return (lo2 - lo1) / float32(g.Nx()-1)
}

// Dy returns the y direction increment.
func (g *GridDefinition) Dy() float32 {
	switch {
	case g.in(0, 10, 20, 24, 30, 34, 201, 202, 203, 205):
		dy := g.int2(25)
		if dy == -1 || dy == numeric.Undefined {
			return numeric.Undefined
		}
		return float32(dy) / 1000
	case g.in(4, 14):
		return float32(g.int2(25))
	case g.in(DataRepresentationTypeSV):
		return g.metres(20)
	case g.in(3, 5, 13):
		return g.metres(23)
	case g.in(1, 6):
		return g.metres(31)
	}
	return numeric.Undefined
}

// Xp returns the x coordinate of the sub-satellite point.
func (g *GridDefinition) Xp() float32 {
	if g.in(DataRepresentationTypeSV) {
		return float32(g.int2(23))
	}
	return numeric.Undefined
}

// Yp returns the y coordinate of the sub-satellite point.
func (g *GridDefinition) Yp() float32 {
	if g.in(DataRepresentationTypeSV) {
		return float32(g.int2(25))
	}
	return numeric.Undefined
}

// ProjectionFlag returns the projection centre flag.
func (g *GridDefinition) ProjectionFlag() int {
	if g.in(3, 5, 13) {
		return g.octet(26)
	}
	return numeric.Undefined
}

// ScanMode returns the scanning mode (flag table 8). Only the three defined
// bits are kept.
func (g *GridDefinition) ScanMode() int {
	if g.hasDimensions() {
		return g.octet(27) & 224
	}
	return numeric.Undefined
}

// Angle returns the orientation of a space view grid.
func (g *GridDefinition) Angle() int {
	if g.in(DataRepresentationTypeSV) {
		return g.int3(28)
	}
	return numeric.Undefined
}

// Nr returns the altitude of the camera.
func (g *GridDefinition) Nr() float32 {
	if g.in(DataRepresentationTypeSV) {
		return float32(g.int3(31))
	}
	return numeric.Undefined
}

// Latin1 returns the first latitude at which the projection cuts the earth.
func (g *GridDefinition) Latin1() float32 {
	switch {
	case g.in(1, 6):
		return g.degrees(23)
	case g.in(3, 13):
		return g.degrees(28)
	}
	return numeric.Undefined
}

// Latin2 returns the second latitude of a secant cone.
func (g *GridDefinition) Latin2() float32 {
	if g.in(3, 13) {
		return g.degrees(31)
	}
	return numeric.Undefined
}

// SpLat returns the latitude of the southern pole of projection.
func (g *GridDefinition) SpLat() float32 {
	switch {
	case g.in(3, 13):
		return g.degrees(34)
	case g.in(DataRepresentationTypeRotatedLL):
		return g.degrees(32)
	}
	return numeric.Undefined
}

// SpLon returns the longitude of the southern pole of projection.
func (g *GridDefinition) SpLon() float32 {
	switch {
	case g.in(3, 13):
		return g.degrees(37)
	case g.in(DataRepresentationTypeRotatedLL):
		return g.degrees(35)
	}
	return numeric.Undefined
}

// RotationAngle returns the angle of rotation of a rotated grid.
func (g *GridDefinition) RotationAngle() float32 {
	if g.in(DataRepresentationTypeRotatedLL) {
		return numeric.Float4([]byte{byte(g.octet(38)), byte(g.octet(39)), byte(g.octet(40)), byte(g.octet(41))})
	}
	return numeric.Undefined
}

// Np returns the number of parallels between a pole and the equator of a
// Gaussian grid.
func (g *GridDefinition) Np() int {
	if g.in(4, 14, 24, 34) {
		np := g.int2(25)
		if np == -1 {
			return numeric.Undefined
		}
		return np
	}
	return numeric.Undefined
}

// Units returns the unit of the grid increments.
func (g *GridDefinition) Units() string {
	switch {
	case g.in(angular...):
		return "degrees"
	case g.in(1, 3, 5, 6, 13):
		return "m"
	}
	return ""
}

// Shape returns 1 for an oblate spheroid earth and 0 for a sphere.
func (g *GridDefinition) Shape() int {
	switch g.Resolution() >> 6 {
	case 1, 3:
		return 1
	}
	return 0
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

// templateFunc adds the parameters of one data representation type to a
// geometry.
type templateFunc func(g *GridDefinition, geom *catalog.Geometry)

var templates = map[int]templateFunc{
	0:   addLatLon,
	10:  addLatLon,
	20:  addLatLon,
	30:  addLatLon,
	201: addLatLon,
	202: addLatLon,
	203: addLatLon,
	205: addLatLon,
	1:   addMercator,
	6:   addMercator,
	5:   addPolarStereographic,
	3:   addLambert,
	13:  addLambert,
	4:   addGaussian,
	14:  addGaussian,
	24:  addGaussian,
	34:  addGaussian,
	90:  addSpaceView,
	204: addCurvilinear,
}

// Geometry decodes the section into a catalog geometry with the given key.
// Types without a decoder get the generic parameters only.
func (g *GridDefinition) Geometry(key int32) *catalog.Geometry {
	t := g.Template()
	geom := catalog.NewGeometry(1, t)
	geom.SetKey(key)
	geom.SetInt(catalog.ParamGridType, t)
	geom.Set(catalog.ParamGridName, GridName(t))

	switch {
	case t >= 50 && t <= 53, t == 100, t == 120, t == 1200:
	default:
		addShape(geom, g.Shape())
	}

	fn, ok := templates[t]
	if !ok {
		glog.Warningf("Unknown Grid Type %d", t)
		return geom
	}
	fn(g, geom)
	return geom
}

func addShape(geom *catalog.Geometry, shape int) {
	geom.SetInt(catalog.ParamShapeCode, shape)
	geom.Set(catalog.ParamShape, ShapeName(shape))
	if shape == 0 {
		geom.SetFloat(catalog.ParamRadius, earthRadius)
	} else {
		geom.SetFloat(catalog.ParamMajorAxis, earthMajorAxis)
		geom.SetFloat(catalog.ParamMinorAxis, earthMinorAxis)
	}
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

// Edition 1 carries no stretching; the parameters are written undefined.
func addStretching(geom *catalog.Geometry) {
	geom.SetFloat(catalog.ParamPoleLat, numeric.Undefined)
	geom.SetFloat(catalog.ParamPoleLon, numeric.Undefined)
	geom.SetFloat(catalog.ParamStretching, numeric.Undefined)
}

func addLatLon(g *GridDefinition, geom *catalog.Geometry) {
	addCorner(g, geom)
	geom.SetFloat(catalog.ParamLa2, g.La2())
	geom.SetFloat(catalog.ParamLo2, g.Lo2())
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.SetFloat(catalog.ParamDy, g.Dy())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
	switch g.Template() {
	case DataRepresentationTypeRotatedLL:
		addRotation(g, geom)
	case DataRepresentationTypeStretchedLL:
		addStretching(geom)
	case DataRepresentationTypeStretchedRotatedLL:
		addRotation(g, geom)
		addStretching(geom)
	}
}

func addMercator(g *GridDefinition, geom *catalog.Geometry) {
	addCorner(g, geom)
	geom.SetFloat(catalog.ParamLa2, g.La2())
	geom.SetFloat(catalog.ParamLo2, g.Lo2())
	geom.SetFloat(catalog.ParamLatin, g.Latin1())
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.SetFloat(catalog.ParamDy, g.Dy())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
}

func addPolarStereographic(g *GridDefinition, geom *catalog.Geometry) {
	addCorner(g, geom)
	geom.SetFloat(catalog.ParamLoV, g.LoV())
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.SetFloat(catalog.ParamDy, g.Dy())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamProjFlag, g.ProjectionFlag())
	geom.Set(catalog.ParamNpProj, g.npProj())
	if g.Template() == DataRepresentationTypePS {
		geom.SetInt(catalog.ParamScanMode, g.ScanMode())
	}
}

func addLambert(g *GridDefinition, geom *catalog.Geometry) {
	addPolarStereographic(g, geom)
	geom.SetFloat(catalog.ParamLatin1, g.Latin1())
	geom.SetFloat(catalog.ParamLatin2, g.Latin2())
	geom.SetFloat(catalog.ParamSpLat, g.SpLat())
	geom.SetFloat(catalog.ParamSpLon, g.SpLon())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
}

func addGaussian(g *GridDefinition, geom *catalog.Geometry) {
	addCorner(g, geom)
	geom.SetFloat(catalog.ParamLa2, g.La2())
	geom.SetFloat(catalog.ParamLo2, g.Lo2())
	geom.SetFloat(catalog.ParamDx, g.Dx())
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamNumberParallels, g.Np())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
	switch g.Template() {
	case DataRepresentationTypeRotatedGG:
		addRotation(g, geom)
	case DataRepresentationTypeStretchedGG:
		addStretching(geom)
	case DataRepresentationTypeStretchedRotatedGG:
		addRotation(g, geom)
		addStretching(geom)
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
	geom.SetInt(catalog.ParamAngle, g.Angle())
	geom.SetFloat(catalog.ParamNr, g.Nr())
	geom.SetFloat(catalog.ParamXo, numeric.Undefined)
	geom.SetFloat(catalog.ParamYo, numeric.Undefined)
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
}

func addCurvilinear(g *GridDefinition, geom *catalog.Geometry) {
	winds, flag := g.winds()
	geom.SetInt(catalog.ParamNx, g.Nx())
	geom.SetInt(catalog.ParamNy, g.Ny())
	geom.SetInt(catalog.ParamResolution, g.Resolution())
	geom.Set(catalog.ParamWinds, winds)
	geom.SetInt(catalog.ParamVectorComponent, flag)
	geom.Set(catalog.ParamUnits, g.Units())
	geom.SetInt(catalog.ParamScanMode, g.ScanMode())
}
