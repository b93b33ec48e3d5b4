package grib1

import (
	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

// Keys of geometries that name a WMO predefined grid instead of carrying a
// section 2 are offset by this value from the grid number.
const predefinedKeyOffset = 1000

// predefinedGrid is a regular latitude/longitude grid from the WMO catalogue.
type predefinedGrid struct {
	nx, ny             int
	dx, dy             float32
	la1, lo1, la2, lo2 float32
}

var predefinedGrids = map[int]predefinedGrid{
	21: {37, 36, 5, 2.5, 0, 0, 90, 180},
	22: {37, 36, 5, 2.5, 0, -180, 90, 0},
	23: {37, 36, 5, 2.5, -90, 0, 0, 180},
	24: {37, 36, 5, 2.5, -90, -180, 0, 0},
	25: {72, 18, 5, 5, 0, 0, 0, 355},
	26: {72, 18, 5, 5, -90, 0, 0, 355},
	61: {91, 45, 2, 2, 0, 0, 90, 180},
	62: {91, 45, 2, 2, 0, -180, 90, 0},
	63: {91, 45, 2, 2, -90, 0, 0, 180},
	64: {91, 45, 2, 2, -90, -180, 0, 0},
}

const (
	// resolution flags of the catalogued grids: increments given, winds
	// relative to the grid.
	predefinedResolution = 0x88
	gridNCEP87           = 87
)

// PredefinedGeometry returns the geometry of a catalogued grid whose key is
// the grid number offset by 1000. Unknown grids yield a geometry with the key
// and earth shape only; ok is false for them.
func PredefinedGeometry(key int32) (geom *catalog.Geometry, ok bool) {
	id := int(key) - predefinedKeyOffset
	if grid, found := predefinedGrids[id]; found {
		geom = catalog.NewGeometry(1, DataRepresentationTypeLL)
		geom.SetKey(key)
		geom.SetInt(catalog.ParamGridType, DataRepresentationTypeLL)
		geom.Set(catalog.ParamGridName, GridName(DataRepresentationTypeLL))
		geom.SetInt(catalog.ParamNx, grid.nx)
		geom.SetInt(catalog.ParamNy, grid.ny)
		geom.SetInt(catalog.ParamResolution, predefinedResolution)
		geom.SetFloat(catalog.ParamDx, grid.dx)
		geom.SetFloat(catalog.ParamDy, grid.dy)
		geom.Set(catalog.ParamUnits, "degrees")
		geom.SetFloat(catalog.ParamLa1, grid.la1)
		geom.SetFloat(catalog.ParamLo1, grid.lo1)
		geom.SetFloat(catalog.ParamLa2, grid.la2)
		geom.SetFloat(catalog.ParamLo2, grid.lo2)
		addPredefinedEarth(geom, predefinedResolution)
		return geom, true
	}
	if id == gridNCEP87 {
		geom = catalog.NewGeometry(1, DataRepresentationTypePS)
		geom.SetKey(key)
		geom.SetInt(catalog.ParamGridType, DataRepresentationTypePS)
		geom.Set(catalog.ParamGridName, GridName(DataRepresentationTypePS))
		geom.SetInt(catalog.ParamNx, 81)
		geom.SetInt(catalog.ParamNy, 62)
		geom.SetFloat(catalog.ParamLa1, 22.8756)
		geom.SetFloat(catalog.ParamLo1, 239.5089)
		geom.SetInt(catalog.ParamResolution, 0x08)
		geom.SetFloat(catalog.ParamLoV, 255.0)
		geom.SetFloat(catalog.ParamLa2, 0.0)
		geom.SetFloat(catalog.ParamDx, 68153.0)
		geom.SetFloat(catalog.ParamDy, 68153.0)
		geom.Set(catalog.ParamUnits, "m")
		addPredefinedEarth(geom, 0x08)
		return geom, true
	}

	glog.Errorf("grid %d is not a known catalogued grid", id)
	geom = catalog.NewGeometry(1, numeric.Undefined)
	geom.SetKey(key)
	addPredefinedEarth(geom, 0)
	return geom, false
}

func addPredefinedEarth(geom *catalog.Geometry, resolution int) {
	if numeric.IsBitSet(resolution, numeric.Bit5) {
		geom.Set(catalog.ParamWinds, "Relative")
	} else {
		geom.Set(catalog.ParamWinds, "True")
	}
	shape := 0
	switch resolution >> 6 {
	case 1, 3:
		shape = 1
	}
	addShape(geom, shape)
}
