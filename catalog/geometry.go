package catalog

import (
	"strconv"

	"github.com/sdifrance/gribindex/numeric"
)

// Names of geometry parameters as written by index producers.
const (
	ParamKey             = "GDSkey"
	ParamGridType        = "grid_type"
	ParamGridName        = "grid_name"
	ParamShapeCode       = "grid_shape_code"
	ParamShape           = "grid_shape"
	ParamRadius          = "grid_radius_spherical_earth"
	ParamMajorAxis       = "grid_major_axis_earth"
	ParamMinorAxis       = "grid_minor_axis_earth"
	ParamQuasi           = "Quasi"
	ParamNx              = "Nx"
	ParamNy              = "Ny"
	ParamLa1             = "La1"
	ParamLo1             = "Lo1"
	ParamLa2             = "La2"
	ParamLo2             = "Lo2"
	ParamLaD             = "LaD"
	ParamLoV             = "LoV"
	ParamDx              = "Dx"
	ParamDy              = "Dy"
	ParamLatin           = "Latin"
	ParamLatin1          = "Latin1"
	ParamLatin2          = "Latin2"
	ParamSpLat           = "SpLat"
	ParamSpLon           = "SpLon"
	ParamRotationAngle   = "RotationAngle"
	ParamPoleLat         = "PoleLat"
	ParamPoleLon         = "PoleLon"
	ParamStretching      = "StretchingFactor"
	ParamNumberParallels = "NumberParallels"
	ParamResolution      = "ResCompFlag"
	ParamWinds           = "Winds"
	ParamVectorComponent = "VectorComponentFlag"
	ParamUnits           = "grid_units"
	ParamScanMode        = "ScanningMode"
	ParamProjFlag        = "ProjFlag"
	ParamNpProj          = "NpProj"
	ParamLap             = "Lap"
	ParamLop             = "Lop"
	ParamXp              = "Xp"
	ParamYp              = "Yp"
	ParamAngle           = "Angle"
	ParamNr              = "Nr"
	ParamXo              = "Xo"
	ParamYo              = "Yo"
	ParamBasicAngle      = "BasicAngle"
)

// GeometryKey returns the key index producers derive from a grid's template
// number and first grid point. The sum is carried in double precision and
// hashed through its decimal rendering.
func GeometryKey(template int, la1, lo1 float32) int32 {
	sum := float64(template)
	sum = 7*sum + float64(la1)
	sum = 7*sum + float64(lo1)
	return numeric.JavaStringHash(numeric.FormatJavaDouble(sum))
}

// Geometry is a grid definition: the projection template it was decoded from
// and its parameters, kept in the order they were added.
type Geometry struct {
	Key      int32
	Edition  int
	Template int

	names  []string
	params map[string]string
}

// NewGeometry returns an empty geometry for a template of the given edition.
func NewGeometry(edition, template int) *Geometry {
	return &Geometry{
		Edition:  edition,
		Template: template,
		params:   map[string]string{},
	}
}

// Set stores a parameter. Setting ParamKey also sets Key when the value is a
// valid 32 bit integer.
func (g *Geometry) Set(name, value string) {
	if _, ok := g.params[name]; !ok {
		g.names = append(g.names, name)
	}
	g.params[name] = value
	if name == ParamKey {
		if k, err := strconv.ParseInt(value, 10, 32); err == nil {
			g.Key = int32(k)
		}
	}
}

// SetInt stores an integer parameter.
func (g *Geometry) SetInt(name string, v int) {
	g.Set(name, strconv.Itoa(v))
}

// SetFloat stores a floating point parameter rendered like the index
// producers render it.
func (g *Geometry) SetFloat(name string, v float32) {
	g.Set(name, numeric.FormatJavaFloat(v))
}

// SetKey sets the geometry key and its ParamKey parameter.
func (g *Geometry) SetKey(key int32) {
	g.Set(ParamKey, strconv.Itoa(int(key)))
}

// Param returns a parameter's raw value.
func (g *Geometry) Param(name string) (string, bool) {
	v, ok := g.params[name]
	return v, ok
}

// Int returns a parameter parsed as an integer.
func (g *Geometry) Int(name string) (int, bool) {
	v, ok := g.params[name]
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, false
		}
		return int(f), true
	}
	return i, true
}

// Float returns a parameter parsed as a float.
func (g *Geometry) Float(name string) (float64, bool) {
	v, ok := g.params[name]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Names returns the parameter names in insertion order.
func (g *Geometry) Names() []string {
	return append([]string(nil), g.names...)
}

// Len returns the number of parameters.
func (g *Geometry) Len() int { return len(g.names) }

// Equal reports whether two geometries have the same key and parameters.
// Numeric parameters only need to be close.
func (g *Geometry) Equal(o *Geometry) bool {
	if g.Key != o.Key || len(g.params) != len(o.params) {
		return false
	}
	for k, v := range g.params {
		ov, ok := o.params[k]
		if !ok {
			return false
		}
		if ov != v && !closeNumbers(v, ov) {
			return false
		}
	}
	return true
}

func closeNumbers(a, b string) bool {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return false
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return false
	}
	return numeric.CloseEnough(x, y)
}
