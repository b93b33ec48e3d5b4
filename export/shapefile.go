package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/jonas-p/go-shp"
	"github.com/sdifrance/gribindex/catalog"
)

// Footprint is the bounding box of a grid in degrees.
type Footprint struct {
	Key      int32
	Template int
	Name     string
	MinLat   float64
	MinLon   float64
	MaxLat   float64
	MaxLon   float64
}

// FootprintOf returns the footprint of a geometry whose first and last grid
// points are given in degrees. Projected grids report false.
func FootprintOf(g *catalog.Geometry) (Footprint, bool) {
	var corners [4]float64
	for i, name := range []string{catalog.ParamLa1, catalog.ParamLo1, catalog.ParamLa2, catalog.ParamLo2} {
		v, ok := g.Float(name)
		if !ok {
			return Footprint{}, false
		}
		corners[i] = v
	}
	la1, lo1, la2, lo2 := corners[0], corners[1], corners[2], corners[3]
	// Grids crossing the antimeridian store Lo2 below Lo1.
	if lo2 < lo1 {
		lo2 += 360
	}
	name, _ := g.Param(catalog.ParamGridName)
	return Footprint{
		Key:      g.Key,
		Template: g.Template,
		Name:     name,
		MinLat:   min(la1, la2),
		MaxLat:   max(la1, la2),
		MinLon:   lo1,
		MaxLon:   lo2,
	}, true
}

// Polygon returns the footprint as a closed clockwise ring.
func (f Footprint) Polygon() *shp.Polygon {
	ring := []shp.Point{
		{X: f.MinLon, Y: f.MinLat},
		{X: f.MinLon, Y: f.MaxLat},
		{X: f.MaxLon, Y: f.MaxLat},
		{X: f.MaxLon, Y: f.MinLat},
		{X: f.MinLon, Y: f.MinLat},
	}
	p := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
	return &p
}

// WriteFootprints writes one polygon per unprojected geometry of cat to the
// shapefile at path, replacing it. It returns the number of shapes written.
func WriteFootprints(path string, cat *catalog.Catalog) (int, error) {
	base := strings.TrimSuffix(path, ".shp")
	for _, ext := range []string{".shp", ".dbf", ".shx"} {
		os.Remove(base + ext)
	}

	w, err := shp.Create(base+".shp", shp.POLYGON)
	if err != nil {
		return 0, fmt.Errorf("creating shapefile: %w", err)
	}
	n, err := writeShapes(w, cat)
	w.Close()
	if err != nil {
		return n, err
	}
	// The writer names the attribute table <base>dbf.
	if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
		return n, fmt.Errorf("renaming attribute table: %w", err)
	}
	return n, nil
}

func writeShapes(w *shp.Writer, cat *catalog.Catalog) (int, error) {
	fields := []shp.Field{
		shp.NumberField("gds_key", 11),
		shp.NumberField("template", 5),
		shp.StringField("name", 64),
	}
	if err := w.SetFields(fields); err != nil {
		return 0, fmt.Errorf("setting fields: %w", err)
	}

	n := 0
	for _, g := range cat.Geometries() {
		f, ok := FootprintOf(g)
		if !ok {
			glog.V(1).Infof("%s: geometry %d (template %d) has no lat/lon corners; skipped",
				cat.Location, g.Key, g.Template)
			continue
		}
		row := int(w.Write(f.Polygon()))
		// The writer leaves the unused part of a field NUL filled; dBase
		// readers expect blanks.
		values := []string{
			fmt.Sprintf("%*d", int(fields[0].Size), f.Key),
			fmt.Sprintf("%*d", int(fields[1].Size), f.Template),
			fmt.Sprintf("%-*s", int(fields[2].Size), truncate(f.Name, int(fields[2].Size))),
		}
		for field, value := range values {
			if err := w.WriteAttribute(row, field, value); err != nil {
				return n, fmt.Errorf("writing attributes of geometry %d: %w", f.Key, err)
			}
		}
		n++
	}
	return n, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
