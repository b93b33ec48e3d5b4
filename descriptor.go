package gribindex

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/grib1"
	"github.com/sdifrance/gribindex/grib2"
	"github.com/sdifrance/gribindex/numeric"
)

// predefinedGridLength is the size of a geometry entry that holds only the key
// of a catalogued edition 1 grid.
const predefinedGridLength = 4

// Descriptor is the product definition section of a cataloged message, in
// whichever edition it was written.
type Descriptor struct {
	Edition  int
	Edition1 *grib1.ProductDefinition
	Edition2 *grib2.ProductDefinition
}

// DecodeDescriptor decodes a raw product definition section.
func DecodeDescriptor(edition int, data []byte) (*Descriptor, error) {
	switch edition {
	case 1:
		p, err := grib1.ParseProductDefinition(data)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Edition: 1, Edition1: p}, nil
	case 2:
		p, err := grib2.ParseProductDefinition(data)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Edition: 2, Edition2: p}, nil
	}
	return nil, fmt.Errorf("unsupported GRIB edition %d", edition)
}

// Fields returns the edition independent fields of the section.
func (d *Descriptor) Fields() catalog.Fields {
	if d.Edition == 1 {
		return d.Edition1.Fields()
	}
	return d.Edition2.Fields()
}

// DecodeGeometry decodes one geometry entry of an index file. For versions
// that store geometries as text, data is one text line. Otherwise it is a raw
// grid definition section, or a bare 4 byte key naming a catalogued edition 1
// grid.
func DecodeGeometry(edition int, version FormatVersion, data []byte) (*catalog.Geometry, error) {
	if version.TextGeometries() {
		return parseTextGeometry(edition, string(data))
	}
	if len(data) == predefinedGridLength {
		key := int32(binary.BigEndian.Uint32(data))
		geom, _ := grib1.PredefinedGeometry(key)
		return geom, nil
	}
	switch edition {
	case 1:
		g, err := grib1.ParseGridDefinition(data)
		if err != nil {
			return nil, err
		}
		return g.Geometry(g.Key()), nil
	case 2:
		g, err := grib2.ParseGridDefinition(data)
		if err != nil {
			return nil, err
		}
		return g.Geometry(g.Key()), nil
	}
	return nil, fmt.Errorf("unsupported GRIB edition %d", edition)
}

// parseTextGeometry reads a line of alternating parameter names and values.
// Fields are tab separated; lines without tabs are split on white space.
func parseTextGeometry(edition int, line string) (*catalog.Geometry, error) {
	var fields []string
	if strings.Contains(line, "\t") {
		fields = strings.Split(strings.TrimRight(line, "\t\r\n"), "\t")
	} else {
		fields = strings.Fields(line)
	}
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, errors.Errorf("geometry line has %d fields, want name/value pairs", len(fields))
	}

	template := numeric.Undefined
	for i := 0; i < len(fields); i += 2 {
		if fields[i] == catalog.ParamGridType {
			if t, err := strconv.Atoi(fields[i+1]); err == nil {
				template = t
			}
		}
	}
	geom := catalog.NewGeometry(edition, template)
	for i := 0; i < len(fields); i += 2 {
		geom.Set(fields[i], fields[i+1])
	}
	if _, ok := geom.Param(catalog.ParamKey); !ok {
		return nil, errors.Errorf("geometry line has no %s", catalog.ParamKey)
	}
	glog.V(2).Infof("text geometry %d: %d parameters", geom.Key, geom.Len())
	return geom, nil
}
