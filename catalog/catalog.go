package catalog

import (
	"slices"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

// Well known global attributes.
const (
	AttrBaseTime     = "basetime"
	AttrEdition      = "grid_edition"
	AttrIndexVersion = "index_version"
	AttrCenter       = "center"
	AttrSubCenter    = "sub_center"
	AttrTable        = "table_version"
	AttrLocation     = "location"
)

// Attribute is a global name/value pair of an index file.
type Attribute struct {
	Name  string
	Value string
}

// Catalog is the decoded contents of one index file. It is not modified after
// Builder.Build returns it.
type Catalog struct {
	ID       uuid.UUID
	Location string
	Records  []Record

	attrNames  []string
	attrs      map[string]string
	geometries map[int32]*Geometry
	order      []int32
}

// Attribute returns a global attribute.
func (c *Catalog) Attribute(name string) (string, bool) {
	v, ok := c.attrs[name]
	return v, ok
}

// Attributes returns the global attributes in file order.
func (c *Catalog) Attributes() []Attribute {
	out := make([]Attribute, 0, len(c.attrNames))
	for _, n := range c.attrNames {
		out = append(out, Attribute{n, c.attrs[n]})
	}
	return out
}

// Geometry returns the geometry with the given key.
func (c *Catalog) Geometry(key int32) (*Geometry, bool) {
	g, ok := c.geometries[key]
	return g, ok
}

// GeometryKeys returns the geometry keys in ascending order.
func (c *Catalog) GeometryKeys() []int32 {
	keys := maps.Keys(c.geometries)
	slices.Sort(keys)
	return keys
}

// Geometries returns the geometries in the order they were read.
func (c *Catalog) Geometries() []*Geometry {
	out := make([]*Geometry, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.geometries[k])
	}
	return out
}

// RecordCount returns the number of records.
func (c *Catalog) RecordCount() int { return len(c.Records) }

// Empty reports whether the catalog has neither records nor geometries.
func (c *Catalog) Empty() bool {
	return len(c.Records) == 0 && len(c.geometries) == 0
}

// Edition returns the GRIB edition of the indexed messages.
func (c *Catalog) Edition() int {
	if c.attrs[AttrEdition] == "1" {
		return 1
	}
	return 2
}

// IndexVersion returns the declared index format version.
func (c *Catalog) IndexVersion() string {
	return c.attrs[AttrIndexVersion]
}

// Builder accumulates the contents of a catalog during a single read.
type Builder struct {
	c *Catalog
}

// NewBuilder returns a builder for the index at location.
func NewBuilder(location string) *Builder {
	return &Builder{c: &Catalog{
		Location:   location,
		attrs:      map[string]string{},
		geometries: map[int32]*Geometry{},
	}}
}

// AddAttribute records a global attribute. Later values replace earlier ones.
func (b *Builder) AddAttribute(name, value string) {
	if _, ok := b.c.attrs[name]; !ok {
		b.c.attrNames = append(b.c.attrNames, name)
	}
	b.c.attrs[name] = value
}

// Attribute returns an attribute added so far.
func (b *Builder) Attribute(name string) (string, bool) {
	return b.c.Attribute(name)
}

// AddRecord appends a record.
func (b *Builder) AddRecord(r Record) {
	b.c.Records = append(b.c.Records, r)
}

// AddGeometry adds a geometry. The first geometry seen for a key wins, so
// records sharing a key always resolve to the same value.
func (b *Builder) AddGeometry(g *Geometry) {
	if prev, ok := b.c.geometries[g.Key]; ok {
		if !prev.Equal(g) {
			glog.Warningf("geometry %d defined twice with different parameters; keeping the first", g.Key)
		}
		return
	}
	b.c.geometries[g.Key] = g
	b.c.order = append(b.c.order, g.Key)
}

// RecordCount returns the number of records added so far.
func (b *Builder) RecordCount() int { return len(b.c.Records) }

// Build assigns the catalog an identifier and returns it. The builder must not
// be used afterwards.
func (b *Builder) Build() *Catalog {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	b.c.ID = id
	c := b.c
	b.c = nil
	return c
}
