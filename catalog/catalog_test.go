package catalog

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func testGeometry(key int32, nx int) *Geometry {
	g := NewGeometry(2, 0)
	g.SetKey(key)
	g.SetInt(ParamGridType, 0)
	g.Set(ParamGridName, "Latitude_Longitude")
	g.SetInt(ParamNx, nx)
	g.SetFloat(ParamLa1, 90)
	return g
}

func TestBuilder(t *testing.T) {
	b := NewBuilder("gfs.grib2.gbx8")
	b.AddAttribute(AttrIndexVersion, "8.0")
	b.AddAttribute(AttrEdition, "2")
	b.AddAttribute(AttrIndexVersion, "8.1")
	b.AddRecord(Record{GdsKey: 20})
	b.AddRecord(Record{GdsKey: 10})
	b.AddGeometry(testGeometry(20, 360))
	b.AddGeometry(testGeometry(10, 720))
	b.AddGeometry(testGeometry(20, 1))

	if got := b.RecordCount(); got != 2 {
		t.Errorf("RecordCount() = %d, want 2", got)
	}
	c := b.Build()

	if c.ID == uuid.Nil {
		t.Errorf("catalog has no id")
	}
	if got, want := c.Attributes(), []Attribute{{AttrIndexVersion, "8.1"}, {AttrEdition, "2"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Attributes() = %v, want %v", got, want)
	}
	if got := c.IndexVersion(); got != "8.1" {
		t.Errorf("IndexVersion() = %q, want 8.1", got)
	}
	if got := c.Edition(); got != 2 {
		t.Errorf("Edition() = %d, want 2", got)
	}
	if got, want := c.GeometryKeys(), []int32{10, 20}; !reflect.DeepEqual(got, want) {
		t.Errorf("GeometryKeys() = %v, want %v", got, want)
	}
	if got := c.Geometries(); len(got) != 2 || got[0].Key != 20 {
		t.Errorf("Geometries() not in read order: %v", got)
	}
	g, ok := c.Geometry(20)
	if !ok {
		t.Fatalf("Geometry(20) missing")
	}
	if nx, _ := g.Int(ParamNx); nx != 360 {
		t.Errorf("duplicate key replaced the first geometry: Nx = %d", nx)
	}
	for _, r := range c.Records {
		if _, ok := c.Geometry(r.GdsKey); !ok {
			t.Errorf("record key %d does not resolve", r.GdsKey)
		}
	}
}

func TestGeometry(t *testing.T) {
	g := testGeometry(-42, 360)
	g.Set(ParamNx, "361")

	if got, want := g.Names(), []string{ParamKey, ParamGridType, ParamGridName, ParamNx, ParamLa1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if g.Key != -42 {
		t.Errorf("Key = %d, want -42", g.Key)
	}
	if v, _ := g.Param(ParamLa1); v != "90.0" {
		t.Errorf("La1 = %q, want 90.0", v)
	}
	if f, ok := g.Float(ParamLa1); !ok || f != 90 {
		t.Errorf("Float(La1) = %v, %v", f, ok)
	}
	if i, ok := g.Int(ParamLa1); !ok || i != 90 {
		t.Errorf("Int(La1) = %v, %v", i, ok)
	}
	if _, ok := g.Int(ParamGridName); ok {
		t.Errorf("Int(grid_name) parsed a name")
	}
	if !g.Equal(testGeometry(-42, 361)) {
		t.Errorf("Equal() = false for identical parameters")
	}
	if g.Equal(testGeometry(-42, 360)) {
		t.Errorf("Equal() = true for different Nx")
	}
	rounded := testGeometry(-42, 361)
	rounded.Set(ParamLa1, "90.000001")
	if !g.Equal(rounded) {
		t.Errorf("Equal() = false for La1 differing by rounding")
	}
}
