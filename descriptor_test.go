package gribindex

import (
	"testing"

	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/grib2"
)

func TestDecodeDescriptor(t *testing.T) {
	tests := []struct {
		name     string
		edition  int
		data     []byte
		template int
		param    int
		category int
	}{
		{"edition 1", 1, grib1PDS(6), 0, 11, -1},
		{"edition 2", 2, temperature500(6), 0, 0, 0},
		{"edition 2 accumulation", 2, precipitation(0, 6), 8, 8, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DecodeDescriptor(tt.edition, tt.data)
			if err != nil {
				t.Fatal(err)
			}
			f := d.Fields()
			if f.ProductTemplate != tt.template || f.ParamNumber != tt.param || f.Category != tt.category {
				t.Errorf("template, param, category = %d %d %d, want %d %d %d",
					f.ProductTemplate, f.ParamNumber, f.Category, tt.template, tt.param, tt.category)
			}
		})
	}

	if _, err := DecodeDescriptor(3, temperature500(0)); err == nil {
		t.Errorf("DecodeDescriptor(3) returned no error")
	}
}

func TestDecodeGeometryLambert(t *testing.T) {
	tests := []struct {
		name string
		flag byte
		want string
	}{
		{"north pole", 0, "true"},
		{"south pole", 128, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := lambert(tt.flag)
			geom, err := DecodeGeometry(2, VersionLater, data)
			if err != nil {
				t.Fatal(err)
			}
			if got, _ := geom.Param(catalog.ParamNpProj); got != tt.want {
				t.Errorf("NpProj = %q, want %q", got, tt.want)
			}
			g, _ := grib2.ParseGridDefinition(data)
			if geom.Key != g.Key() {
				t.Errorf("Key = %d, want %d", geom.Key, g.Key())
			}
		})
	}
}

func TestDecodeGeometryText(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		key      int32
		template int
		nx       string
		wantErr  bool
	}{
		{"tabs", "GDSkey\t-12\tgrid_type\t30\tNx\t93\tgrid_name\tLambert Conformal", -12, 30, "93", false},
		{"spaces", "GDSkey 5 grid_type 0 Nx 360", 5, 0, "360", false},
		{"odd fields", "GDSkey 5 grid_type", 0, 0, "", true},
		{"no key", "grid_type 0 Nx 360", 0, 0, "", true},
		{"empty", "", 0, 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom, err := DecodeGeometry(2, Version70, []byte(tt.line))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeGeometry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if geom.Key != tt.key || geom.Template != tt.template {
				t.Errorf("Key, Template = %d, %d, want %d, %d", geom.Key, geom.Template, tt.key, tt.template)
			}
			if got, _ := geom.Param(catalog.ParamNx); got != tt.nx {
				t.Errorf("Nx = %q, want %q", got, tt.nx)
			}
		})
	}
}

func TestDecodeGeometryPredefined(t *testing.T) {
	geom, err := DecodeGeometry(1, Version80, []byte{0, 0, 0x04, 0x37})
	if err != nil {
		t.Fatal(err)
	}
	if geom.Key != 1079 {
		t.Errorf("Key = %d, want 1079", geom.Key)
	}
	if _, ok := geom.Param(catalog.ParamNx); ok {
		t.Errorf("unknown catalogued grid has Nx")
	}
}
