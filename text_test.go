package gribindex

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

const separator = "--------------------------------------------------------------------"

func textIndex(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestReadTextEdition1(t *testing.T) {
	in := textIndex(
		"index_version = 6.0",
		"grid_edition = 1",
		"location = /data/ruc.grib1",
		"length = 123456",
		"created = 2023-10-19T13:00:00Z",
		separator,
		"1 0 -1 11 81 100 1000.0 255 0.0 2023-10-19T12:00:00Z 12 1021 500 528 -2 true 7 4 2",
		"",
		"4 0 -1 61 81 1 0.0 255 0.0 2023-10-19T12:00:00Z 6 1021 1000 1028 1 false 7 4 2",
		separator,
		"GDSkey = 1021",
		"grid_type = 0",
		"grid_name = Latitude/Longitude",
		"Nx = 37",
		separator,
		"GDSkey = 1087",
		"grid_type = 5",
		"Nx = 81",
	)
	cat, err := ReadText(strings.NewReader(in), "ruc.grib1.gbx")
	if err != nil {
		t.Fatal(err)
	}
	if cat.Edition() != 1 || cat.RecordCount() != 2 {
		t.Fatalf("Edition(), RecordCount() = %d, %d, want 1, 2", cat.Edition(), cat.RecordCount())
	}
	if got, _ := cat.Attribute("location"); got != "/data/ruc.grib1" {
		t.Errorf("location = %q", got)
	}

	r := cat.Records[0]
	if r.ProductTemplate != 1 || r.ParamNumber != 11 || r.LevelValue1 != 1000 || r.Offset2 != 528 {
		t.Errorf("record = %+v", r)
	}
	if r.DecimalScale != -2 || !r.BmsExists || r.Center != 7 || r.SubCenter != 4 || r.Table != 2 {
		t.Errorf("edition 1 trailer = %d %v %d %d %d, want -2 true 7 4 2",
			r.DecimalScale, r.BmsExists, r.Center, r.SubCenter, r.Table)
	}
	if want := time.Date(2023, 10, 20, 0, 0, 0, 0, time.UTC); !r.ValidTime.Equal(want) {
		t.Errorf("ValidTime = %v, want %v", r.ValidTime, want)
	}

	if got := cat.GeometryKeys(); len(got) != 2 || got[0] != 1021 || got[1] != 1087 {
		t.Fatalf("GeometryKeys() = %v, want [1021 1087]", got)
	}
	geom, _ := cat.Geometry(1087)
	if geom.Template != 5 || geom.Edition != 1 {
		t.Errorf("Template, Edition = %d, %d, want 5, 1", geom.Template, geom.Edition)
	}
	geom, _ = cat.Geometry(1021)
	if got, _ := geom.Param(catalog.ParamGridName); got != "Latitude/Longitude" {
		t.Errorf("grid_name = %q", got)
	}
}

func TestReadTextLegacyKeys(t *testing.T) {
	const legacy = "2_90.0_0.0"
	in := textIndex(
		"index_version = 5.0",
		"grid_edition = 2",
		"center = 7",
		"sub_center = 0",
		"table_version = 1",
		separator,
		"0 0 0 0 2 100 50000.0 255 0.0 2023-10-19T12:00:00Z 3 "+legacy+" 100 200",
		separator,
		"GDSkey = "+legacy,
		"grid_type = 0",
	)
	cat, err := ReadText(strings.NewReader(in), "gfs.grib2.gbx")
	if err != nil {
		t.Fatal(err)
	}
	want := numeric.JavaStringHash(legacy)
	if got := cat.Records[0].GdsKey; got != want {
		t.Errorf("record GdsKey = %d, want %d", got, want)
	}
	geom, ok := cat.Geometry(want)
	if !ok {
		t.Fatalf("geometry %d missing; have %v", want, cat.GeometryKeys())
	}
	if got, _ := geom.Int(catalog.ParamKey); int32(got) != want {
		t.Errorf("GDSkey parameter = %d, want %d", got, want)
	}
	r := cat.Records[0]
	if r.Center != 7 || r.DecimalScale != numeric.Undefined {
		t.Errorf("Center, DecimalScale = %d, %d, want 7, %d", r.Center, r.DecimalScale, numeric.Undefined)
	}
}

func TestReadTextTruncated(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"inside attributes", textIndex("index_version = 6.0", "grid_edition = 2")},
		{"inside records", textIndex(
			"index_version = 6.0",
			separator,
			"0 0 0 0 2 100 50000.0 255 0.0 2023-10-19T12:00:00Z 3 42 100 200",
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := ReadText(strings.NewReader(tt.in), "x.gbx")
			if err != nil {
				t.Fatal(err)
			}
			if !cat.Empty() {
				t.Errorf("catalog has %d records and %d geometries, want none",
					cat.RecordCount(), len(cat.GeometryKeys()))
			}
		})
	}
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad center", textIndex("center = NCEP", separator)},
		{"short record", textIndex("index_version = 6.0", separator, "0 0 0 0 2 100", separator)},
		{"edition 1 record without trailer", textIndex(
			"index_version = 6.0",
			"grid_edition = 1",
			separator,
			"0 0 0 0 2 100 50000.0 255 0.0 2023-10-19T12:00:00Z 3 42 100 200",
			separator,
		)},
		{"bad time", textIndex(
			"index_version = 6.0",
			separator,
			"0 0 0 0 2 100 50000.0 255 0.0 2023-10-19 3 42 100 200",
			separator,
		)},
		{"bad key", textIndex(
			"index_version = 6.0",
			separator,
			"0 0 0 0 2 100 50000.0 255 0.0 2023-10-19T12:00:00Z 3 k42 100 200",
			separator,
		)},
		{"geometry without key", textIndex("index_version = 6.0", separator, separator, "grid_type = 0")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadText(strings.NewReader(tt.in), "x.gbx")
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("ReadText() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestLegacyGeometryKey(t *testing.T) {
	tests := []struct {
		arg  string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			if got := legacyGeometryKey(tt.arg); got != tt.want {
				t.Errorf("legacyGeometryKey(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}
