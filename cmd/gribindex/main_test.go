package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

func TestShapefileName(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"gfs.grib2.gbx9", "gfs.grib2.shp"},
		{"/data/ruc/ruc.grib1.gbx", "ruc.grib1.shp"},
		{"indexes/plain", "plain.shp"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			if got := shapefileName(tt.arg); got != tt.want {
				t.Errorf("shapefileName(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestPrintCatalog(t *testing.T) {
	ref := time.Date(2023, 10, 19, 12, 0, 0, 0, time.UTC)
	b := catalog.NewBuilder("gfs.grib2.gbx9")
	b.AddAttribute(catalog.AttrIndexVersion, "8.1")
	b.AddRecord(catalog.Record{
		Edition:          2,
		ProductTemplate:  8,
		Category:         1,
		ParamNumber:      8,
		LevelType1:       1,
		RefTime:          ref,
		ValidTime:        ref.Add(6 * time.Hour),
		ForecastTime:     6,
		StartOfInterval:  0,
		IntervalStatType: 1,
		TimeUnit:         1,
		GdsKey:           42,
		Offset1:          100,
		Offset2:          200,
		DecimalScale:     numeric.Undefined,
	})
	g := catalog.NewGeometry(2, 0)
	g.SetKey(42)
	g.SetInt(catalog.ParamNx, 360)
	b.AddGeometry(g)

	var out bytes.Buffer
	if err := printCatalog(&out, b.Build()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# gfs.grib2.gbx9",
		"index_version = 8.1",
		"1 records",
		"6hr_Accumulation",
		"2023-10-19T18:00:00Z",
		"100/200",
		"42 (edition 2 template 0): GDSkey=42 Nx=360",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %q:\n%s", want, out.String())
		}
	}
}
