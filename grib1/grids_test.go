package grib1

import (
	"reflect"
	"testing"

	"github.com/sdifrance/gribindex/catalog"
)

func TestPredefinedGeometry(t *testing.T) {
	tests := []struct {
		name   string
		key    int32
		params map[string]string
	}{
		{"grid 21", 1021, map[string]string{
			catalog.ParamGridName: "Latitude_Longitude",
			catalog.ParamNx:       "37",
			catalog.ParamNy:       "36",
			catalog.ParamDy:       "2.5",
			catalog.ParamLa2:      "90.0",
			catalog.ParamLo2:      "180.0",
			catalog.ParamWinds:    "Relative",
			catalog.ParamRadius:   "6367.47",
		}},
		{"grid 24", 1024, map[string]string{
			catalog.ParamLa1: "-90.0",
			catalog.ParamLo1: "-180.0",
		}},
		{"grid 25", 1025, map[string]string{
			catalog.ParamNx:  "72",
			catalog.ParamLa2: "0.0",
			catalog.ParamLo2: "355.0",
		}},
		{"grid 64", 1064, map[string]string{
			catalog.ParamNx: "91",
			catalog.ParamDx: "2.0",
		}},
		{"grid 87", 1087, map[string]string{
			catalog.ParamGridType:   "5",
			catalog.ParamGridName:   "Polar_Stereographic",
			catalog.ParamLa1:        "22.8756",
			catalog.ParamLo1:        "239.5089",
			catalog.ParamLoV:        "255.0",
			catalog.ParamDx:         "68153.0",
			catalog.ParamUnits:      "m",
			catalog.ParamResolution: "8",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom, ok := PredefinedGeometry(tt.key)
			if !ok {
				t.Fatalf("PredefinedGeometry(%d) not found", tt.key)
			}
			if geom.Key != tt.key {
				t.Errorf("Key = %d, want %d", geom.Key, tt.key)
			}
			for name, want := range tt.params {
				if got, _ := geom.Param(name); got != want {
					t.Errorf("Param(%q) = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestPredefinedGeometryOrder(t *testing.T) {
	geom, _ := PredefinedGeometry(1022)
	want := []string{
		catalog.ParamKey, catalog.ParamGridType, catalog.ParamGridName,
		catalog.ParamNx, catalog.ParamNy, catalog.ParamResolution,
		catalog.ParamDx, catalog.ParamDy, catalog.ParamUnits,
		catalog.ParamLa1, catalog.ParamLo1, catalog.ParamLa2, catalog.ParamLo2,
		catalog.ParamWinds, catalog.ParamShapeCode, catalog.ParamShape, catalog.ParamRadius,
	}
	if got := geom.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestPredefinedGeometryUnknown(t *testing.T) {
	geom, ok := PredefinedGeometry(1999)
	if ok {
		t.Errorf("PredefinedGeometry(1999) found")
	}
	want := []string{
		catalog.ParamKey, catalog.ParamWinds,
		catalog.ParamShapeCode, catalog.ParamShape, catalog.ParamRadius,
	}
	if got := geom.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got, _ := geom.Param(catalog.ParamWinds); got != "True" {
		t.Errorf("Winds = %q, want True", got)
	}
}
