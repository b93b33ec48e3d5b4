package gribindex

import (
	"context"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/grib2"
	"github.com/sdifrance/gribindex/numeric"
)

const location = "gfs.grib2.gbx8"

func testOptions() Options {
	return Options{Attempts: 5}
}

func globalLatLonKey() int32 {
	g, err := grib2.ParseGridDefinition(globalLatLon())
	if err != nil {
		panic(err)
	}
	return g.Key()
}

func edition2Index() []byte {
	w := &indexWriter{}
	w.int64(1697716800000)
	w.utf("index_version 8.1 grid_edition 2 basetime 2023-10-19T12:00:00Z center 7 sub_center 4 table_version 1")
	key := globalLatLonKey()
	w.int32(3)
	w.position(0, key, 1000).block(temperature500(6))
	w.position(0, key, 2000).block(precipitation(6, 0))
	w.position(0, key, 3000).block(precipitation(0, 6))
	w.int32(1)
	w.block(globalLatLon())
	return w.Bytes()
}

func TestReadEdition2(t *testing.T) {
	store := newMemStore(location, edition2Index())
	cat, err := NewReader(store, testOptions()).Read(context.Background(), location)
	if err != nil {
		t.Fatal(err)
	}

	if got := cat.RecordCount(); got != 2 {
		t.Fatalf("RecordCount() = %d, want 2 (zero length interval skipped)", got)
	}
	if got, _ := cat.Attribute(catalog.AttrIndexVersion); got != "8.1" {
		t.Errorf("index_version = %q, want 8.1", got)
	}
	if cat.Edition() != 2 {
		t.Errorf("Edition() = %d, want 2", cat.Edition())
	}

	temp, precip := cat.Records[0], cat.Records[1]
	tests := []struct {
		name      string
		got, want any
	}{
		{"temperature level", temp.LevelValue1, float32(50000)},
		{"temperature forecast", temp.ForecastTime, 6},
		{"temperature valid time", temp.ValidTime.Unix(), refTime.Add(6 * time.Hour).Unix()},
		{"temperature offset", temp.Offset1, int64(1000)},
		{"temperature center", temp.Center, 7},
		{"temperature sub center", temp.SubCenter, 4},
		{"temperature decimal scale", temp.DecimalScale, numeric.Undefined},
		{"temperature start of interval", temp.StartOfInterval, numeric.Undefined},
		{"precipitation offset", precip.Offset1, int64(3000)},
		{"precipitation interval", [2]int{precip.StartOfInterval, precip.ForecastTime}, [2]int{0, 6}},
		{"precipitation statistic", precip.IntervalStatType, 1},
		{"precipitation valid time", precip.ValidTime.Unix(), refTime.Add(6 * time.Hour).Unix()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	key := globalLatLonKey()
	if temp.GdsKey != key {
		t.Errorf("GdsKey = %d, want %d", temp.GdsKey, key)
	}
	geom, ok := cat.Geometry(key)
	if !ok {
		t.Fatalf("geometry %d missing; have %v", key, cat.GeometryKeys())
	}
	if got, _ := geom.Param(catalog.ParamNx); got != "360" {
		t.Errorf("Nx = %q, want 360", got)
	}
	if store.opens != 1 {
		t.Errorf("opened %d times, want 1", store.opens)
	}
}

func version70Index() []byte {
	w := &indexWriter{}
	w.int64(0)
	w.utf("index_version 7.0 grid_edition 1 basetime 2023-10-19T12:00:00Z")
	w.int32(1)
	w.int32(0).int32(0).int32(-1).int32(11).int32(81)
	w.int32(100).float32(1000).int32(255).float32(0)
	w.int64(refTime.UnixMilli()).int32(12)
	w.int32(1021).int64(500).int64(528)
	w.int32(-2).bool(true).int32(7).int32(4).int32(2)
	w.utf("GDSkey\t1021\tgrid_type\t0\tNx\t37")
	w.utf("GDSkey 1087 grid_type 5 Nx 81")
	w.utf("End")
	return w.Bytes()
}

func TestReadVersion70(t *testing.T) {
	cat, err := NewReader(newMemStore(location, version70Index()), testOptions()).Read(context.Background(), location)
	if err != nil {
		t.Fatal(err)
	}
	if cat.RecordCount() != 1 {
		t.Fatalf("RecordCount() = %d, want 1", cat.RecordCount())
	}
	r := cat.Records[0]
	if r.Edition != 1 || r.ParamNumber != 11 || r.LevelValue1 != 1000 || r.GdsKey != 1021 {
		t.Errorf("record = %+v", r)
	}
	if r.DecimalScale != -2 || !r.BmsExists || r.Center != 7 || r.SubCenter != 4 || r.Table != 2 {
		t.Errorf("edition 1 trailer = %d %v %d %d %d, want -2 true 7 4 2",
			r.DecimalScale, r.BmsExists, r.Center, r.SubCenter, r.Table)
	}
	if want := refTime.Add(12 * time.Hour); !r.ValidTime.Equal(want) {
		t.Errorf("ValidTime = %v, want %v", r.ValidTime, want)
	}
	if got := cat.GeometryKeys(); len(got) != 2 || got[0] != 1021 || got[1] != 1087 {
		t.Errorf("GeometryKeys() = %v, want [1021 1087]", got)
	}
	geom, _ := cat.Geometry(1087)
	if geom.Template != 5 {
		t.Errorf("Template = %d, want 5", geom.Template)
	}
}

func TestReadEdition1PredefinedGrid(t *testing.T) {
	w := &indexWriter{}
	w.int64(0)
	w.utf("index_version 8.0 grid_edition 1 basetime 2023-10-19T12:00:00Z")
	w.int32(1)
	w.position(0, 1021, 0).block(grib1PDS(24))
	w.int32(1)
	w.block([]byte{0, 0, 0x03, 0xfd})

	cat, err := NewReader(newMemStore(location, w.Bytes()), testOptions()).Read(context.Background(), location)
	if err != nil {
		t.Fatal(err)
	}
	r := cat.Records[0]
	if r.Category != -1 || r.ParamNumber != 11 || r.Center != 7 || r.SubCenter != 4 {
		t.Errorf("record = %+v", r)
	}
	if want := refTime.Add(24 * time.Hour); !r.ValidTime.Equal(want) {
		t.Errorf("ValidTime = %v, want %v", r.ValidTime, want)
	}
	geom, ok := cat.Geometry(1021)
	if !ok {
		t.Fatalf("geometry 1021 missing; have %v", cat.GeometryKeys())
	}
	if got, _ := geom.Param(catalog.ParamNx); got != "37" {
		t.Errorf("Nx = %q, want 37", got)
	}
}

func TestReadTextSentinel(t *testing.T) {
	text := strings.Join([]string{
		"index_version = 6.0",
		"grid_edition = 2",
		"center = 7",
		"sub_center = 0",
		"table_version = 1",
		"--------------------",
		"0 0 0 0 2 100 50000.0 255 0.0 2023-10-19T12:00:00Z 3 42 100 200",
		"--------------------",
		"GDSkey = 42",
		"grid_type = 0",
		"Nx = 360",
	}, "\n")
	store := newMemStore(location, []byte(text))
	cat, err := NewReader(store, testOptions()).Read(context.Background(), location)
	if err != nil {
		t.Fatal(err)
	}
	if cat.RecordCount() != 1 {
		t.Fatalf("RecordCount() = %d, want 1", cat.RecordCount())
	}
	if _, ok := cat.Geometry(42); !ok {
		t.Errorf("geometry 42 missing")
	}
	if store.opens != 2 {
		t.Errorf("opened %d times, want 2", store.opens)
	}
}

func TestReadObsolete(t *testing.T) {
	w := &indexWriter{}
	w.int64(0)
	w.utf("basetime 2023-10-19T12:00:00Z index_version 7.1 grid_edition 2")
	store := newMemStore(location, w.Bytes())

	_, err := NewReader(store, testOptions()).Read(context.Background(), location)
	if !errors.Is(err, ErrIndexObsolete) {
		t.Fatalf("Read() error = %v, want %v", err, ErrIndexObsolete)
	}
	if len(store.removed) != 1 || store.removed[0] != location {
		t.Errorf("removed = %v, want [%s]", store.removed, location)
	}
	if store.opens != 1 {
		t.Errorf("opened %d times, want 1", store.opens)
	}
}

func TestReadRetry(t *testing.T) {
	data := edition2Index()
	tests := []struct {
		name      string
		truncate  int
		wantErr   bool
		wantOpens int
	}{
		{"first attempt", 0, false, 1},
		{"recovers on third attempt", 2, false, 3},
		{"last attempt", 4, false, 5},
		{"all attempts fail", 5, true, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(location, data)
			store.truncate = tt.truncate
			store.cut = len(data) - 10
			cat, err := NewReader(store, testOptions()).Read(context.Background(), location)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store.opens != tt.wantOpens {
				t.Errorf("opened %d times, want %d", store.opens, tt.wantOpens)
			}
			if !tt.wantErr && cat.RecordCount() != 2 {
				t.Errorf("RecordCount() = %d, want 2", cat.RecordCount())
			}
		})
	}
}

func TestReadIOError(t *testing.T) {
	data := edition2Index()
	store := newMemStore(location, data)
	store.truncate = 100
	// Cut inside the third record, after the 80 byte geometry block and 50
	// bytes into the record. The zero length interval does not count.
	store.cut = len(data) - 130

	_, err := NewReader(store, Options{Attempts: 2}).Read(context.Background(), location)
	var ioErr *IndexIOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Read() error = %v, want *IndexIOError", err)
	}
	if got, want := err.Error(), "I/O error at record 1 in index file"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, errReset) {
		t.Errorf("Read() error = %v, want it to wrap %v", err, errReset)
	}
	if store.opens != 2 {
		t.Errorf("opened %d times, want 2", store.opens)
	}
}

func TestReadOpenRetry(t *testing.T) {
	tests := []struct {
		name      string
		failOpens int
		wantErr   bool
		wantOpens int
	}{
		{"opens on second attempt", 1, false, 2},
		{"opens on last attempt", 4, false, 5},
		{"never opens", 100, true, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(location, edition2Index())
			store.failOpens = tt.failOpens
			cat, err := NewReader(store, testOptions()).Read(context.Background(), location)
			if store.opens != tt.wantOpens {
				t.Errorf("opened %d times, want %d", store.opens, tt.wantOpens)
			}
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Read() error = %v", err)
				}
				if cat.RecordCount() != 2 {
					t.Errorf("RecordCount() = %d, want 2", cat.RecordCount())
				}
				return
			}
			var ioErr *IndexIOError
			if !errors.As(err, &ioErr) {
				t.Fatalf("Read() error = %v, want *IndexIOError", err)
			}
			if ioErr.Record != 0 {
				t.Errorf("Record = %d, want 0", ioErr.Record)
			}
			if !errors.Is(err, errReset) {
				t.Errorf("Read() error = %v, want it to wrap %v", err, errReset)
			}
		})
	}
}

func TestReadTruncated(t *testing.T) {
	data := edition2Index()
	tests := []struct {
		name       string
		cut        int
		wantRecord int
	}{
		{"empty", 0, 0},
		{"inside sentinel", 5, 0},
		{"inside attributes", 12, 0},
		{"inside third record", len(data) - 130, 1},
		{"inside geometry block", len(data) - 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(location, data[:tt.cut])
			_, err := NewReader(store, testOptions()).Read(context.Background(), location)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Read() error = %v, want *ParseError", err)
			}
			if pe.Record != tt.wantRecord {
				t.Errorf("Record = %d, want %d", pe.Record, tt.wantRecord)
			}
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("Read() error = %v, want it to wrap %v", err, io.ErrUnexpectedEOF)
			}
			if store.opens != 1 {
				t.Errorf("opened %d times, want 1", store.opens)
			}
		})
	}
}

func TestReadDeterministic(t *testing.T) {
	tests := []struct {
		name  string
		index []byte
	}{
		{"edition 2", edition2Index()},
		{"version 7.0", version70Index()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewReader(newMemStore(location, tt.index), testOptions())
			first, err := reader.Read(context.Background(), location)
			if err != nil {
				t.Fatal(err)
			}
			second, err := reader.Read(context.Background(), location)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(first.Records, second.Records) {
				t.Errorf("records differ between reads:\n%v\n%v", first.Records, second.Records)
			}
			if !reflect.DeepEqual(first.Attributes(), second.Attributes()) {
				t.Errorf("attributes differ between reads:\n%v\n%v", first.Attributes(), second.Attributes())
			}
			if !reflect.DeepEqual(first.Geometries(), second.Geometries()) {
				t.Errorf("geometries differ between reads")
			}
			if first.ID == second.ID {
				t.Errorf("both reads have catalog id %s", first.ID)
			}
		})
	}
}

func TestReadParseError(t *testing.T) {
	tests := []struct {
		name  string
		index func() []byte
	}{
		{"bad basetime", func() []byte {
			w := &indexWriter{}
			w.int64(0).utf("index_version 8.1 basetime 2023-10-19")
			return w.Bytes()
		}},
		{"odd attributes", func() []byte {
			w := &indexWriter{}
			w.int64(0).utf("index_version 8.1 center")
			return w.Bytes()
		}},
		{"bad center", func() []byte {
			w := &indexWriter{}
			w.int64(0).utf("index_version 8.1 center NCEP")
			return w.Bytes()
		}},
		{"short product definition", func() []byte {
			w := &indexWriter{}
			w.int64(0).utf("index_version 8.1").int32(1)
			w.position(0, 1, 0).block(make([]byte, 5))
			return w.Bytes()
		}},
		{"negative section length", func() []byte {
			w := &indexWriter{}
			w.int64(0).utf("index_version 8.1").int32(1)
			w.position(0, 1, 0).int32(-1)
			return w.Bytes()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(location, tt.index())
			_, err := NewReader(store, testOptions()).Read(context.Background(), location)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Read() error = %v, want *ParseError", err)
			}
			if store.opens != 1 {
				t.Errorf("opened %d times, want 1", store.opens)
			}
		})
	}
}

func TestReadMissing(t *testing.T) {
	store := newMemStore("other", nil)
	_, err := NewReader(store, testOptions()).Read(context.Background(), location)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Read() error = %v, want %v", err, fs.ErrNotExist)
	}
	if store.opens != 0 {
		t.Errorf("opened %d times, want 0", store.opens)
	}
}

func TestReadCanceled(t *testing.T) {
	data := edition2Index()
	store := newMemStore(location, data)
	store.truncate = 100
	store.cut = 20
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(store, Options{Attempts: 5, RetryDelay: time.Hour}).Read(ctx, location)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want %v", err, context.Canceled)
	}
}

func TestReadState(t *testing.T) {
	tests := []struct {
		state readState
		want  string
	}{
		{stateStart, "Start"},
		{stateDelegateToText, "DelegateToText"},
		{stateGeometryLoop, "GeometryLoop"},
		{readState(42), "readState(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
