package gribindex

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/pkg/errors"
)

// errReset is the transient failure memStore injects.
var errReset = errors.New("connection reset by peer")

// memStore is an in-memory Store. The first failOpens opens of a file fail
// with errReset. The first truncate opens return streams that fail with
// errReset after cut bytes, like a dropped network read.
type memStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	opens     int
	removed   []string
	failOpens int
	truncate  int
	cut       int
}

// failingReader reports err in place of the end of r.
type failingReader struct {
	r   io.Reader
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		err = f.err
	}
	return n, err
}

func newMemStore(name string, data []byte) *memStore {
	return &memStore{files: map[string][]byte{name: data}}
}

func (s *memStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	s.opens++
	if s.opens <= s.failOpens {
		return nil, errReset
	}
	if s.opens <= s.truncate {
		return io.NopCloser(&failingReader{bytes.NewReader(data[:s.cut]), errReset}), nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Remove(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		return os.ErrNotExist
	}
	delete(s.files, name)
	s.removed = append(s.removed, name)
	return nil
}

// indexWriter writes fields the way java.io.DataOutputStream does.
type indexWriter struct {
	bytes.Buffer
}

func (w *indexWriter) int32(v int32) *indexWriter {
	binary.Write(w, binary.BigEndian, v)
	return w
}

func (w *indexWriter) int64(v int64) *indexWriter {
	binary.Write(w, binary.BigEndian, v)
	return w
}

func (w *indexWriter) float32(v float32) *indexWriter {
	binary.Write(w, binary.BigEndian, math.Float32bits(v))
	return w
}

func (w *indexWriter) bool(v bool) *indexWriter {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
	return w
}

func (w *indexWriter) block(b []byte) *indexWriter {
	w.int32(int32(len(b)))
	w.Write(b)
	return w
}

func (w *indexWriter) utf(s string) *indexWriter {
	enc := encodeModifiedUTF8(s)
	binary.Write(w, binary.BigEndian, uint16(len(enc)))
	w.Write(enc)
	return w
}

func encodeModifiedUTF8(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, 0xc0|byte(u>>6), 0x80|byte(u&0x3f))
		default:
			out = append(out, 0xe0|byte(u>>12), 0x80|byte(u>>6&0x3f), 0x80|byte(u&0x3f))
		}
	}
	return out
}

var refTime = time.Date(2023, 10, 19, 12, 0, 0, 0, time.UTC)

// position writes the leading fields of a record with a raw product
// definition section.
func (w *indexWriter) position(discipline int32, key int32, offset int64) *indexWriter {
	return w.int32(discipline).int64(refTime.UnixMilli()).int32(key).int64(offset).int64(offset + 100)
}

func put4(b []byte, i, v int) {
	binary.BigEndian.PutUint32(b[i:], uint32(v))
}

func putSigned(b []byte, i, v int) {
	u := uint32(v)
	if v < 0 {
		u = uint32(-v) | 0x80000000
	}
	binary.BigEndian.PutUint32(b[i:], u)
}

func grib2PDS(template, n int) []byte {
	b := make([]byte, n)
	put4(b, 0, n)
	b[4] = 4
	binary.BigEndian.PutUint16(b[7:], uint16(template))
	return b
}

// temperature500 is a template 4.0 section: temperature on the 500 hPa
// surface, forecast hours ahead.
func temperature500(forecast int) []byte {
	b := grib2PDS(0, 34)
	b[9], b[10], b[11] = 0, 0, 2
	b[17] = 1
	put4(b, 18, forecast)
	b[22], b[23] = 100, 0
	put4(b, 24, 50000)
	b[28], b[29] = 255, 255
	return b
}

// precipitation is a template 4.8 accumulation over hours [start, start+length].
func precipitation(start, length int) []byte {
	b := grib2PDS(8, 58)
	b[9], b[10], b[11] = 1, 8, 2
	b[17] = 1
	put4(b, 18, start)
	b[22] = 1
	b[28] = 255
	b[41] = 1
	b[46] = 1
	b[47] = 2
	b[48] = 1
	put4(b, 49, length)
	b[53] = 1
	return b
}

func grib2GDS(template, n int) []byte {
	b := make([]byte, n)
	put4(b, 0, n)
	b[4] = 3
	binary.BigEndian.PutUint16(b[12:], uint16(template))
	return b
}

// globalLatLon is a one degree global template 3.0 grid.
func globalLatLon() []byte {
	b := grib2GDS(0, 72)
	b[14] = 6
	putSigned(b, 30, 360)
	putSigned(b, 34, 181)
	putSigned(b, 46, 90000000)
	putSigned(b, 50, 0)
	b[54] = 48
	putSigned(b, 55, -90000000)
	putSigned(b, 59, 359000000)
	putSigned(b, 63, 1000000)
	putSigned(b, 67, 1000000)
	return b
}

// lambert is a template 3.30 grid; flag is the projection centre flag.
func lambert(flag byte) []byte {
	b := grib2GDS(30, 81)
	b[14] = 1
	putSigned(b, 16, 6371229)
	putSigned(b, 30, 93)
	putSigned(b, 34, 65)
	putSigned(b, 38, 12190000)
	putSigned(b, 42, 226500000)
	b[46] = 8
	putSigned(b, 47, 25000000)
	putSigned(b, 51, 265000000)
	putSigned(b, 55, 5079406)
	putSigned(b, 59, 5079406)
	b[63] = flag
	b[64] = 64
	putSigned(b, 65, 25000000)
	putSigned(b, 69, 25000000)
	putSigned(b, 73, -90000000)
	putSigned(b, 77, 0)
	return b
}

// grib1PDS is an NCEP temperature at 1000 hPa, forecast hours after
// 2023-10-19 12:00.
func grib1PDS(forecast int) []byte {
	b := make([]byte, 28)
	b[2] = 28
	b[3] = 2
	b[4] = 7
	b[5] = 81
	b[6] = 21
	b[8] = 11
	b[9] = 100
	b[10], b[11] = 0x03, 0xe8
	b[12], b[13], b[14], b[15], b[16] = 23, 10, 19, 12, 0
	b[17] = 1
	b[18] = byte(forecast)
	b[24] = 21
	b[25] = 4
	return b
}
