package grib1

import (
	"bytes"
	"testing"

	"github.com/sdifrance/gribindex/catalog"
)

// newMessage assembles a GRIB1 message from its sections.
func newMessage(pds, gds []byte) []byte {
	bds := make([]byte, 11)
	bds[2] = 11
	var body bytes.Buffer
	body.Write(pds)
	body.Write(gds)
	body.Write(bds)
	body.WriteString("7777")

	n := 8 + body.Len()
	msg := []byte{'G', 'R', 'I', 'B', byte(n >> 16), byte(n >> 8), byte(n), 1}
	return append(msg, body.Bytes()...)
}

func TestRead1(t *testing.T) {
	data := newMessage(newPDS(28), globalGDS())
	msg, n, err := Read1(data)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) || msg.Length() != len(data) {
		t.Errorf("Read1() consumed %d, Length() = %d, want %d", n, msg.Length(), len(data))
	}
	if got, want := msg.DataOffset(), 8+28+32; got != want {
		t.Errorf("DataOffset() = %d, want %d", got, want)
	}
	if msg.DataLength() != 11 || msg.BitmapLength() != 0 {
		t.Errorf("DataLength(), BitmapLength() = %d, %d, want 11, 0", msg.DataLength(), msg.BitmapLength())
	}
	g, _ := ParseGridDefinition(globalGDS())
	if msg.GeometryKey() != g.Key() {
		t.Errorf("GeometryKey() = %d, want %d", msg.GeometryKey(), g.Key())
	}
	if got, _ := msg.Geometry().Param(catalog.ParamNx); got != "360" {
		t.Errorf("Geometry() Nx = %q, want 360", got)
	}
}

func TestRead1PredefinedGrid(t *testing.T) {
	pds := newPDS(28)
	pds[6] = 21
	pds[7] = 0
	msg, _, err := Read1(newMessage(pds, nil))
	if err != nil {
		t.Fatal(err)
	}
	if msg.GridDefinition() != nil {
		t.Errorf("GridDefinition() = %v, want nil", msg.GridDefinition())
	}
	if got := msg.GeometryKey(); got != 1021 {
		t.Errorf("GeometryKey() = %d, want 1021", got)
	}
	if got, _ := msg.Geometry().Param(catalog.ParamNx); got != "37" {
		t.Errorf("Geometry() Nx = %q, want 37", got)
	}
}

func TestRead1Errors(t *testing.T) {
	valid := newMessage(newPDS(28), globalGDS())
	tests := []struct {
		name string
		arg  []byte
	}{
		{"short", valid[:7]},
		{"not grib", append([]byte("GRIP"), valid[4:]...)},
		{"edition 2", func() []byte {
			b := bytes.Clone(valid)
			b[7] = 2
			return b
		}()},
		{"truncated", valid[:len(valid)-1]},
		{"bad end", func() []byte {
			b := bytes.Clone(valid)
			b[len(b)-1] = '8'
			return b
		}()},
		{"section overruns message", func() []byte {
			b := bytes.Clone(valid)
			b[8+28+2] = 200
			return b
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Read1(tt.arg); err == nil {
				t.Errorf("Read1() returned no error")
			}
		})
	}
}

func TestRead(t *testing.T) {
	one := newMessage(newPDS(28), globalGDS())
	pds := newPDS(28)
	pds[6], pds[7] = 87, 0
	two := newMessage(pds, nil)

	var data []byte
	data = append(data, 0, 0, 0)
	data = append(data, one...)
	data = append(data, 0)
	data = append(data, two...)
	data = append(data, 0, 0)

	msgs, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Read() returned %d messages, want 2", len(msgs))
	}
	if got := msgs[1].GeometryKey(); got != 1087 {
		t.Errorf("second GeometryKey() = %d, want 1087", got)
	}
}
