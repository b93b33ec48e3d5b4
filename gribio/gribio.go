// Package gribio scans GRIB data files containing both GRIB1 and GRIB2
// messages and checks index records against the messages they point to.
package gribio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/grib1"
	"github.com/sdifrance/gribindex/grib2"
)

// Field is one product of a message with its section offsets from the start
// of the file.
type Field struct {
	GdsKey        int32
	Category      int
	ParamNumber   int
	GridOffset    int64
	ProductOffset int64
	DataOffset    int64
}

// Message is a GRIB message found in a data file.
type Message struct {
	Offset     int64
	Edition    int
	Length     int
	Discipline int
	Fields     []Field
}

// File is the list of messages of a data file, in file order.
type File struct {
	Messages []*Message
}

// Scan reads every message of a GRIB data file. Zero padding between
// messages is skipped.
func Scan(r io.Reader) (*File, error) {
	var messages []*Message

	rr := bufio.NewReader(r)
	var offset int64
	for {
		skipCount, err := skipZeros(rr)
		offset += int64(skipCount)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return &File{messages}, nil
			}
			return nil, fmt.Errorf("error parsing file: %w", err)
		}

		parseType, messageLen, err := peekParseType(rr)
		if err != nil {
			return nil, fmt.Errorf("error encountered when expecting a GRIB message @ byte offset %d: %w", offset, err)
		}
		glog.V(2).Infof("record @ offset %d is of type %s", offset, parseType)
		recordBytes := make([]byte, int(messageLen))
		if readCount, err := io.ReadFull(rr, recordBytes); err != nil {
			return nil, fmt.Errorf("error while reading message of expected length %d; only read %d bytes: %w", messageLen, readCount, err)
		}

		var msg *Message
		switch parseType {
		case parseAsGRIB1:
			msg, err = fromGRIB1(offset, recordBytes)
		case parseAsGRIB2:
			msg, err = fromGRIB2(offset, recordBytes)
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s message @ byte offset %d: %w", parseType, offset, err)
		}
		messages = append(messages, msg)
		offset += int64(messageLen)
	}
}

func fromGRIB1(offset int64, data []byte) (*Message, error) {
	m, _, err := grib1.Read1(data)
	if err != nil {
		return nil, err
	}
	f := m.ProductDefinition().Fields()
	return &Message{
		Offset:  offset,
		Edition: 1,
		Length:  m.Length(),
		Fields: []Field{{
			GdsKey:        m.GeometryKey(),
			Category:      f.Category,
			ParamNumber:   f.ParamNumber,
			GridOffset:    -1,
			ProductOffset: offset,
			DataOffset:    offset + int64(m.DataOffset()),
		}},
	}, nil
}

func fromGRIB2(offset int64, data []byte) (*Message, error) {
	m, _, err := grib2.Read1(data)
	if err != nil {
		return nil, err
	}
	out := &Message{
		Offset:     offset,
		Edition:    2,
		Length:     m.Length,
		Discipline: m.Discipline,
	}
	for _, f := range m.Fields {
		pf := f.Product.Fields()
		out.Fields = append(out.Fields, Field{
			GdsKey:        f.Grid.Key(),
			Category:      pf.Category,
			ParamNumber:   pf.ParamNumber,
			GridOffset:    offset + int64(f.GridOffset),
			ProductOffset: offset + int64(f.ProductOffset),
			DataOffset:    offset + int64(f.DataOffset),
		})
	}
	return out, nil
}

// Mismatch is an index record that does not locate a message field of the
// data file.
type Mismatch struct {
	Index  int
	Record catalog.Record
	Reason string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("record %d (offsets %d/%d): %s", m.Index, m.Record.Offset1, m.Record.Offset2, m.Reason)
}

// Check compares the records of cat with the scanned file. An edition 2
// record must point at the grid and product sections of one field and share
// its grid key and parameter; an edition 1 record must point at the start of
// a message.
func (f *File) Check(cat *catalog.Catalog) []Mismatch {
	byGrid := map[int64]Field{}
	byStart := map[int64]Field{}
	for _, m := range f.Messages {
		for _, fld := range m.Fields {
			if m.Edition == 2 {
				byGrid[fld.GridOffset] = fld
			} else {
				byStart[m.Offset] = fld
			}
		}
	}

	var out []Mismatch
	for i, r := range cat.Records {
		var (
			fld Field
			ok  bool
		)
		if r.Edition == 1 {
			fld, ok = byStart[r.Offset1]
		} else {
			fld, ok = byGrid[r.Offset1]
			if ok && fld.ProductOffset != r.Offset2 {
				out = append(out, Mismatch{i, r, fmt.Sprintf("product section is at %d", fld.ProductOffset)})
				continue
			}
		}
		switch {
		case !ok:
			out = append(out, Mismatch{i, r, "no message at offset"})
		case fld.GdsKey != r.GdsKey:
			out = append(out, Mismatch{i, r, fmt.Sprintf("grid key is %d, index has %d", fld.GdsKey, r.GdsKey)})
		case fld.Category != r.Category || fld.ParamNumber != r.ParamNumber:
			out = append(out, Mismatch{i, r, fmt.Sprintf("parameter is %d/%d, index has %d/%d",
				fld.Category, fld.ParamNumber, r.Category, r.ParamNumber)})
		}
	}
	return out
}

func skipZeros(rr *bufio.Reader) (int, error) {
	skipCount := 0
	for {
		b, err := rr.ReadByte()
		if err != nil {
			return skipCount, err
		}
		if b == 0 {
			skipCount++
			continue
		}
		if err := rr.UnreadByte(); err != nil {
			return skipCount, err
		}
		return skipCount, nil
	}
}

type parseType int

const (
	parseAsInvalidMessage parseType = iota
	parseAsGRIB1
	parseAsGRIB2
)

func (t parseType) String() string {
	switch t {
	case parseAsGRIB1:
		return "GRIB1"
	case parseAsGRIB2:
		return "GRIB2"
	}
	return "invalid"
}

func peekParseType(rr *bufio.Reader) (parseType, uint64, error) {
	// Edition 1 indicators are 8 bytes; a short final message is still valid.
	data, err := rr.Peek(16)
	if len(data) < 8 {
		return parseAsInvalidMessage, 0, fmt.Errorf("error while expecting GRIB record: %w", err)
	}

	if got, want := string(data[0:4]), "GRIB"; got != want {
		return parseAsInvalidMessage, 0, fmt.Errorf("first four bytes = %q, want %q", got, want)
	}
	edition := data[7]

	switch edition {
	case 1:
		// https://apps.ecmwf.int/codes/grib/format/grib1/sections/0/
		messageLength := uint64(binary.BigEndian.Uint32([]byte{0, data[4], data[5], data[6]}))
		return parseAsGRIB1, messageLength, nil
	case 2:
		// https://apps.ecmwf.int/codes/grib/format/grib2/sections/0/
		if len(data) < 16 {
			return parseAsInvalidMessage, 0, fmt.Errorf("truncated GRIB2 indicator of %d bytes", len(data))
		}
		messageLength := binary.BigEndian.Uint64(data[8 : 8+8])
		return parseAsGRIB2, messageLength, nil
	default:
		return parseAsInvalidMessage, 0, fmt.Errorf("invalid edition %d, wanted 1 or 2", edition)
	}
}
