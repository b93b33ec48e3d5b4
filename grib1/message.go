// Package grib1 decodes the sections of GRIB edition 1 messages that index
// files carry: the product definition (section 1) and the grid description
// (section 2), plus the catalogue grids a message may name instead of
// describing its grid.
//
// The section layouts are available in HTML form at
// https://apps.ecmwf.int/codes/grib/format/grib1/sections/1/.
package grib1

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

// Message is a GRIB1 record of a data file. Only the sections an index
// describes are decoded; the bitmap and the packed data are measured.
type Message struct {
	length     int
	product    *ProductDefinition
	grid       *GridDefinition
	bitmapLen  int
	dataLen    int
	dataOffset int
}

// ProductDefinition returns the decoded section 1.
func (m *Message) ProductDefinition() *ProductDefinition { return m.product }

// GridDefinition returns the decoded section 2, or nil when the message
// names a catalogued grid.
func (m *Message) GridDefinition() *GridDefinition { return m.grid }

// Length returns the total length of the message.
func (m *Message) Length() int { return m.length }

// BitmapLength returns the length of section 3, 0 when absent.
func (m *Message) BitmapLength() int { return m.bitmapLen }

// DataOffset returns the offset of section 4 from the start of the message.
func (m *Message) DataOffset() int { return m.dataOffset }

// DataLength returns the length of section 4.
func (m *Message) DataLength() int { return m.dataLen }

// GeometryKey returns the key an index gives the message's grid.
func (m *Message) GeometryKey() int32 {
	if m.grid != nil {
		return m.grid.Key()
	}
	return int32(predefinedKeyOffset + m.product.GridID())
}

// Geometry decodes the message's grid.
func (m *Message) Geometry() *catalog.Geometry {
	key := m.GeometryKey()
	if m.grid != nil {
		return m.grid.Geometry(key)
	}
	geom, _ := PredefinedGeometry(key)
	return geom
}

// String returns a summary description of the message.
func (m *Message) String() string {
	suffix := ""
	if m.grid != nil {
		suffix = fmt.Sprintf(" datarep = %d", m.grid.Template())
	}
	return fmt.Sprintf("indicator of parameter = %d; table2Version = %d; center = %d%s",
		m.product.Parameter(), m.product.TableVersion(), m.product.Center(), suffix)
}

// Read reads all messages of a raw GRIB1 file. Zero padding between messages
// is skipped.
func Read(data []byte) ([]*Message, error) {
	var out []*Message
	unconsumed := data
	offset := 0
	for len(unconsumed) > 0 {
		record, bytesRead, err := read1MaybeZeroPadded(unconsumed)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading GRIB record @ byte offset %d", offset)
		}
		if record != nil {
			out = append(out, record)
		}
		unconsumed = unconsumed[bytesRead:]
		offset += bytesRead
	}
	return out, nil
}

func read1MaybeZeroPadded(data []byte) (*Message, int, error) {
	zerosConsumed := 0
	for len(data) > 0 && data[0] == 0 {
		zerosConsumed++
		data = data[1:]
	}
	if len(data) == 0 {
		return nil, zerosConsumed, nil
	}
	got, recordBytes, err := Read1(data)
	return got, recordBytes + zerosConsumed, err
}

// Read1 reads a single GRIB1 message from a byte array and returns it with
// the number of bytes it spans.
func Read1(data []byte) (*Message, int, error) {
	sec0 := &indicatorSection{}
	offset, err := sec0.parseBytes(data)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error parsing indicator section")
	}
	msg := &Message{length: sec0.messageLength}
	data = data[:sec0.messageLength]

	sec1Len, err := sectionLength(data[offset:])
	if err != nil {
		return nil, 0, errors.Wrap(err, "error parsing product definition section")
	}
	if msg.product, err = ParseProductDefinition(data[offset : offset+sec1Len]); err != nil {
		return nil, 0, errors.Wrap(err, "error parsing product definition section")
	}
	offset += sec1Len

	if msg.product.GridDescriptionIncluded() {
		n, err := sectionLength(data[offset:])
		if err != nil {
			return nil, 0, errors.Wrap(err, "error parsing grid description section")
		}
		if msg.grid, err = ParseGridDefinition(data[offset : offset+n]); err != nil {
			return nil, 0, errors.Wrap(err, "error parsing grid description section")
		}
		offset += n
	}

	if msg.product.BitmapIncluded() {
		if msg.bitmapLen, err = sectionLength(data[offset:]); err != nil {
			return nil, 0, errors.Wrap(err, "error parsing bitmap section")
		}
		offset += msg.bitmapLen
	}

	msg.dataOffset = offset
	if msg.dataLen, err = sectionLength(data[offset:]); err != nil {
		return nil, 0, errors.Wrap(err, "error parsing binary data section")
	}
	offset += msg.dataLen

	if err := parseEndSection(data[offset:]); err != nil {
		return nil, 0, errors.Wrap(err, "error parsing end section")
	}
	offset += 4

	if offset != sec0.messageLength {
		return nil, 0, fmt.Errorf("consumed %d bytes, expected to consume %d based on message length in header", offset, sec0.messageLength)
	}
	return msg, offset, nil
}

type indicatorSection struct {
	messageLength int
}

func (is *indicatorSection) parseBytes(data []byte) (int, error) {
	/* https://apps.ecmwf.int/codes/grib/format/grib1/overview

	Octets	Key	Type	Content
	1-4	identifier	ascii	GRIB (coded according to the CCITT International Alphabet No. 5)
	5-7	totalLength	unsigned	Total length of GRIB message (including Section 0)
	8	editionNumber	unsigned	GRIB edition number (currently 1)
	*/
	if len(data) < 8 {
		return 0, errors.New("invalid GRIB file < 8 bytes long")
	}
	if got, want := string(data[0:4]), "GRIB"; got != want {
		return 0, fmt.Errorf("first four bytes = %q, want %q", got, want)
	}
	if got, want := data[7], byte(1); got != want {
		return 0, fmt.Errorf("got GRIB edition %d, expected edition %d", got, want)
	}
	is.messageLength = numeric.Uint3(data[4:7])
	if is.messageLength > len(data) {
		return 0, fmt.Errorf("message length is %d, but only %d bytes supplied", is.messageLength, len(data))
	}
	return 8, nil
}

// sectionLength reads the three byte length that starts sections 1 to 4.
func sectionLength(data []byte) (int, error) {
	if len(data) < 3 {
		return 0, fmt.Errorf("section must be at least 3 bytes long, got %d", len(data))
	}
	n := numeric.Uint3(data[0:3])
	if n < 3 {
		return 0, fmt.Errorf("section claims length %d", n)
	}
	if n > len(data) {
		return 0, fmt.Errorf("section claims its length %d is greater than data size %d", n, len(data))
	}
	return n, nil
}

func parseEndSection(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("got end section length %d, expected data length of at least 4", len(data))
	}
	if got, want := string(data[0:4]), "7777"; got != want {
		return fmt.Errorf("got end sequence %q, want %q", got, want)
	}
	return nil
}
