package grib2

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex/numeric"
)

const (
	indicatorLength = 16
	endMarker       = "7777"
)

// Field is one product of a message: the grid and product definitions in
// force when its data section was read, and where its sections start.
type Field struct {
	Grid    *GridDefinition
	Product *ProductDefinition

	GridOffset    int // offset of section 3 within the message
	ProductOffset int // offset of section 4 within the message
	DataOffset    int // offset of section 7 within the message
	BitmapPresent bool
}

// Message is a GRIB2 record of a data file.
type Message struct {
	Discipline int
	Length     int
	Center     int
	SubCenter  int
	Table      int
	RefTime    time.Time
	Fields     []Field
}

// Read reads raw GRIB2 data and returns its messages.
//
// GRIB2 is specified here: https://library.wmo.int/doc_num.php?explnum_id=11283
func Read(data []byte) ([]*Message, error) {
	var out []*Message
	start := 0
	for start < len(data) {
		if data[start] == 0 {
			start++
			continue
		}
		msg, n, err := Read1(data[start:])
		if err != nil {
			return nil, errors.Wrapf(err, "error reading GRIB record @ byte offset %d", start)
		}
		out = append(out, msg)
		start += n
	}
	return out, nil
}

// Read1 reads a single GRIB2 message and returns it with the number of bytes
// it spans. Sections 2 to 7 may repeat; every section 7 closes a field.
func Read1(data []byte) (*Message, int, error) {
	ind := &indicatorSection{}
	if err := ind.parseBytes(data); err != nil {
		return nil, 0, errors.Wrap(err, "error parsing indicator section")
	}
	if ind.edition != 2 {
		return nil, 0, fmt.Errorf("got GRIB edition %d, expected edition 2", ind.edition)
	}
	if ind.messageLength > uint64(len(data)) {
		return nil, 0, fmt.Errorf("message length is %d, but only %d bytes supplied", ind.messageLength, len(data))
	}
	msgLen := int(ind.messageLength)
	data = data[:msgLen]
	msg := &Message{Discipline: int(ind.discipline), Length: msgLen}

	var cur Field
	start := indicatorLength
	for {
		if start+4 > msgLen {
			return nil, 0, fmt.Errorf("message ends at %d without end section", start)
		}
		if string(data[start:start+4]) == endMarker {
			start += 4
			break
		}
		if start+5 > msgLen {
			return nil, 0, fmt.Errorf("truncated section header @ %d", start)
		}
		size := int(binary.BigEndian.Uint32(data[start:]))
		num := int(data[start+4])
		if size < 5 || start+size > msgLen {
			return nil, 0, fmt.Errorf("internal error: tried to read [%d:%d] from data array of length %d", start, start+size, msgLen)
		}
		sec := data[start : start+size]
		glog.V(2).Infof("section %d @ %d, %d bytes", num, start, size)

		switch num {
		case 1:
			if err := msg.parseIdentification(sec); err != nil {
				return nil, 0, err
			}
		case 3:
			g, err := ParseGridDefinition(sec)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "section 3 @ %d", start)
			}
			cur.Grid, cur.GridOffset = g, start
		case 4:
			p, err := ParseProductDefinition(sec)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "section 4 @ %d", start)
			}
			cur.Product, cur.ProductOffset = p, start
		case 6:
			// Bit-map indicator: 0 a map follows, 254 the previous one applies.
			cur.BitmapPresent = size > 5 && (sec[5] == 0 || sec[5] == 254)
		case 7:
			if cur.Grid == nil || cur.Product == nil {
				return nil, 0, fmt.Errorf("data section @ %d has no grid or product definition", start)
			}
			cur.DataOffset = start
			msg.Fields = append(msg.Fields, cur)
		case 2, 5:
		default:
			return nil, 0, fmt.Errorf("unknown section number %d @ %d", num, start)
		}
		start += size
	}

	if start != msgLen {
		return nil, 0, fmt.Errorf("consumed %d bytes, expected to consume %d based on message length in header", start, msgLen)
	}
	return msg, start, nil
}

func (m *Message) parseIdentification(sec []byte) error {
	/* https://codes.ecmwf.int/grib/format/grib2/sections/1/

	Octets	Key	Type	Content
	1-4	section1Length	unsigned	Length of the section in octets (21 or N)
	5	numberOfSection	unsigned	Number of the section (1)
	6-7	centre	codetable	Identification of originating/generating centre (see Common Code table C-11)
	8-9	subCentre	unsigned	Identification of originating/generating sub-centre (allocated by originating/generating centre)
	10	tablesVersion	codetable	GRIB master tables version number (see Code table 1.0 and Note 1)
	11	localTablesVersion	codetable	Version number of GRIB local tables used to augment Master tables (see Code table 1.1 and Note 2)
	12	significanceOfReferenceTime	codetable	Significance of reference time (see Code table 1.2)
	13-14	year	unsigned	Year (4 digits)
	15	month	unsigned	Month
	16	day	unsigned	Day
	17	hour	unsigned	Hour
	18	minute	unsigned	Minute
	19	second	unsigned	Second
	*/
	if len(sec) < 19 {
		return fmt.Errorf("identification section must be at least 19 bytes long, got %d", len(sec))
	}
	m.Center = numeric.Uint2(sec[5:7])
	m.SubCenter = numeric.Uint2(sec[7:9])
	m.Table = int(sec[9])
	m.RefTime = time.Date(numeric.Uint2(sec[12:14]), time.Month(sec[14]), int(sec[15]),
		int(sec[16]), int(sec[17]), int(sec[18]), 0, time.UTC)
	return nil
}

type indicatorSection struct {
	discipline    byte
	edition       byte
	messageLength uint64
}

func (is *indicatorSection) parseBytes(data []byte) error {
	/* https://library.wmo.int/doc_num.php?explnum_id=11283

	92.2 Section 0 – Indicator section

	Section 0 – Indicator section
	Octet No. Contents
	1–4 GRIB (coded according to the International Alphabet No. 5)
	5–6 Reserved
	7 Discipline – GRIB Master table number (see Code table 0.0)
	8 GRIB edition number (currently 2)
	9–16 Total length of GRIB message in octets (including Section 0)
	*/
	if len(data) < indicatorLength {
		return errors.New("invalid GRIB file < 16 bytes long")
	}
	if got, want := string(data[0:4]), "GRIB"; got != want {
		return fmt.Errorf("first four bytes = %q, want %q", got, want)
	}
	is.discipline = data[6]
	is.edition = data[7]
	is.messageLength = binary.BigEndian.Uint64(data[8:16])
	glog.V(1).Infof("read indicator section %+v", is)
	return nil
}
