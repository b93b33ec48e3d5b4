// Package gribindex reads the index files that accompany GRIB data files and
// turns them into catalogs of grid records and grid geometries.
//
// Two layouts exist: a binary one, versioned by its index_version attribute,
// and an older line oriented text one. Reader detects which one a file uses.
package gribindex

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/batchatco/go-thrower"
	"github.com/cenkalti/backoff"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
	"github.com/sdifrance/gribindex/storage"
)

const (
	// textIndexMarker is "index_ve" read as a big-endian int64: the first
	// bytes of every text index.
	textIndexMarker int64 = 7597120008394602085

	baseTimeLayout = "2006-01-02T15:04:05Z"
	endOfGeometry  = "End"

	// maxSectionLength bounds the raw sections stored in an index.
	maxSectionLength = 1 << 24
)

var errTextIndex = errors.New("text index")

// Reader decodes index files held in a Store. A Reader has no mutable state
// and may be used by several goroutines.
type Reader struct {
	store storage.Store
	opts  Options
}

// NewReader returns a reader for the indexes of store.
func NewReader(store storage.Store, opts Options) *Reader {
	return &Reader{store: store, opts: opts.withDefaults()}
}

// Read decodes the index file at location.
//
// Open and read errors are retried on a fresh stream; when every attempt
// fails the error is an *IndexIOError. Structural errors, including a file
// that ends inside a record, are reported at once as a *ParseError. A
// missing file is reported at once with an error matching fs.ErrNotExist.
// Obsolete 7.1 files are removed from the store and reported as
// ErrIndexObsolete.
func (r *Reader) Read(ctx context.Context, location string) (*catalog.Catalog, error) {
	start := time.Now()
	var (
		cat     *catalog.Catalog
		fatal   error
		records int
	)
	op := func() error {
		c, n, err := r.readOnce(ctx, location)
		records = n
		if err == nil {
			cat = c
			return nil
		}
		if !retryable(err) {
			fatal = err
			return nil
		}
		return err
	}
	err := backoff.RetryNotify(op, r.policy(ctx), func(err error, d time.Duration) {
		glog.Infof("rereading index %s in %v: %v", location, d, err)
	})
	switch {
	case fatal != nil:
		if errors.Is(fatal, ErrIndexObsolete) {
			r.removeObsolete(ctx, location)
		}
		return nil, fatal
	case err != nil:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &IndexIOError{Location: location, Record: records, Err: err}
	}

	if r.opts.Timing {
		glog.Infof("index read %s count=%d took=%v", location, cat.RecordCount(), time.Since(start))
	}
	glog.V(1).Infof("index read: %s, %d records", location, cat.RecordCount())
	return cat, nil
}

// policy retries at a constant delay until Attempts reads have been made.
func (r *Reader) policy(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if r.opts.Attempts > 1 {
		// WithMaxRetries treats 0 as unlimited.
		b = backoff.WithMaxRetries(backoff.NewConstantBackOff(r.opts.RetryDelay), uint64(r.opts.Attempts-1))
	}
	return backoff.WithContext(b, ctx)
}

func (r *Reader) removeObsolete(ctx context.Context, location string) {
	if err := r.store.Remove(ctx, location); err != nil {
		glog.Warningf("removing obsolete index %s: %v", location, err)
		return
	}
	glog.Infof("removed obsolete index %s", location)
}

// retryable reports whether a failed attempt is worth repeating. Failures
// to open or read the stream are; a file that does not exist, a malformed
// file and an obsolete one are not.
func retryable(err error) bool {
	var pe *ParseError
	switch {
	case errors.As(err, &pe):
		return false
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, ErrIndexObsolete):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// readOnce makes one attempt at reading the index. It returns the number of
// records read so far along with any error.
func (r *Reader) readOnce(ctx context.Context, location string) (*catalog.Catalog, int, error) {
	rc, err := r.store.Open(ctx, location)
	if err != nil {
		return nil, 0, err
	}
	d := newIndexDecoder(bufio.NewReader(rc), location)
	cat, err := d.decode()
	rc.Close()
	if errors.Is(err, errTextIndex) {
		cat, err = r.readText(ctx, location)
		if err != nil {
			return nil, 0, err
		}
		return cat, cat.RecordCount(), nil
	}
	if err != nil {
		return nil, d.b.RecordCount(), err
	}
	return cat, cat.RecordCount(), nil
}

type readState int

const (
	stateStart readState = iota
	stateSentinelCheck
	stateDelegateToText
	stateParseAttributes
	stateRecordLoop
	stateGeometryLoop
	stateDone
)

func (s readState) String() string {
	switch s {
	case stateStart:
		return "Start"
	case stateSentinelCheck:
		return "SentinelCheck"
	case stateDelegateToText:
		return "DelegateToText"
	case stateParseAttributes:
		return "ParseAttributes"
	case stateRecordLoop:
		return "RecordLoop"
	case stateGeometryLoop:
		return "GeometryLoop"
	case stateDone:
		return "Done"
	}
	return "readState(" + strconv.Itoa(int(s)) + ")"
}

// indexDecoder reads one binary index stream. Its mustRead methods throw on
// error; decode recovers them.
type indexDecoder struct {
	r        *bufio.Reader
	location string
	b        *catalog.Builder
	state    readState

	edition int
	version FormatVersion
	center  int
	sub     int
	table   int
}

func newIndexDecoder(r *bufio.Reader, location string) *indexDecoder {
	return &indexDecoder{
		r:        r,
		location: location,
		b:        catalog.NewBuilder(location),
		edition:  2,
	}
}

func (d *indexDecoder) enter(s readState) {
	glog.V(2).Infof("%s: %v -> %v", d.location, d.state, s)
	d.state = s
}

func (d *indexDecoder) decode() (cat *catalog.Catalog, err error) {
	defer thrower.RecoverError(&err)

	d.enter(stateSentinelCheck)
	if d.mustReadInt64() == textIndexMarker {
		d.enter(stateDelegateToText)
		return nil, errTextIndex
	}

	d.enter(stateParseAttributes)
	d.parseAttributes(d.mustReadUTF())
	if d.version == Version71 {
		return nil, errors.Wrapf(ErrIndexObsolete, "index %s has version 7.1", d.location)
	}
	if d.version == VersionOther {
		glog.Warningf("%s: unrecognized index_version, reading it as 8.0", d.location)
	}

	d.enter(stateRecordLoop)
	n := int(d.mustReadInt32())
	if n < 0 {
		d.throwParse(errors.Errorf("negative record count %d", n))
	}
	for i := 0; i < n; i++ {
		if d.version.DecodedRecords() {
			d.readDecodedRecord()
		} else {
			d.readRecord()
		}
	}

	d.enter(stateGeometryLoop)
	if d.version.TextGeometries() {
		d.readTextGeometries()
	} else {
		d.readGeometries()
	}

	d.enter(stateDone)
	return d.b.Build(), nil
}

func (d *indexDecoder) throwParse(err error) {
	thrower.Throw(&ParseError{Location: d.location, Record: d.b.RecordCount(), Err: err})
}

func (d *indexDecoder) parseAttributes(line string) {
	glog.V(2).Infof("%s: attributes %q", d.location, line)
	d.version = ParseFormatVersion("")
	fields := strings.Fields(line)
	if len(fields)%2 != 0 {
		d.throwParse(errors.Errorf("attribute %q has no value", fields[len(fields)-1]))
	}
	for i := 0; i < len(fields); i += 2 {
		name, value := fields[i], fields[i+1]
		d.b.AddAttribute(name, value)
		switch name {
		case catalog.AttrBaseTime:
			if _, err := time.Parse(baseTimeLayout, value); err != nil {
				d.throwParse(errors.Wrap(err, "basetime"))
			}
		case catalog.AttrEdition:
			if value == "1" {
				d.edition = 1
			}
		case catalog.AttrIndexVersion:
			d.version = ParseFormatVersion(value)
			if d.version == Version71 {
				return
			}
		case catalog.AttrCenter:
			d.center = d.atoi(name, value)
		case catalog.AttrSubCenter:
			d.sub = d.atoi(name, value)
		case catalog.AttrTable:
			d.table = d.atoi(name, value)
		}
	}
}

func (d *indexDecoder) atoi(name, value string) int {
	v, err := strconv.Atoi(value)
	if err != nil {
		d.throwParse(errors.Wrapf(err, "attribute %s", name))
	}
	return v
}

func (d *indexDecoder) position() catalog.Position {
	return catalog.Position{
		Edition:   d.edition,
		Center:    d.center,
		SubCenter: d.sub,
		Table:     d.table,
	}
}

// readDecodedRecord reads a 7.0 record, whose fields were decoded by the
// index writer. Forecast times are in hours.
func (d *indexDecoder) readDecodedRecord() {
	pos := d.position()
	f := catalog.Fields{
		TimeUnit:         1,
		IntervalStatType: -1,
		DecimalScale:     numeric.Undefined,
	}
	f.ProductTemplate = int(d.mustReadInt32())
	pos.Discipline = int(d.mustReadInt32())
	f.Category = int(d.mustReadInt32())
	f.ParamNumber = int(d.mustReadInt32())
	f.TypeGenProcess = int(d.mustReadInt32())
	f.LevelType1 = int(d.mustReadInt32())
	f.LevelValue1 = d.mustReadFloat32()
	f.LevelType2 = int(d.mustReadInt32())
	f.LevelValue2 = d.mustReadFloat32()
	pos.RefTime = time.UnixMilli(d.mustReadInt64()).UTC()
	f.ForecastTime = int(d.mustReadInt32())
	pos.GdsKey = d.mustReadInt32()
	pos.Offset1 = d.mustReadInt64()
	pos.Offset2 = d.mustReadInt64()
	if d.edition == 1 {
		f.DecimalScale = int(d.mustReadInt32())
		f.BmsExists = d.mustReadBool()
		f.Center = int(d.mustReadInt32())
		f.SubCenter = int(d.mustReadInt32())
		f.Table = int(d.mustReadInt32())
	}
	d.add(pos, f)
}

// readRecord reads a record holding the message's raw product definition
// section.
func (d *indexDecoder) readRecord() {
	pos := d.position()
	pos.Discipline = int(d.mustReadInt32())
	pos.RefTime = time.UnixMilli(d.mustReadInt64()).UTC()
	pos.GdsKey = d.mustReadInt32()
	pos.Offset1 = d.mustReadInt64()
	pos.Offset2 = d.mustReadInt64()
	pds := d.mustReadBlock()

	desc, err := DecodeDescriptor(d.edition, pds)
	if err != nil {
		d.throwParse(errors.Wrap(err, "product definition"))
	}
	d.add(pos, desc.Fields())
}

func (d *indexDecoder) add(pos catalog.Position, f catalog.Fields) {
	r, ok := catalog.Assemble(pos, f)
	if !ok {
		glog.V(2).Infof("%s: skipping zero length interval at offset %d", d.location, pos.Offset1)
		return
	}
	if glog.V(2) {
		glog.Infof("%d %d %d %d %d %d %v %d %v %s %d %d %d %d",
			r.ProductTemplate, r.Discipline, r.Category, r.ParamNumber, r.TypeGenProcess,
			r.LevelType1, r.LevelValue1, r.LevelType2, r.LevelValue2,
			r.ValidTime.Format(baseTimeLayout), r.ForecastTime, r.GdsKey, r.Offset1, r.Offset2)
	}
	d.b.AddRecord(r)
}

func (d *indexDecoder) readTextGeometries() {
	for {
		line := d.mustReadUTF()
		if line == endOfGeometry {
			return
		}
		d.addGeometry([]byte(line))
	}
}

func (d *indexDecoder) readGeometries() {
	n := int(d.mustReadInt32())
	if n < 0 {
		d.throwParse(errors.Errorf("negative geometry count %d", n))
	}
	for i := 0; i < n; i++ {
		d.addGeometry(d.mustReadBlock())
	}
}

func (d *indexDecoder) addGeometry(data []byte) {
	geom, err := DecodeGeometry(d.edition, d.version, data)
	if err != nil {
		d.throwParse(errors.Wrap(err, "grid definition"))
	}
	d.b.AddGeometry(geom)
}

// check throws err. Running out of input inside the index is a structural
// error; anything else the stream reports is left to the retry loop.
func (d *indexDecoder) check(err error) {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		d.throwParse(errors.Wrapf(io.ErrUnexpectedEOF, "index ends inside %v", d.state))
	}
	thrower.ThrowIfError(err)
}

func (d *indexDecoder) mustRead(data any) {
	d.check(binary.Read(d.r, binary.BigEndian, data))
}

func (d *indexDecoder) mustReadInt32() int32 {
	var v int32
	d.mustRead(&v)
	return v
}

func (d *indexDecoder) mustReadInt64() int64 {
	var v int64
	d.mustRead(&v)
	return v
}

func (d *indexDecoder) mustReadFloat32() float32 {
	var v uint32
	d.mustRead(&v)
	return math.Float32frombits(v)
}

func (d *indexDecoder) mustReadBool() bool {
	b, err := d.r.ReadByte()
	d.check(err)
	return b != 0
}

// mustReadBlock reads a section preceded by its 4 byte length.
func (d *indexDecoder) mustReadBlock() []byte {
	n := d.mustReadInt32()
	if n < 0 || n > maxSectionLength {
		d.throwParse(errors.Errorf("section length %d out of range", n))
	}
	buf := make([]byte, n)
	_, err := io.ReadFull(d.r, buf)
	d.check(err)
	return buf
}

// mustReadUTF reads a string preceded by its unsigned 2 byte length, encoded
// in the modified UTF-8 of java.io.DataOutput.
func (d *indexDecoder) mustReadUTF() string {
	var n uint16
	d.mustRead(&n)
	buf := make([]byte, n)
	_, err := io.ReadFull(d.r, buf)
	d.check(err)
	s, err := decodeModifiedUTF8(buf)
	if err != nil {
		d.throwParse(err)
	}
	return s
}
