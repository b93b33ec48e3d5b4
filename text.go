package gribindex

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/numeric"
)

const (
	blockSeparator = "--"

	// Text indexes older than this wrote geometry keys that must be hashed.
	legacyKeyMajorVersion = 6

	recordTokens         = 14
	edition1RecordTokens = 19
)

func (r *Reader) readText(ctx context.Context, location string) (*catalog.Catalog, error) {
	rc, err := r.store.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadText(rc, location)
}

// ReadText decodes a text index: a block of "name = value" attributes, a
// block of one record per line, and groups of "name = value" geometry
// parameters. Blocks and groups are separated by lines starting with "--".
//
// A file that ends inside the attribute or record block yields an empty
// catalog and no error.
func ReadText(rd io.Reader, location string) (*catalog.Catalog, error) {
	t := &textDecoder{
		s:        bufio.NewScanner(rd),
		location: location,
		b:        catalog.NewBuilder(location),
		edition:  2,
	}
	complete, err := t.decode()
	if err != nil {
		return nil, err
	}
	if !complete {
		glog.Warningf("text index %s is truncated; returning an empty catalog", location)
		return catalog.NewBuilder(location).Build(), nil
	}
	glog.V(1).Infof("text index read: %s, %d records", location, t.b.RecordCount())
	return t.b.Build(), nil
}

type textDecoder struct {
	s        *bufio.Scanner
	location string
	b        *catalog.Builder
	line     int

	edition int
	legacy  bool
	center  int
	sub     int
	table   int
}

func (t *textDecoder) next() (string, bool) {
	if !t.s.Scan() {
		return "", false
	}
	t.line++
	return strings.TrimSpace(t.s.Text()), true
}

func (t *textDecoder) parseError(err error) error {
	return &ParseError{Location: t.location, Record: t.b.RecordCount(), Err: errors.Wrapf(err, "line %d", t.line)}
}

// decode reports false when the input ends before the geometry block.
func (t *textDecoder) decode() (bool, error) {
	if ok, err := t.readAttributes(); !ok || err != nil {
		return false, t.scanError(err)
	}
	if ok, err := t.readRecords(); !ok || err != nil {
		return false, t.scanError(err)
	}
	if err := t.readGeometries(); err != nil {
		return false, err
	}
	return true, t.scanError(nil)
}

func (t *textDecoder) scanError(err error) error {
	if err != nil {
		return err
	}
	if err := t.s.Err(); err != nil {
		return errors.Wrapf(err, "reading %s", t.location)
	}
	return nil
}

func splitAssignment(line string) (string, string, bool) {
	name, value, ok := strings.Cut(line, "=")
	return strings.TrimSpace(name), strings.TrimSpace(value), ok
}

func (t *textDecoder) readAttributes() (bool, error) {
	version := ""
	for {
		line, ok := t.next()
		if !ok {
			return false, nil
		}
		if strings.HasPrefix(line, blockSeparator) {
			break
		}
		name, value, ok := splitAssignment(line)
		if !ok {
			continue
		}
		t.b.AddAttribute(name, value)
		var err error
		switch name {
		case catalog.AttrEdition:
			if value == "1" {
				t.edition = 1
			}
		case catalog.AttrIndexVersion:
			version = value
		case catalog.AttrCenter:
			t.center, err = strconv.Atoi(value)
		case catalog.AttrSubCenter:
			t.sub, err = strconv.Atoi(value)
		case catalog.AttrTable:
			t.table, err = strconv.Atoi(value)
		}
		if err != nil {
			return false, t.parseError(errors.Wrapf(err, "attribute %s", name))
		}
	}
	major, _, ok := splitVersion(version)
	t.legacy = !ok || major < legacyKeyMajorVersion
	return true, nil
}

func (t *textDecoder) readRecords() (bool, error) {
	for {
		line, ok := t.next()
		if !ok {
			return false, nil
		}
		if strings.HasPrefix(line, blockSeparator) {
			return true, nil
		}
		if line == "" {
			continue
		}
		if err := t.parseRecord(strings.Fields(line)); err != nil {
			return false, t.parseError(err)
		}
	}
}

// tokenParser parses positional tokens, keeping the first error.
type tokenParser struct {
	tokens []string
	i      int
	err    error
}

func (p *tokenParser) next() string {
	s := p.tokens[p.i]
	p.i++
	return s
}

func (p *tokenParser) int() int {
	s := p.next()
	v, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = errors.Wrapf(err, "token %d", p.i)
	}
	return v
}

func (p *tokenParser) int64() int64 {
	s := p.next()
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && p.err == nil {
		p.err = errors.Wrapf(err, "token %d", p.i)
	}
	return v
}

func (p *tokenParser) float32() float32 {
	s := p.next()
	v, err := strconv.ParseFloat(s, 32)
	if err != nil && p.err == nil {
		p.err = errors.Wrapf(err, "token %d", p.i)
	}
	return float32(v)
}

func (p *tokenParser) bool() bool {
	s := p.next()
	v, err := strconv.ParseBool(s)
	if err != nil && p.err == nil {
		p.err = errors.Wrapf(err, "token %d", p.i)
	}
	return v
}

func (p *tokenParser) time() time.Time {
	s := p.next()
	v, err := time.Parse(baseTimeLayout, s)
	if err != nil && p.err == nil {
		p.err = errors.Wrapf(err, "token %d", p.i)
	}
	return v
}

func (t *textDecoder) key(p *tokenParser) int32 {
	s := p.next()
	if t.legacy {
		return legacyGeometryKey(s)
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil && p.err == nil {
		p.err = errors.Wrapf(err, "token %d", p.i)
	}
	return int32(v)
}

func (t *textDecoder) parseRecord(tokens []string) error {
	want := recordTokens
	if t.edition == 1 {
		want = edition1RecordTokens
	}
	if len(tokens) < want {
		return errors.Errorf("record has %d fields, want %d", len(tokens), want)
	}

	p := &tokenParser{tokens: tokens}
	pos := catalog.Position{Edition: t.edition, Center: t.center, SubCenter: t.sub, Table: t.table}
	f := catalog.Fields{
		TimeUnit:         1,
		IntervalStatType: -1,
		DecimalScale:     numeric.Undefined,
	}
	f.ProductTemplate = p.int()
	pos.Discipline = p.int()
	f.Category = p.int()
	f.ParamNumber = p.int()
	f.TypeGenProcess = p.int()
	f.LevelType1 = p.int()
	f.LevelValue1 = p.float32()
	f.LevelType2 = p.int()
	f.LevelValue2 = p.float32()
	pos.RefTime = p.time()
	f.ForecastTime = p.int()
	pos.GdsKey = t.key(p)
	pos.Offset1 = p.int64()
	pos.Offset2 = p.int64()
	if t.edition == 1 {
		f.DecimalScale = p.int()
		f.BmsExists = p.bool()
		f.Center = p.int()
		f.SubCenter = p.int()
		f.Table = p.int()
	}
	if p.err != nil {
		return p.err
	}
	if r, ok := catalog.Assemble(pos, f); ok {
		t.b.AddRecord(r)
	}
	return nil
}

func (t *textDecoder) readGeometries() error {
	var group [][2]string
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		geom, err := t.geometry(group)
		if err != nil {
			return t.parseError(err)
		}
		t.b.AddGeometry(geom)
		group = group[:0]
		return nil
	}
	for {
		line, ok := t.next()
		if !ok {
			return flush()
		}
		if strings.HasPrefix(line, blockSeparator) {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		if name, value, ok := splitAssignment(line); ok {
			group = append(group, [2]string{name, value})
		}
	}
}

func (t *textDecoder) geometry(params [][2]string) (*catalog.Geometry, error) {
	template := numeric.Undefined
	hasKey := false
	for _, kv := range params {
		switch kv[0] {
		case catalog.ParamGridType:
			if v, err := strconv.Atoi(kv[1]); err == nil {
				template = v
			}
		case catalog.ParamKey:
			hasKey = true
		}
	}
	if !hasKey {
		return nil, errors.Errorf("geometry has no %s", catalog.ParamKey)
	}

	geom := catalog.NewGeometry(t.edition, template)
	for _, kv := range params {
		if kv[0] == catalog.ParamKey {
			key, err := t.geometryKey(kv[1])
			if err != nil {
				return nil, err
			}
			geom.SetKey(key)
			continue
		}
		geom.Set(kv[0], kv[1])
	}
	return geom, nil
}

func (t *textDecoder) geometryKey(s string) (int32, error) {
	if t.legacy {
		return legacyGeometryKey(s), nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, catalog.ParamKey)
	}
	return int32(v), nil
}

// legacyGeometryKey converts a key of a pre 6.0 text index, which were
// written as strings, to the integer keys used since.
func legacyGeometryKey(token string) int32 {
	return numeric.JavaStringHash(token)
}
