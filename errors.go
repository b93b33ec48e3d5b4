package gribindex

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrIndexObsolete is returned for index files written in a format that is no
// longer read. The file has been removed; the caller should regenerate it.
var ErrIndexObsolete = errors.New("obsolete index format")

// ParseError is a structural error in an index file. Reading the file again
// would fail the same way, so it is never retried.
type ParseError struct {
	Location string
	Record   int
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s at record %d: %v", e.Location, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IndexIOError is returned when every read attempt failed with an I/O error.
// Record is the number of records read by the last attempt.
type IndexIOError struct {
	Location string
	Record   int
	Err      error
}

func (e *IndexIOError) Error() string {
	return fmt.Sprintf("I/O error at record %d in index file", e.Record)
}

func (e *IndexIOError) Unwrap() error { return e.Err }
