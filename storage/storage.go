// Package storage opens and removes index files. Index readers reopen a file
// for every read attempt, so a Store hands out fresh streams on each Open.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Store gives access to index files by name.
type Store interface {
	// Open returns a new stream positioned at the start of the named file.
	// A missing file is reported with an error matching fs.ErrNotExist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove deletes the named file.
	Remove(ctx context.Context, name string) error
}

// Local is a Store backed by the file system. Relative names are resolved
// against Root; absolute names are used as they are.
type Local struct {
	Root string
}

// NewLocal returns a file system store rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{Root: dir}
}

func (l *Local) path(name string) string {
	if filepath.IsAbs(name) || l.Root == "" {
		return name
	}
	return filepath.Join(l.Root, name)
}

// Open opens the named file for reading.
func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path(name))
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", name)
	}
	return f, nil
}

// Remove deletes the named file.
func (l *Local) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(l.path(name)); err != nil {
		return errors.Wrapf(err, "removing %s", name)
	}
	return nil
}
