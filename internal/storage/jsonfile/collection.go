// Package jsonfile persists whole collections as pretty-printed JSON
// array documents, one file per collection. Every mutation is a full
// load, in-memory transform, and atomic rewrite of the document; the
// cycle runs under a per-collection mutex, so overlapping mutations on
// the same collection cannot lose updates.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Record is an element of a collection document. Keys are positive
// integers, unique within one collection.
type Record interface {
	Key() int
}

// StorageError wraps a failed read or write of a collection document,
// so callers can tell broken storage apart from an empty collection.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Collection is a single-file document holding an ordered sequence of
// records of one type.
type Collection[T Record] struct {
	path string
	lg   *zap.Logger

	// mu spans the whole load-mutate-save cycle of Update, and plain
	// loads in Snapshot.
	mu sync.Mutex
}

// NewCollection opens the collection at path, creating an empty
// document when none exists. Creating is idempotent; an existing file
// is left untouched.
func NewCollection[T Record](path string, lg *zap.Logger) (*Collection[T], error) {
	c := &Collection[T]{path: path, lg: lg}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, &StorageError{Op: "stat", Path: path, Err: err}
		}
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, &StorageError{Op: "init", Path: path, Err: err}
		}
		lg.Info("initialized empty collection", zap.String("path", path))
	}
	return c, nil
}

// Path returns the location of the backing document.
func (c *Collection[T]) Path() string { return c.path }

// Snapshot returns the current document contents.
func (c *Collection[T]) Snapshot(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Update loads the document, applies fn to it, and persists whatever
// fn returns, all under the collection lock. When fn errors, nothing
// is written and its error is returned as is.
func (c *Collection[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "update")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load()
	if err != nil {
		return err
	}

	records, err = fn(records)
	if err != nil {
		return err
	}
	return c.save(records)
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, &StorageError{Op: "read", Path: c.path, Err: err}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StorageError{Op: "decode", Path: c.path, Err: err}
	}
	return records, nil
}

// save rewrites the whole document: serialize to a temp file in the
// same directory, then rename over the target so readers never observe
// a torn write.
func (c *Collection[T]) save(records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: c.path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "write", Path: c.path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &StorageError{Op: "write", Path: c.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &StorageError{Op: "write", Path: c.path, Err: err}
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return &StorageError{Op: "rename", Path: c.path, Err: err}
	}
	return nil
}

// NextID returns one more than the highest key present, or 1 for an
// empty sequence. Deletions leave gaps; ids are not reused while the
// current maximum survives.
func NextID[T Record](records []T) int {
	maxID := 0
	for _, r := range records {
		if r.Key() > maxID {
			maxID = r.Key()
		}
	}
	return maxID + 1
}
