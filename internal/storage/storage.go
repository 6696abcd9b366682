package storage

import (
	"context"
	"errors"
	"io"
)

// ErrExists is returned by Put when the name is already taken. Two
// writers can never both publish the same name.
var ErrExists = errors.New("storage: name already exists")

// ErrNotFound is returned by Open for unknown names.
var ErrNotFound = errors.New("storage: file not found")

// Store is the only persistent state of the service: a flat namespace
// of opaque names. Content under a published name is immutable; Put is
// create-if-absent and publishes atomically, so readers never observe
// a partial write.
type Store interface {
	// Put streams r to a new file under name and returns the byte
	// count. It fails with ErrExists if the name is taken, leaving no
	// partial file behind on any failure.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)

	// Open returns a seekable handle to the named file and its size.
	Open(ctx context.Context, name string) (io.ReadSeekCloser, int64, error)

	// Exists reports whether name is published.
	Exists(ctx context.Context, name string) bool
}
