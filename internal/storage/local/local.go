// Package local implements the store on a filesystem directory. The
// filesystem is injected as an afero.Fs so tests run against an
// in-memory backend with no temp dirs.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/arkanpardaz/bitmedia/internal/storage"
)

type LocalStore struct {
	fs      afero.Fs
	baseDir string
}

func NewLocalStore(fs afero.Fs, baseDir string) *LocalStore {
	return &LocalStore{fs: fs, baseDir: baseDir}
}

// Put claims name with O_EXCL before reading a single byte (so a
// collision fails loudly and leaves r untouched for a retry), streams
// r to a temp file, and publishes by renaming the temp over the claim.
// No failure path leaves a partial file behind.
func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := validateName(name); err != nil {
		return 0, err
	}

	if err := s.fs.MkdirAll(s.baseDir, 0o755); err != nil {
		return 0, fmt.Errorf("create content dir: %w", err)
	}

	finalPath := path.Join(s.baseDir, name)
	claim, err := s.fs.OpenFile(finalPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return 0, storage.ErrExists
		}
		return 0, fmt.Errorf("claim name %s: %w", name, err)
	}
	claim.Close()

	tmpPath := path.Join(s.baseDir, "."+uuid.New().String()+".tmp")
	tmp, err := s.fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.fs.Remove(finalPath)
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.fs.Remove(tmpPath)
		s.fs.Remove(finalPath)
		return 0, fmt.Errorf("write temp file: %w", err)
	}

	// The claim is ours; replace it with the fully written content in
	// one rename so readers never observe a half-written file.
	s.fs.Remove(finalPath)
	if err := s.fs.Rename(tmpPath, finalPath); err != nil {
		s.fs.Remove(tmpPath)
		return 0, fmt.Errorf("publish %s: %w", name, err)
	}

	return n, nil
}

func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadSeekCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if err := validateName(name); err != nil {
		return nil, 0, storage.ErrNotFound
	}

	f, err := s.fs.Open(path.Join(s.baseDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, storage.ErrNotFound
		}
		return nil, 0, fmt.Errorf("open %s: %w", name, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", name, err)
	}

	return f, stat.Size(), nil
}

func (s *LocalStore) Exists(ctx context.Context, name string) bool {
	if ctx.Err() != nil || validateName(name) != nil {
		return false
	}
	ok, err := afero.Exists(s.fs, path.Join(s.baseDir, name))
	return err == nil && ok
}

// validateName keeps client-supplied names inside the store directory.
// Generated names always pass; anything with path syntax is rejected.
func validateName(name string) error {
	if name == "" ||
		strings.ContainsAny(name, "/\\") ||
		strings.Contains(name, "..") {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}
