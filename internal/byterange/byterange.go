// Package byterange implements single-range HTTP partial content: the
// Range header grammar this service accepts and the bounded-buffer
// copy that serves a byte window. Multi-range requests are always
// rejected; a response is one range or the whole file, never a
// multipart body.
package byterange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrUnsatisfiable maps to HTTP 416. Any range this package cannot
// honor exactly is unsatisfiable; ranges are never silently adjusted
// beyond the end-clamp the protocol allows.
var ErrUnsatisfiable = errors.New("requested range not satisfiable")

// ChunkSize bounds memory per in-flight transfer.
const ChunkSize = 8 * 1024

// Range is an inclusive byte window within a resource of Size bytes.
// Invariant: 0 <= Start <= End <= Size-1.
type Range struct {
	Start int64
	End   int64
	Size  int64
}

// Length is the number of bytes the window covers.
func (r Range) Length() int64 { return r.End - r.Start + 1 }

// ContentRange renders the Content-Range header value.
func (r Range) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, r.Size)
}

// Parse resolves a Range header value against a resource size.
// Supported forms: "bytes=a-b", "bytes=a-", "bytes=-n". The unit token
// before '=' is not validated. Comma-separated ranges, malformed
// offsets, start beyond end, and start beyond the resource all fail
// with ErrUnsatisfiable.
func Parse(header string, size int64) (Range, error) {
	eq := strings.IndexByte(header, '=')
	if eq < 0 {
		return Range{}, ErrUnsatisfiable
	}
	spec := header[eq+1:]

	if strings.ContainsRune(spec, ',') {
		return Range{}, ErrUnsatisfiable
	}

	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return Range{}, ErrUnsatisfiable
	}

	var start, end int64
	if dash == 0 {
		// Suffix form: the last n bytes. A suffix longer than the
		// resource clamps to the whole resource.
		n, err := strconv.ParseInt(spec[1:], 10, 64)
		if err != nil || n < 0 {
			return Range{}, ErrUnsatisfiable
		}
		start = size - n
		if start < 0 {
			start = 0
		}
		end = size - 1
	} else {
		var err error
		start, err = strconv.ParseInt(spec[:dash], 10, 64)
		if err != nil || start < 0 {
			return Range{}, ErrUnsatisfiable
		}
		if rest := spec[dash+1:]; rest == "" {
			end = size - 1
		} else {
			end, err = strconv.ParseInt(rest, 10, 64)
			if err != nil {
				return Range{}, ErrUnsatisfiable
			}
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start > end || start >= size {
		return Range{}, ErrUnsatisfiable
	}

	return Range{Start: start, End: end, Size: size}, nil
}

// Copy streams the window r from src to dst in ChunkSize pieces,
// seeking to the start first. It stops promptly when ctx is cancelled
// or dst rejects a write (client gone); a broken transfer is never
// retried.
func Copy(ctx context.Context, dst io.Writer, src io.ReadSeeker, r Range) error {
	if _, err := src.Seek(r.Start, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", r.Start, err)
	}

	remaining := r.Length()
	buf := make([]byte, ChunkSize)
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk := buf
		if remaining < ChunkSize {
			chunk = buf[:remaining]
		}

		n, err := src.Read(chunk)
		if n > 0 {
			if _, werr := dst.Write(chunk[:n]); werr != nil {
				return werr
			}
			remaining -= int64(n)
		}
		if err != nil {
			if err == io.EOF && remaining == 0 {
				return nil
			}
			return err
		}
	}
	return nil
}
