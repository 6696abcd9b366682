// Package ingest orchestrates upload validation and storage placement.
// Every gate is terminal: the first failure decides the error and no
// file is left behind.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/arkanpardaz/bitmedia/internal/classify"
	"github.com/arkanpardaz/bitmedia/internal/config"
	"github.com/arkanpardaz/bitmedia/internal/domain"
	"github.com/arkanpardaz/bitmedia/internal/naming"
	"github.com/arkanpardaz/bitmedia/internal/storage"
	"github.com/arkanpardaz/bitmedia/internal/thumbnail"
)

// putRetries caps name regeneration after a store collision before the
// pipeline gives up with StorageExhausted.
const putRetries = 3

// Upload is the transient view of one incoming file. Filename is the
// client-declared name, used only for its extension.
type Upload struct {
	Reader   io.Reader
	Filename string
	Size     int64
}

// Result describes a successful ingestion. Thumbnail fields are only
// populated for video and only when thumbnailing is configured; a
// thumbnail failure is advisory, never an ingestion failure.
type Result struct {
	File           domain.StoredFile
	Thumbnail      string
	ThumbnailError string
}

type Pipeline struct {
	store      storage.Store
	classifier *classify.Classifier
	names      naming.Generator
	cfg        *config.Config
	thumbs     thumbnail.Thumbnailer
	logger     *slog.Logger
}

// NewPipeline wires the ingestion flow. thumbs may be nil to disable
// the video thumbnail step.
func NewPipeline(store storage.Store, classifier *classify.Classifier, names naming.Generator, cfg *config.Config, thumbs thumbnail.Thumbnailer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:      store,
		classifier: classifier,
		names:      names,
		cfg:        cfg,
		thumbs:     thumbs,
		logger:     logger,
	}
}

// Ingest validates and stores one upload. expected restricts the route
// to a single category when non-empty; the restriction is verified
// against sniffed content, never the client's claim.
func (p *Pipeline) Ingest(ctx context.Context, up Upload, expected domain.Category) (Result, error) {
	if up.Size <= 0 {
		return Result{}, domain.ErrEmptyUpload
	}

	head := make([]byte, classify.SniffLen)
	n, err := io.ReadFull(up.Reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		p.logger.Warn("Upload transfer failed", "error", err)
		return Result{}, domain.TransportError(err)
	}
	if n == 0 {
		return Result{}, domain.ErrEmptyUpload
	}
	head = head[:n]

	category, mime, err := p.classifier.Classify(head)
	if err != nil {
		p.logger.Warn("Rejected upload by content", "error", err)
		return Result{}, err
	}

	if expected != "" && expected != category {
		p.logger.Warn("Category mismatch on restricted route", "expected", expected, "got", category)
		return Result{}, domain.MismatchError(expected)
	}

	if limit := p.cfg.MaxSize(category); up.Size > limit {
		p.logger.Warn("File too large", "category", category, "size", up.Size, "max", limit)
		return Result{}, domain.TooLargeError(category, limit)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(up.Filename), "."))

	file, err := p.place(ctx, head, up.Reader, ext)
	if err != nil {
		return Result{}, err
	}
	file.Category = category
	file.MIMEType = mime
	file.Ext = ext

	res := Result{File: file}
	if category == domain.CategoryVideo && p.thumbs != nil {
		if thumb, err := p.thumbs.Thumbnail(ctx, file.Name); err != nil {
			p.logger.Warn("Thumbnail generation failed", "video", file.Name, "error", err)
			res.ThumbnailError = "Could not generate thumbnail"
		} else {
			res.Thumbnail = thumb
		}
	}

	p.logger.Info("File uploaded successfully", "name", file.Name, "category", category, "size", file.Size)
	return res, nil
}

// place writes the upload under a fresh random name, regenerating on
// the statistically negligible collision.
func (p *Pipeline) place(ctx context.Context, head []byte, rest io.Reader, ext string) (domain.StoredFile, error) {
	for attempt := 0; attempt < putRetries; attempt++ {
		name := p.names.Generate(ext)
		body := io.MultiReader(bytes.NewReader(head), rest)

		size, err := p.store.Put(ctx, name, body)
		if err == nil {
			return domain.StoredFile{Name: name, Size: size}, nil
		}
		if errors.Is(err, storage.ErrExists) {
			p.logger.Warn("Name collision, regenerating", "name", name)
			continue
		}
		p.logger.Error("Failed to store upload", "name", name, "error", err)
		return domain.StoredFile{}, domain.ErrStorageExhausted
	}
	return domain.StoredFile{}, domain.ErrStorageExhausted
}
