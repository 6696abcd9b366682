package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arkanpardaz/bitmedia/internal/byterange"
	"github.com/arkanpardaz/bitmedia/internal/domain"
	"github.com/arkanpardaz/bitmedia/internal/rescale"
	"github.com/arkanpardaz/bitmedia/internal/storage"
)

// MediaHandler serves stored content back by name. Video and audio are
// range-aware; images degrade to a placeholder instead of 404ing so
// broken-image UI stays graceful.
type MediaHandler struct {
	store       storage.Store
	cacheMaxAge int
	placeholder []byte
	logger      *slog.Logger
}

func NewMediaHandler(store storage.Store, cacheMaxAge int, placeholder []byte, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		store:       store,
		cacheMaxAge: cacheMaxAge,
		placeholder: placeholder,
		logger:      logger,
	}
}

func (h *MediaHandler) Image(c *gin.Context) {
	name := c.Param("name")

	f, size, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		h.servePlaceholder(c)
		return
	}
	defer f.Close()

	ct, ok := imageContentType(name)
	if !ok {
		h.servePlaceholder(c)
		return
	}

	setCacheHeaders(c, h.cacheMaxAge)
	h.serveFull(c, f, size, ct)
}

// ScaleWidth serves an image rescaled to the requested width. Width
// bounds are exclusive; anything out of bounds never reaches here (the
// router rejects it as a bad query).
func (h *MediaHandler) ScaleWidth(c *gin.Context) {
	width, err := strconv.Atoi(c.Param("width"))
	if err != nil || !rescale.ValidWidth(width) {
		respondError(c, domain.ErrBadQuery)
		return
	}
	name := c.Param("name")

	f, _, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		h.servePlaceholder(c)
		return
	}
	defer f.Close()

	if _, ok := imageContentType(name); !ok {
		h.servePlaceholder(c)
		return
	}

	data, ct, err := rescale.ScaleWidth(f, width)
	if err != nil {
		h.logger.Warn("Failed to rescale image", "name", name, "error", err)
		h.servePlaceholder(c)
		return
	}

	setCacheHeaders(c, h.cacheMaxAge)
	c.Data(http.StatusOK, ct, data)
}

func (h *MediaHandler) Video(c *gin.Context) {
	name := c.Param("name")

	f, size, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		h.respondNotFound(c, err, domain.ErrVideoNotFound)
		return
	}
	defer f.Close()

	ext := lowerExt(name)
	ct := "video/" + ext
	if ext == "mov" {
		ct = "video/quicktime"
	}

	h.serveRanged(c, f, size, ct)
}

func (h *MediaHandler) Audio(c *gin.Context) {
	name := c.Param("name")

	f, size, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		h.respondNotFound(c, err, domain.ErrAudioNotFound)
		return
	}
	defer f.Close()

	ct := audioContentType(lowerExt(name))
	h.serveRanged(c, f, size, ct)
}

func (h *MediaHandler) Document(c *gin.Context) {
	name := c.Param("name")

	f, size, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		h.respondNotFound(c, err, domain.ErrDocumentNotFound)
		return
	}
	defer f.Close()

	setCacheHeaders(c, h.cacheMaxAge)
	c.DataFromReader(http.StatusOK, size, "application/pdf", f, nil)
}

// serveRanged negotiates single-range partial content: no Range header
// streams the whole file with 200, a valid range streams the window
// with 206, anything else is 416 with no body.
func (h *MediaHandler) serveRanged(c *gin.Context, f io.ReadSeekCloser, size int64, contentType string) {
	setCacheHeaders(c, h.cacheMaxAge)

	header := c.GetHeader("Range")
	if header == "" {
		h.serveFull(c, f, size, contentType)
		return
	}

	rng, err := byterange.Parse(header, size)
	if err != nil {
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Range", rng.ContentRange())
	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Length", strconv.FormatInt(rng.Length(), 10))
	c.Status(http.StatusPartialContent)

	if err := byterange.Copy(c.Request.Context(), c.Writer, f, rng); err != nil {
		// Client gone or transfer broken; nothing to send anymore.
		h.logger.Warn("Range stream aborted", "error", err)
	}
}

// serveFull streams the entire file with a 200 and exact
// Content-Length, chunked so memory stays bounded.
func (h *MediaHandler) serveFull(c *gin.Context, f io.ReadSeekCloser, size int64, contentType string) {
	c.DataFromReader(http.StatusOK, size, contentType, f, nil)
}

func (h *MediaHandler) servePlaceholder(c *gin.Context) {
	setCacheHeaders(c, h.cacheMaxAge)
	c.Data(http.StatusOK, "image/png", h.placeholder)
}

func (h *MediaHandler) respondNotFound(c *gin.Context, err error, notFound *domain.Error) {
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, notFound)
		return
	}
	h.logger.Error("Failed to open stored file", "error", err)
	respondError(c, notFound)
}

func lowerExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func imageContentType(name string) (string, bool) {
	switch lowerExt(name) {
	case "png":
		return "image/png", true
	case "jpg", "jpeg":
		return "image/jpeg", true
	}
	return "", false
}

func audioContentType(ext string) string {
	switch ext {
	case "mp3":
		return "audio/mpeg"
	case "aac":
		return "audio/aac"
	case "wav":
		return "audio/wav"
	case "m4a":
		return "audio/mp4"
	}
	return "application/octet-stream"
}
