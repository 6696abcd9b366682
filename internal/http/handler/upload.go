package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkanpardaz/bitmedia/internal/domain"
	"github.com/arkanpardaz/bitmedia/internal/ingest"
)

type UploadHandler struct {
	pipeline *ingest.Pipeline
	logger   *slog.Logger
}

func NewUploadHandler(pipeline *ingest.Pipeline, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{pipeline: pipeline, logger: logger}
}

// Upload accepts one multipart file. The optional :category segment
// restricts the route to a single category, still verified against
// sniffed content rather than the client's claim.
func (h *UploadHandler) Upload(c *gin.Context) {
	expected := domain.Category(c.Param("category"))
	if expected != "" && !expected.Valid() {
		respondError(c, domain.ErrBadQuery)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("No file in multipart form", "error", err)
		respondError(c, domain.ErrMissingFile)
		return
	}

	src, err := fh.Open()
	if err != nil {
		h.logger.Warn("Failed to open uploaded file", "error", err)
		respondError(c, domain.TransportError(err))
		return
	}
	defer src.Close()

	res, err := h.pipeline.Ingest(c.Request.Context(), ingest.Upload{
		Reader:   src,
		Filename: fh.Filename,
		Size:     fh.Size,
	}, expected)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		State:          "success",
		URL:            res.File.Name,
		Type:           res.File.Category,
		Thumbnail:      res.Thumbnail,
		ThumbnailError: res.ThumbnailError,
	})
}
