package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arkanpardaz/bitmedia/internal/domain"
)

// UploadResponse is the success envelope of the upload endpoint.
type UploadResponse struct {
	State          string          `json:"state"`
	URL            string          `json:"url"`
	Type           domain.Category `json:"type"`
	Thumbnail      string          `json:"thumbnail,omitempty"`
	ThumbnailError string          `json:"thumbnail_error,omitempty"`
}

// ErrorResponse is the error envelope shared by every endpoint.
// Callers must check state, not the HTTP status: envelope errors ship
// with HTTP 200. Only byte-range failures use a real error status.
type ErrorResponse struct {
	State        string `json:"state"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func respondError(c *gin.Context, err error) {
	var perr *domain.Error
	if !errors.As(err, &perr) {
		perr = &domain.Error{Code: domain.ErrStorageExhausted.Code, Message: err.Error()}
	}
	c.JSON(http.StatusOK, ErrorResponse{
		State:        "error",
		ErrorCode:    perr.Code,
		ErrorMessage: perr.Message,
	})
}

// setCacheHeaders marks retrieval responses immutable: names are never
// reused and content under a name never changes.
func setCacheHeaders(c *gin.Context, seconds int) {
	c.Header("Cache-Control", "public, max-age="+strconv.Itoa(seconds)+", immutable")
	c.Header("Expires", time.Now().Add(time.Duration(seconds)*time.Second).UTC().Format(http.TimeFormat))
}
