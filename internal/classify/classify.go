// Package classify determines the true media category of uploaded
// bytes by content sniffing. Client-declared content types and file
// extensions are never consulted.
package classify

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/arkanpardaz/bitmedia/internal/domain"
)

// SniffLen is how many leading bytes the classifier needs. Matches the
// detection limit of the mimetype library.
const SniffLen = 3072

// Classifier validates sniffed MIME types against a closed allow-list.
type Classifier struct {
	allowed map[string]bool
}

// New builds a Classifier from the configured allow-list. Every entry
// must map to exactly one category via categoryOf.
func New(allowedTypes []string) *Classifier {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}
	return &Classifier{allowed: allowed}
}

// Classify sniffs the leading bytes of an upload and returns its
// category and MIME type. Types outside the allow-list fail with
// ErrFormatNotAllowed regardless of how the client named the file.
func (c *Classifier) Classify(head []byte) (domain.Category, string, error) {
	mime := mimetype.Detect(head).String()
	// Detect appends parameters for some text types; the allow-list
	// holds bare media types.
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	if !c.allowed[mime] {
		return "", "", domain.ErrFormatNotAllowed
	}

	cat, ok := categoryOf(mime)
	if !ok {
		return "", "", domain.ErrUnsupportedType
	}
	return cat, mime, nil
}

func categoryOf(mime string) (domain.Category, bool) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return domain.CategoryImage, true
	case strings.HasPrefix(mime, "video/"):
		return domain.CategoryVideo, true
	case strings.HasPrefix(mime, "audio/"):
		return domain.CategoryAudio, true
	case mime == "application/pdf":
		return domain.CategoryDocument, true
	}
	return "", false
}
