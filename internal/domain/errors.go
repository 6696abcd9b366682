package domain

import "fmt"

// Error is a protocol-level failure with a stable numeric code. The
// codes are part of the wire contract and must never be renumbered.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches two protocol errors by code so that sentinel values below
// work with errors.Is even when the message was customized.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrMissingFile      = &Error{0, "File not uploaded correctly"}
	ErrTransport        = &Error{-1, "File upload error"}
	ErrFileTooLarge     = &Error{-2, "File too large"}
	ErrEmptyUpload      = &Error{-3, "Uploaded file has no content"}
	ErrFormatNotAllowed = &Error{-4, "The file format is not allowed"}
	ErrUnsupportedType  = &Error{-5, "Unsupported file type"}
	ErrStorageExhausted = &Error{-6, "Move uploaded file error"}
	ErrVideoNotFound    = &Error{-7, "Video not found"}
	ErrAudioNotFound    = &Error{-8, "Audio not found"}
	ErrDocumentNotFound = &Error{-9, "PDF not found"}
	ErrBadQuery         = &Error{-10, "Bad query"}
	ErrMethodNotAllowed = &Error{-11, "Only POST allowed for upload"}
	ErrCategoryMismatch = &Error{-12, "Category mismatch"}
)

// TooLargeError names the offending category and its limit, as the
// protocol requires.
func TooLargeError(category Category, limit int64) *Error {
	return &Error{ErrFileTooLarge.Code, fmt.Sprintf("Max file size for %s is %d bytes", category, limit)}
}

// MismatchError names the category the route is restricted to.
func MismatchError(expected Category) *Error {
	return &Error{ErrCategoryMismatch.Code, fmt.Sprintf("Only %s files are allowed in this route", expected)}
}

// TransportError carries the underlying transfer failure detail.
func TransportError(err error) *Error {
	return &Error{ErrTransport.Code, fmt.Sprintf("File upload error: %v", err)}
}
