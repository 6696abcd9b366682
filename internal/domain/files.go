package domain

// Category is the media class derived from sniffed content, never from
// the client-declared type or extension. The string values are part of
// the wire protocol (the "type" field of the upload response).
type Category string

const (
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryDocument Category = "pdf"
)

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryImage, CategoryVideo, CategoryAudio, CategoryDocument:
		return true
	}
	return false
}

// StoredFile describes a file placed in the store. Name is the only
// identity clients ever see; content under a name is immutable once
// published.
type StoredFile struct {
	Name     string
	Category Category
	MIMEType string
	Size     int64
	Ext      string
}
