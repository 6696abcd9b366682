// Package rescale is a stateless filter over already-validated image
// bytes: decode, scale to a requested width preserving aspect ratio,
// re-encode in the source format.
package rescale

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

// MinWidth and MaxWidth are exclusive bounds on the requested width.
const (
	MinWidth = 100
	MaxWidth = 4192
)

// ValidWidth reports whether w may be requested at all. Bounds are
// exclusive on both ends.
func ValidWidth(w int) bool {
	return w > MinWidth && w < MaxWidth
}

// ScaleWidth decodes a PNG or JPEG, scales it to width (height follows
// the aspect ratio) and re-encodes it in its original format. Returns
// the encoded bytes and their MIME type.
func ScaleWidth(r io.Reader, width int) ([]byte, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	scaled := imaging.Resize(img, width, 0, imaging.Lanczos)

	var out bytes.Buffer
	switch format {
	case "jpeg":
		if err := imaging.Encode(&out, scaled, imaging.JPEG); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		return out.Bytes(), "image/jpeg", nil
	default:
		if err := imaging.Encode(&out, scaled, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return out.Bytes(), "image/png", nil
	}
}

// Placeholder renders the fallback image served when a requested image
// does not exist, for deployments that ship no placeholder file.
func Placeholder() []byte {
	img := imaging.New(64, 64, color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff})
	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
		// Encoding an in-memory NRGBA to PNG cannot fail.
		panic(err)
	}
	return out.Bytes()
}
