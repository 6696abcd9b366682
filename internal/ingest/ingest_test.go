package ingest

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanpardaz/bitmedia/internal/classify"
	"github.com/arkanpardaz/bitmedia/internal/config"
	"github.com/arkanpardaz/bitmedia/internal/domain"
	"github.com/arkanpardaz/bitmedia/internal/naming"
	"github.com/arkanpardaz/bitmedia/internal/storage/local"
	"github.com/arkanpardaz/bitmedia/internal/thumbnail"
)

var testAllowed = []string{
	"image/png",
	"image/jpeg",
	"video/mp4",
	"video/webm",
	"video/quicktime",
	"application/pdf",
	"audio/mpeg",
	"audio/aac",
	"audio/wav",
	"audio/x-wav",
	"audio/mp4",
	"audio/x-m4a",
}

func testConfig() *config.Config {
	return &config.Config{
		MaxSizeImage:    1 << 20,
		MaxSizeVideo:    8 << 20,
		MaxSizeAudio:    4 << 20,
		MaxSizeDocument: 2 << 20,
		AllowedTypes:    testAllowed,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type env struct {
	fs       afero.Fs
	store    *local.LocalStore
	pipeline *Pipeline
}

func newEnv(t *testing.T, thumbs thumbnail.Thumbnailer) *env {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := local.NewLocalStore(fs, "content")
	cfg := testConfig()
	p := NewPipeline(store, classify.New(cfg.AllowedTypes), naming.Generator{}, cfg, thumbs, discardLogger())
	return &env{fs: fs, store: store, pipeline: p}
}

func pngUpload(t *testing.T, filename string) ([]byte, Upload) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	data := buf.Bytes()
	return data, Upload{Reader: bytes.NewReader(data), Filename: filename, Size: int64(len(data))}
}

func mp4Upload(filename string) ([]byte, Upload) {
	data := []byte{
		0x00, 0x00, 0x00, 0x10, 'f', 't', 'y', 'p',
		'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	}
	data = append(data, bytes.Repeat([]byte{0xab}, 4096)...)
	return data, Upload{Reader: bytes.NewReader(data), Filename: filename, Size: int64(len(data))}
}

var storedName = regexp.MustCompile(`^[0-9a-f]{32}\.[a-z0-9]+$`)

func TestIngestRoundTrip(t *testing.T) {
	e := newEnv(t, nil)
	data, up := pngUpload(t, "Photo.PNG")

	res, err := e.pipeline.Ingest(context.Background(), up, "")
	require.NoError(t, err)

	assert.Regexp(t, storedName, res.File.Name)
	assert.Equal(t, domain.CategoryImage, res.File.Category)
	assert.Equal(t, "image/png", res.File.MIMEType)
	assert.Equal(t, "png", res.File.Ext, "extension comes from the client filename, lower-cased")
	assert.Equal(t, int64(len(data)), res.File.Size)

	f, _, err := e.store.Open(context.Background(), res.File.Name)
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, data, got, "stored bytes equal uploaded bytes")
}

func TestIngestEmptyUpload(t *testing.T) {
	e := newEnv(t, nil)

	_, err := e.pipeline.Ingest(context.Background(), Upload{
		Reader:   bytes.NewReader(nil),
		Filename: "empty.png",
		Size:     0,
	}, "")
	require.ErrorIs(t, err, domain.ErrEmptyUpload)
}

func TestIngestDisguisedContentRejected(t *testing.T) {
	e := newEnv(t, nil)
	// Correct extension, wrong magic bytes.
	data := []byte("PK\x03\x04 this is really a zip archive")

	_, err := e.pipeline.Ingest(context.Background(), Upload{
		Reader:   bytes.NewReader(data),
		Filename: "totally-a-photo.png",
		Size:     int64(len(data)),
	}, "")
	require.ErrorIs(t, err, domain.ErrFormatNotAllowed)

	// Nothing was written.
	infos, _ := afero.ReadDir(e.fs, "content")
	assert.Empty(t, infos)
}

func TestIngestCategoryMismatch(t *testing.T) {
	e := newEnv(t, nil)
	_, up := pngUpload(t, "pic.png")

	_, err := e.pipeline.Ingest(context.Background(), up, domain.CategoryVideo)
	require.ErrorIs(t, err, domain.ErrCategoryMismatch)

	var perr *domain.Error
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "video")
}

func TestIngestCategoryMatchAccepted(t *testing.T) {
	e := newEnv(t, nil)
	_, up := pngUpload(t, "pic.png")

	res, err := e.pipeline.Ingest(context.Background(), up, domain.CategoryImage)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryImage, res.File.Category)
}

func TestIngestPerCategoryLimit(t *testing.T) {
	e := newEnv(t, nil)
	// Image limit is 1 MiB; video limit is 8 MiB. An image over the
	// image limit is rejected even though it fits the video budget.
	data, _ := pngUpload(t, "big.png")
	up := Upload{
		Reader:   io.MultiReader(bytes.NewReader(data), bytes.NewReader(make([]byte, 2<<20))),
		Filename: "big.png",
		Size:     int64(len(data)) + 2<<20,
	}

	_, err := e.pipeline.Ingest(context.Background(), up, "")
	require.ErrorIs(t, err, domain.ErrFileTooLarge)

	var perr *domain.Error
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "image")
	assert.Contains(t, perr.Message, "1048576")
}

type fakeThumbnailer struct {
	name string
	err  error
}

func (f fakeThumbnailer) Thumbnail(ctx context.Context, videoName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.name, nil
}

func TestIngestVideoThumbnail(t *testing.T) {
	e := newEnv(t, fakeThumbnailer{name: "deadbeef_thumb.jpg"})
	_, up := mp4Upload("clip.mp4")

	res, err := e.pipeline.Ingest(context.Background(), up, "")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryVideo, res.File.Category)
	assert.Equal(t, "deadbeef_thumb.jpg", res.Thumbnail)
	assert.Empty(t, res.ThumbnailError)
}

func TestIngestThumbnailFailureIsAdvisory(t *testing.T) {
	e := newEnv(t, fakeThumbnailer{err: errors.New("ffmpeg exploded")})
	_, up := mp4Upload("clip.mp4")

	res, err := e.pipeline.Ingest(context.Background(), up, "")
	require.NoError(t, err, "thumbnail failure never fails the upload")
	assert.Regexp(t, storedName, res.File.Name)
	assert.Empty(t, res.Thumbnail)
	assert.Equal(t, "Could not generate thumbnail", res.ThumbnailError)
}

func TestIngestNoThumbnailForImages(t *testing.T) {
	e := newEnv(t, fakeThumbnailer{name: "should-not-appear.jpg"})
	_, up := pngUpload(t, "pic.png")

	res, err := e.pipeline.Ingest(context.Background(), up, "")
	require.NoError(t, err)
	assert.Empty(t, res.Thumbnail)
	assert.Empty(t, res.ThumbnailError)
}
