// Package thumbnail grabs a preview frame from uploaded videos by
// shelling out to ffmpeg. The whole capability is optional and
// best-effort: a deployment without ffmpeg simply injects nil.
package thumbnail

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Thumbnailer extracts a still image for a stored video. Implementors
// return the published thumbnail name. Failure never affects the
// outcome of the upload that triggered it.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, videoName string) (string, error)
}

// FFmpeg implements Thumbnailer with an external ffmpeg binary working
// directly against the content directory.
type FFmpeg struct {
	Bin        string
	ContentDir string
}

func NewFFmpeg(bin, contentDir string) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{Bin: bin, ContentDir: contentDir}
}

// Thumbnail writes <base>_thumb.jpg next to the video, grabbing one
// frame two seconds in.
func (f *FFmpeg) Thumbnail(ctx context.Context, videoName string) (string, error) {
	base := strings.TrimSuffix(videoName, filepath.Ext(videoName))
	thumbName := base + "_thumb.jpg"

	videoPath := filepath.Join(f.ContentDir, videoName)
	thumbPath := filepath.Join(f.ContentDir, thumbName)

	cmd := exec.CommandContext(ctx, f.Bin,
		"-i", videoPath,
		"-ss", "00:00:02.000",
		"-vframes", "1",
		thumbPath,
		"-y",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, firstLine(out))
	}
	return thumbName, nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
