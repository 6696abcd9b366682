package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanpardaz/bitmedia/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "./content", cfg.ContentDir)
	assert.Equal(t, 31536000, cfg.CacheMaxAge)
	assert.False(t, cfg.FFmpegEnabled)

	assert.Equal(t, int64(10485760), cfg.MaxSize(domain.CategoryImage))
	assert.Equal(t, int64(104857600), cfg.MaxSize(domain.CategoryVideo))
	assert.Equal(t, int64(52428800), cfg.MaxSize(domain.CategoryAudio))
	assert.Equal(t, int64(20971520), cfg.MaxSize(domain.CategoryDocument))
	assert.Zero(t, cfg.MaxSize(domain.Category("bogus")))

	assert.Contains(t, cfg.AllowedTypes, "image/png")
	assert.Contains(t, cfg.AllowedTypes, "audio/x-m4a")
	assert.Len(t, cfg.AllowedTypes, 12)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MEDIA_HTTP_ADDR", ":9999")
	t.Setenv("MEDIA_NAME_PREFIX", "cdn1_")
	t.Setenv("MEDIA_MAX_SIZE_IMAGE", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "cdn1_", cfg.NamePrefix)
	assert.Equal(t, int64(1024), cfg.MaxSize(domain.CategoryImage))
}
