package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/arkanpardaz/bitmedia/internal/domain"
)

// Config is built once at process start and passed explicitly into
// every component. There is no ambient mutable configuration.
type Config struct {
	HTTPAddr      string `mapstructure:"http_addr"`
	ContentDir    string `mapstructure:"content_dir"`
	NamePrefix    string `mapstructure:"name_prefix"`
	NotFoundImage string `mapstructure:"not_found_image"`
	CacheMaxAge   int    `mapstructure:"cache_max_age"`
	FFmpegEnabled bool   `mapstructure:"ffmpeg_enabled"`
	FFmpegBin     string `mapstructure:"ffmpeg_bin"`

	MaxSizeImage    int64 `mapstructure:"max_size_image"`
	MaxSizeVideo    int64 `mapstructure:"max_size_video"`
	MaxSizeAudio    int64 `mapstructure:"max_size_audio"`
	MaxSizeDocument int64 `mapstructure:"max_size_pdf"`

	AllowedTypes []string `mapstructure:"allowed_types"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("content_dir", "./content")
	v.SetDefault("name_prefix", "")
	v.SetDefault("not_found_image", "not_found.png")
	v.SetDefault("cache_max_age", 31536000)
	v.SetDefault("ffmpeg_enabled", false)
	v.SetDefault("ffmpeg_bin", "ffmpeg")

	v.SetDefault("max_size_image", 10485760)
	v.SetDefault("max_size_video", 104857600)
	v.SetDefault("max_size_audio", 52428800)
	v.SetDefault("max_size_pdf", 20971520)

	v.SetDefault("allowed_types", []string{
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
	})

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CacheMaxAge < 0 {
		return nil, fmt.Errorf("invalid MEDIA_CACHE_MAX_AGE: %d", cfg.CacheMaxAge)
	}

	return &cfg, nil
}

// MaxSize returns the upload byte limit for a category.
func (c *Config) MaxSize(cat domain.Category) int64 {
	switch cat {
	case domain.CategoryImage:
		return c.MaxSizeImage
	case domain.CategoryVideo:
		return c.MaxSizeVideo
	case domain.CategoryAudio:
		return c.MaxSizeAudio
	case domain.CategoryDocument:
		return c.MaxSizeDocument
	}
	return 0
}
