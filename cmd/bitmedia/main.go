package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/arkanpardaz/bitmedia/internal/classify"
	"github.com/arkanpardaz/bitmedia/internal/config"
	httphandler "github.com/arkanpardaz/bitmedia/internal/http"
	"github.com/arkanpardaz/bitmedia/internal/ingest"
	"github.com/arkanpardaz/bitmedia/internal/log"
	"github.com/arkanpardaz/bitmedia/internal/naming"
	"github.com/arkanpardaz/bitmedia/internal/rescale"
	"github.com/arkanpardaz/bitmedia/internal/storage/local"
	"github.com/arkanpardaz/bitmedia/internal/thumbnail"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewLogger()

	fs := afero.NewOsFs()
	store := local.NewLocalStore(fs, cfg.ContentDir)

	classifier := classify.New(cfg.AllowedTypes)
	names := naming.Generator{Prefix: cfg.NamePrefix}

	var thumbs thumbnail.Thumbnailer
	if cfg.FFmpegEnabled {
		thumbs = thumbnail.NewFFmpeg(cfg.FFmpegBin, cfg.ContentDir)
	}

	pipeline := ingest.NewPipeline(store, classifier, names, cfg, thumbs, logger)

	placeholder, err := afero.ReadFile(fs, cfg.NotFoundImage)
	if err != nil {
		logger.Warn("Placeholder image not readable, using generated fallback", "path", cfg.NotFoundImage, "error", err)
		placeholder = rescale.Placeholder()
	}

	router := httphandler.NewRouter(pipeline, store, cfg.CacheMaxAge, placeholder, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("Starting media service", "addr", cfg.HTTPAddr, "contentDir", cfg.ContentDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exited")
}
