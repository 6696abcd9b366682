package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/arkanpardaz/bitmedia/internal/domain"
	"github.com/arkanpardaz/bitmedia/internal/http/handler"
	"github.com/arkanpardaz/bitmedia/internal/ingest"
	"github.com/arkanpardaz/bitmedia/internal/storage"
)

// NewRouter maps the URL surface onto the pipeline and the store.
// Short path segments (i, sw, v, a, pdf) are part of the public wire
// contract.
func NewRouter(pipeline *ingest.Pipeline, store storage.Store, cacheMaxAge int, placeholder []byte, logger *slog.Logger) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	healthHandler := handler.NewHealthHandler()
	uploadHandler := handler.NewUploadHandler(pipeline, logger)
	mediaHandler := handler.NewMediaHandler(store, cacheMaxAge, placeholder, logger)

	router.GET("/healthz", healthHandler.Health)

	router.POST("/upload", uploadHandler.Upload)
	router.POST("/upload/:category", uploadHandler.Upload)

	router.GET("/i/:name", mediaHandler.Image)
	router.GET("/sw/:width/:name", mediaHandler.ScaleWidth)
	router.GET("/v/:name", mediaHandler.Video)
	router.GET("/a/:name", mediaHandler.Audio)
	router.GET("/pdf/:name", mediaHandler.Document)

	// Upload only answers POST; everything else is a bad query.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/upload") {
			c.JSON(http.StatusOK, handler.ErrorResponse{
				State:        "error",
				ErrorCode:    domain.ErrMethodNotAllowed.Code,
				ErrorMessage: domain.ErrMethodNotAllowed.Message,
			})
			return
		}
		badQuery(c)
	})
	router.NoRoute(badQuery)

	return router
}

func badQuery(c *gin.Context) {
	c.JSON(http.StatusOK, handler.ErrorResponse{
		State:        "error",
		ErrorCode:    domain.ErrBadQuery.Code,
		ErrorMessage: domain.ErrBadQuery.Message,
	})
}
