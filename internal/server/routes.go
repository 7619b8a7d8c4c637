package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	slogGin "github.com/samber/slog-gin"

	"github.com/civicstack/mediavault/internal/server/handlers/upload"
	"github.com/civicstack/mediavault/internal/server/middlewares"
	"github.com/civicstack/mediavault/internal/version"
)

func SetupRoutes(svc *Services, cfg *Config) http.Handler {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20 // 8 MiB

	uploadH := upload.New(svc.Sessions, svc.Store, svc.Library)

	httpLogger := slog.Default().WithGroup("http")
	r.Use(slogGin.NewWithConfig(httpLogger, slogGin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.BestSpeed))
	r.Use(cors.Default())

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)

	v1 := r.Group("/api/v1")
	v1.Use(middlewares.RateLimiter(cfg.Upload.RateLimit))
	{
		// direct path
		v1.POST("/upload", middlewares.BodyLimit(cfg.Upload.MaxDirectBody), uploadH.UploadDirect)

		// multipart session lifecycle
		v1.POST("/upload/initiate", uploadH.Initiate)
		v1.PUT("/upload/part", uploadH.UploadPart)
		v1.POST("/upload/part/ack", uploadH.AckPart)
		v1.POST("/upload/complete", uploadH.Complete)
		v1.POST("/upload/abort", uploadH.Abort)

		// admin media library
		v1.GET("/media/list", uploadH.ListMedia)
		v1.DELETE("/media", uploadH.DeleteMedia)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	})

	return r.Handler()
}

func IndexHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, version.DetailedWithApp())
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
