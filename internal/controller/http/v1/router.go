// Package v1 implements routing paths. Each services in own file.
package v1

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"media_relay/entity"
	"media_relay/internal/telemetry/metric"
	"media_relay/pkg/logger"
)

const indexFile = "index.html"

// Options -.
type Options struct {
	StaticDir    string
	MaxBodyBytes int64
}

// NewRouter -.
// Swagger spec:
// @title       Media relay API
// @description Forwards browser requests to third-party media APIs
// @version     1.0
// @BasePath    /
func NewRouter(handler *gin.Engine, l logger.Interface, ru entity.RelayUsecase, m *metric.Metrics, opts Options) {
	// Options
	handler.Use(requestID())
	handler.Use(requestLogger(l))
	handler.Use(recovery(l))
	handler.Use(m.Middleware())
	handler.Use(maxBodyBytes(opts.MaxBodyBytes))

	// Swagger
	swaggerHandler := ginSwagger.DisablingWrapHandler(swaggerFiles.Handler, "DISABLE_SWAGGER_HTTP_HANDLER")
	handler.GET("/swagger/*any", swaggerHandler)

	// K8s probe
	handler.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Prometheus metrics
	handler.GET("/metrics", gin.WrapH(m.Handler()))

	// Front-end
	handler.GET("/", func(c *gin.Context) { c.File(filepath.Join(opts.StaticDir, indexFile)) })
	handler.NoRoute(staticFiles(opts.StaticDir))

	// Routers
	newRelayRoutes(&handler.RouterGroup, ru, l)
}

// staticFiles serves unmatched GET and HEAD requests from dir.
func staticFiles(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(gin.Dir(dir, false))

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			errorResponse(c, http.StatusNotFound, "Not found")
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
