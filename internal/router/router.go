package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/bap-api/internal/handler"
	"github.com/noah-isme/bap-api/internal/middleware"
	"github.com/noah-isme/bap-api/internal/service"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
	"github.com/noah-isme/bap-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/bap-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/bap-api/pkg/middleware/requestid"
	"github.com/noah-isme/bap-api/pkg/response"
)

// Options controls the optional surfaces of the router.
type Options struct {
	AllowedOrigins []string
	EnableMetrics  bool
	EnableDocs     bool
}

// Handlers groups every HTTP handler mounted by New.
type Handlers struct {
	Auth    *handler.AuthHandler
	Records *handler.RecordHandler
	Export  *handler.ExportHandler
	Health  *handler.HealthHandler
}

// New assembles the gin engine with global middleware and every route.
func New(logr *zap.Logger, metrics *service.MetricsService, h Handlers, opts Options) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	// Trailing-slash variants are distinct paths and fall through to NoRoute.
	r.RedirectTrailingSlash = false

	// Global middleware; it also runs for NoRoute, so CORS preflight is
	// answered on every path.
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.EnableMetrics {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	if opts.EnableMetrics {
		r.GET("/metrics", h.Health.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		api.POST("/login", h.Auth.Login)

		// Requests
		api.GET("/requests", h.Records.List)
		api.POST("/requests", h.Records.Create)
		api.GET("/requests/check", h.Records.Search)
		api.GET("/requests/:id", h.Records.Get)
		api.PUT("/requests/:id", h.Records.Update)
		api.DELETE("/requests/:id", h.Records.Delete)

		// Export
		api.GET("/export", h.Export.CSV)
		api.GET("/export/pdf", h.Export.PDF)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.ErrRouteNotFound)
	})

	return r
}
