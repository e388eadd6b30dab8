// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, access logging with redaction, panic recovery,
// body limits, compression, metrics, CORS and security headers.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/spamzero-backend/internal/config"
	"github.com/tbourn/spamzero-backend/internal/http/handlers"
	"github.com/tbourn/spamzero-backend/internal/http/middleware"
	"github.com/tbourn/spamzero-backend/internal/observability"
	"github.com/tbourn/spamzero-backend/internal/services"
)

// Deps are the collaborators the routes are built over. The store is owned
// by the caller, which also closes it.
type Deps struct {
	Store   services.HistoryStore
	Predict handlers.PredictService // optional; built from cfg.Predict.URL when nil
}

// RegisterRoutes attaches all middleware and HTTP endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry
//  2. RequestID
//  3. AccessLog (redacting)
//  4. Recovery
//  5. Body size limit
//  6. gzip
//  7. Metrics
//  8. CORS and security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(observability.ServiceName(cfg.OTEL)))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(cfg.MaxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Dependency injection: services ← store
	historySvc := services.NewHistoryService(deps.Store)
	predictSvc := deps.Predict
	if predictSvc == nil {
		predictSvc = services.NewPredictService(cfg.Predict.URL)
	}
	h := handlers.New(historySvc, predictSvc)

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.NoStore())
	{
		api.POST("/history", h.SaveHistory)
		api.GET("/history", h.ListHistory)
		api.DELETE("/history", h.DeleteHistory)
		api.GET("/history/stats", h.HistoryStats)
		api.DELETE("/history/:id", h.DeleteHistoryByID)

		api.POST("/predict", h.Predict)
	}
}

// corsMiddleware allows every origin when none are configured, otherwise
// only the listed ones. Credentials are never allowed.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// ACAO on every response, including ones without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{cors.New(base)}
}

// limitBody caps request bodies at maxBytes; reads past the cap fail with
// *http.MaxBytesError. A non-positive maxBytes disables the cap.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return r.Group("")
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return r.Group(prefix)
}
