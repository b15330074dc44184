// Package httpapi wires the HTTP transport (Gin) to the assistant handlers,
// middleware and routes. It centralizes cross-cutting concerns such as
// tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, admin auth and rate limiting.
//
// Routes:
//   - GET  /health, /metrics, /status
//   - POST {API_BASE_PATH}/chat        (web widget)
//   - POST /line                       (messaging webhook, not rate limited)
//   - /admin/*                         (X-Admin-API-Key when configured)
//   - GET  /swagger/*any               (when SWAGGER_ENABLED)
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/saboothailand/support-bot/internal/config"
	_ "github.com/saboothailand/support-bot/internal/http/docs" // swagger spec
	"github.com/saboothailand/support-bot/internal/http/handlers"
	"github.com/saboothailand/support-bot/internal/http/middleware"
	"github.com/saboothailand/support-bot/internal/line"
)

const (
	maxBodyBytes = 1 << 20
	linePath     = "/line"
	adminPrefix  = "/admin"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger + RequestLogger: access log with PII scrubbing, scoped logger
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip (except /metrics)
//  8. Rate limiter (per chat user or IP; the webhook bypasses it)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, h *handlers.Handlers, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{line.SignatureHeader, middleware.HeaderAdminKey},
	}))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// The platform retries webhooks it sees throttled; never limit them.
	r.Use(middleware.BypassRateLimit(linePath))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByChatUser(handlers.DefaultWebUser))
	r.Use(rl.Handler())

	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderAdminKey}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStorePrefixes: []string{joinPath(apiBase, "/chat"), adminPrefix},
		EnablePolicy:    true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/status", h.Status)

	api := groupWithPrefix(r, apiBase)
	api.POST("/chat", h.PostChat)

	r.POST(linePath, h.LineWebhook)

	admin := r.Group(adminPrefix, middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/catalog/reload", h.ReloadCatalog)
		admin.POST("/caches/clear", h.ClearCaches)
		admin.GET("/audit", h.ListAudit)
	}

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}
