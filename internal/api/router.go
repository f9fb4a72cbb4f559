package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/auth"
	"github.com/newsroom-api/internal/config"
	"github.com/newsroom-api/internal/metrics"
	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/service"
	"github.com/newsroom-api/internal/social"
	"github.com/newsroom-api/internal/startup"
)

const (
	principalKey    = "principal"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// HealthChecker is satisfied by *database.DB
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies are the collaborators the handlers need beyond the services
type Dependencies struct {
	Gate     *auth.Gate
	Composer *social.Composer
	Metrics  *metrics.Metrics
	Report   startup.Report
	DB       HealthChecker
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, deps Dependencies, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware(deps.Metrics))
	router.Use(corsMiddleware())

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	exportHandler := NewExportHandler(services, log)
	crawlerHandler := NewCrawlerHandler(deps.Composer, deps.Metrics, cfg.Site, log)

	requireAuth := authMiddleware(deps.Gate)

	// Health check
	router.GET("/health", healthCheck(deps.DB))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// Share links: crawlers get a preview document, people get the SPA
	router.GET("/article/:slug", crawlerHandler.ShareArticle)

	// API v1
	v1 := router.Group("/v1")
	{
		v1.GET("/stats", articleHandler.Stats)

		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/top-rail", articleHandler.TopRail)
			articles.GET("/:slug", articleHandler.GetBySlug)
			articles.POST("", requireAuth, articleHandler.Create)
			articles.PUT("/:id", requireAuth, articleHandler.Update)
			articles.DELETE("/:id", requireAuth, articleHandler.Delete)
		}

		v1.GET("/dashboard/articles", requireAuth, articleHandler.Dashboard)
		v1.GET("/exports/articles", requireAuth, requireAdmin(), exportHandler.StreamExport)
	}

	if cfg.Debug.Enabled {
		debugHandler := NewDebugHandler(services, deps.Report, log)
		debug := router.Group("/debug", requireAuth, requireAdmin())
		{
			debug.GET("/startup", debugHandler.Startup)
			debug.GET("/slugs/:slug", debugHandler.ResolveSlug)
		}
		log.Warn().Msg("Debug endpoints enabled")
	}

	return router
}

// healthCheck returns the health status, including the database when one is wired
func healthCheck(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "newsroom-api",
		}

		if db != nil {
			ctx, cancel := contextWithTimeout(c, 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = err.Error()
			} else {
				body["database"] = "ok"
			}
		}

		c.JSON(status, body)
	}
}

// requestIDMiddleware propagates X-Request-ID, generating one when absent
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request completed")
	}
}

// metricsMiddleware records request counts and latencies per route
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// authMiddleware rejects requests without a valid bearer token and stores
// the principal on the context
func authMiddleware(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gate == nil {
			respondError(c, zerolog.Nop(), auth.ErrUnauthorized)
			c.Abort()
			return
		}
		principal, err := gate.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			respondError(c, zerolog.Nop(), err)
			c.Abort()
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// requireAdmin must run after authMiddleware
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !principalFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// principalFrom returns the authenticated principal, or nil
func principalFrom(c *gin.Context) *models.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
