package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/draftloop/draftloop/internal/dbpool"
	"github.com/draftloop/draftloop/internal/middleware"
	"github.com/draftloop/draftloop/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Versions    VersionRepository
	Derivatives DerivativeRepository
	Audit       AuditRepository
	CORSOrigins []string
	Version     string
	LLMModel    string
	LLMEnabled  bool
}

// Router-level limits.
const (
	maxBodySize = 10 << 20 // 10 MB
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version, deps.LLMModel, deps.LLMEnabled)
	versions := NewVersionHandler(deps.Versions, log)
	derivatives := NewDerivativeHandler(deps.Derivatives, log)
	audit := NewAuditHandler(deps.Audit, log)
	stats := NewStatsHandler(deps.Pool, log)

	// Health and readiness.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Version ledger.
	api.POST("/versions", versions.Create)
	api.GET("/versions/:derivativeID", versions.List)
	api.POST("/versions/rollback", versions.Rollback)
	api.POST("/versions/compare", versions.Compare)
	api.POST("/versions/purge/:derivativeID", versions.Purge)
	api.GET("/versions/stats/:derivativeID", versions.Stats)
	api.GET("/versions/timeline/:derivativeID", versions.Timeline)
	api.GET("/version/:versionID", versions.Get)
	api.DELETE("/version/:versionID", versions.Delete)

	// Derivatives.
	api.GET("/derivatives", derivatives.List)
	api.POST("/derivatives", derivatives.Create)
	api.GET("/derivatives/:id", derivatives.Get)
	api.PUT("/derivatives/:id", derivatives.Update)
	api.DELETE("/derivatives/:id", derivatives.Delete)
	api.POST("/derivatives/:id/regenerate", derivatives.Regenerate)

	// Audit.
	api.GET("/audit", audit.Query)
	api.DELETE("/audit", audit.Purge)

	// Stats.
	api.GET("/stats", stats.GetStats)

	// WebSocket change feed.
	api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
