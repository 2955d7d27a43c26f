package routes

import (
	"taskflow/internal/adapter/http/handler"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/port"
	"taskflow/pkg/config"
	"taskflow/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type HandlersConfig struct {
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

// Dependencies carries what the middleware chain needs. Cache is nil when
// response caching is disabled.
type Dependencies struct {
	Config  *config.AppConfig
	Logger  *config.LokiLogger
	Metrics *tracing.AppMetrics
	Tokens  port.TokenIssuer
	Gate    port.SessionGate
	Cache   *middleware.ResponseCache
}

func SetupRouterWithConfig(handlers HandlersConfig, deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	zapLogger := deps.Logger.Zap()
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.HTTPSMiddleware(deps.Config.EnforceHTTPS, zapLogger))
	router.Use(otelgin.Middleware(deps.Config.ServiceName))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(deps.Config.CORSOrigins))

	var limiter gin.HandlerFunc

	if deps.Config.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(deps.Config.RateLimitConfigs, zapLogger, deps.Metrics).RateLimitMiddleware()
	}

	if handlers.HealthHandler != nil {
		router.GET("/healthz", handlers.HealthHandler.Health)
	}

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler, limiter)
	}

	protected := router.Group("/api")
	protected.Use(middleware.SessionMiddleware(deps.Tokens, deps.Gate, zapLogger))

	if limiter != nil {
		protected.Use(limiter)
	}

	if deps.Cache != nil {
		protected.Use(deps.Cache.CacheMiddleware())
	}

	if handlers.AuthHandler != nil {
		protected.GET("/me", handlers.AuthHandler.Me)
		protected.POST("/auth/logout", handlers.AuthHandler.Logout)
	}

	if handlers.TaskHandler != nil {
		setupTaskRoutes(protected, handlers.TaskHandler)
	}

	return router
}

func setupPublicRoutes(router *gin.Engine, authHandler *handler.AuthHandler, limiter gin.HandlerFunc) {
	public := router.Group("/api/auth")

	if limiter != nil {
		public.Use(limiter)
	}

	{
		public.POST("/signup", authHandler.SignUp)
		public.POST("/login", authHandler.Login)
	}
}

func setupTaskRoutes(protected *gin.RouterGroup, taskHandler *handler.TaskHandler) {
	protected.GET("/stats", taskHandler.Stats)
	protected.GET("/tasks", taskHandler.List)
	protected.POST("/tasks", taskHandler.Create)
	protected.PUT("/tasks/:id", taskHandler.Update)
	protected.DELETE("/tasks/:id", taskHandler.Delete)
	protected.PATCH("/tasks/:id/status", taskHandler.SetStatus)
	protected.PATCH("/tasks/:id/progress", taskHandler.SetProgress)
	protected.POST("/tasks/:id/toggle", taskHandler.Toggle)
}
