package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-genre-classifier/internal/api/middleware"
	"github.com/palemoky/chinese-genre-classifier/internal/api/rest/handler"
	"github.com/palemoky/chinese-genre-classifier/internal/config"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/metrics"
	"github.com/palemoky/chinese-genre-classifier/internal/search"
	"github.com/palemoky/chinese-genre-classifier/internal/service"
)

// Dependencies are the components the routes are served from
type Dependencies struct {
	DB         *database.DB
	Repository database.RepositoryInterface
	Service    *service.Service
	Metrics    *metrics.Metrics // nil disables /metrics and request metrics
	Logger     *zap.Logger      // nil disables the access log
}

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if deps.Logger != nil {
		router.Use(middleware.AccessLog(deps.Logger))
	}
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// CORS middleware
	router.Use(middleware.CORS(cfg.CORS))

	// Rate limiting middleware
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).
			WithMetrics(deps.Metrics)
		router.Use(rateLimiter.Middleware())
	}

	searchEngine := search.NewEngine(deps.DB,
		search.WithPinyin(cfg.Search.EnablePinyin),
		search.WithMaxResults(cfg.Search.MaxResults),
	)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", handler.HealthHandler(deps.DB))

		// Statistics
		v1.GET("/stats", handler.StatsHandler(deps.Repository))

		// Genres
		v1.GET("/genres", handler.ListGenres)

		// Classification routes
		classifyHandler := handler.NewClassifyHandler(deps.Service, cfg.Classifier.Persist && deps.Service.Persists())
		v1.POST("/classify", classifyHandler.Classify)
		v1.POST("/classify/batch", classifyHandler.ClassifyBatch)

		// Stored analysis routes
		analysisHandler := handler.NewAnalysisHandler(deps.Repository, searchEngine)
		v1.GET("/analyses", analysisHandler.ListAnalyses)
		v1.GET("/analyses/search", analysisHandler.SearchAnalyses)
		v1.GET("/analyses/:id", analysisHandler.GetAnalysis)
		v1.DELETE("/analyses/:id", analysisHandler.DeleteAnalysis)
	}

	return router
}
