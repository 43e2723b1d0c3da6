package api

import (
	"net/http"

	"ames-casefile/internal/api/handlers"
	"ames-casefile/internal/api/middleware"
	"ames-casefile/internal/config"
	"ames-casefile/internal/data"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware, handlers and routes around one case cache.
func NewRouter(cfg *config.Config, cache *data.CaseCache) *gin.Engine {
	if cfg == nil {
		cfg = config.Default()
	}

	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins...))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Metrics())

	caseHandler := handlers.NewCaseHandler(cfg, cache)
	actionDomainHandler := handlers.NewActionDomainHandler(cfg)
	defaultsHandler := handlers.NewDefaultsHandler(cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cases": cache.Len()})
	})
	router.GET("/metrics", middleware.MetricsHandler())

	api := router.Group("/api/v1")
	{
		api.POST("/cases", caseHandler.UploadCase)
		api.GET("/cases/:id", caseHandler.GetCase)
		api.GET("/cases/:id/summary", caseHandler.GetSummary)
		api.GET("/cases/:id/generators/:name/action-domain", caseHandler.GetGeneratorActionDomain)

		api.GET("/action-domain", actionDomainHandler.BuildActionDomain)
		api.GET("/defaults/learning", defaultsHandler.GetLearningDefaults)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	return router
}
