// Package http assembles the gin engine serving the catalog API.
package http

import (
	"github.com/gin-gonic/gin"

	"steeldex/internal/application/search"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	prom "steeldex/internal/infrastructure/monitoring/prometheus"
	"steeldex/internal/interfaces/http/handlers"
	"steeldex/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the route tree needs.
type RouterDeps struct {
	Repo    grade.Repository
	Search  *search.Service
	Logger  logging.Logger
	Metrics *prom.Metrics
}

// NewRouter builds the engine with the full middleware chain and all routes.
func NewRouter(mode string, deps RouterDeps) *gin.Engine {
	gin.SetMode(mode)
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogging(deps.Logger, middleware.DefaultLoggingConfig()),
		middleware.Metrics(deps.Metrics),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	gradeHandler := handlers.NewGradeHandler(deps.Repo, deps.Logger)
	searchHandler := handlers.NewSearchHandler(deps.Search, deps.Logger)

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/grades", gradeHandler.List)
		v1.GET("/grades/lookup", gradeHandler.Lookup)
		v1.GET("/grades/:id", gradeHandler.Get)
		v1.POST("/similar", searchHandler.Similar)
	}

	return engine
}
