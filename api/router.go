package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/url-scoop-go/api/handlers"
	"github.com/yourusername/url-scoop-go/api/middleware"
	"github.com/yourusername/url-scoop-go/internal/app"
	"github.com/yourusername/url-scoop-go/internal/domain"
	"github.com/yourusername/url-scoop-go/pkg/logger"
)

// SetupRouter sets up the HTTP router
func SetupRouter(
	runService *app.RunService,
	repo domain.RunRepository,
	logAdapter *logger.LoggerAdapter,
	logsDir string,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logAdapter.GetSingleLogger()))
	router.Use(middleware.Recovery(logAdapter.GetSingleLogger()))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(repo)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		runHandler := handlers.NewRunHandler(runService, repo, logAdapter.GetSingleLogger())
		runs := v1.Group("/runs")
		{
			runs.POST("", runHandler.CreateRun)
			runs.GET("", runHandler.ListRuns)
			runs.GET("/stats", runHandler.GetStats)
			runs.GET("/:id", runHandler.GetRun)
			runs.GET("/:id/report", runHandler.GetRunReport)
			runs.DELETE("/:id", runHandler.DeleteRun)
		}

		v1.POST("/normalize", runHandler.NormalizeURLs)

		logHandler := handlers.NewLogHandler(logsDir)
		logs := v1.Group("/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/:category", logHandler.GetLogs)
			logs.GET("/:category/search", logHandler.SearchLogs)
			logs.GET("/:category/export", logHandler.ExportLogs)
		}

		wsHandler := handlers.NewLogWebSocketHandler(logsDir, logAdapter.GetSingleLogger())
		v1.GET("/ws/logs", wsHandler.HandleWebSocket)
	}

	return router
}
