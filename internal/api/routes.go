package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ajharbinger/habit-sprint-api/internal/database"
	"github.com/ajharbinger/habit-sprint-api/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, db *database.DB, logger *zap.Logger) {
	svcs := services.NewServices(db.DB, logger)

	sprintHandler := NewSprintHandler(svcs.Sprint)
	effortHandler := NewEffortHandler(svcs.Effort)
	healthHandler := NewHealthHandler(db)

	api := r.Group("/api")
	{
		api.POST("/sprints", sprintHandler.CreateSprint)
		api.GET("/sprints/:sprint_id", sprintHandler.GetSprint)
		api.GET("/sprints/:sprint_id/efforts/:date", sprintHandler.GetDailyEfforts)
		api.DELETE("/sprints/:sprint_id", sprintHandler.DeleteSprint)

		api.POST("/efforts", effortHandler.LogEffort)
	}

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
