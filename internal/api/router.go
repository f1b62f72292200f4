package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"maintenance-automation-service/internal/config"
)

func NewRouter(logger *logrus.Logger, cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		// Automation
		api.POST("/automation/run", h.RunAutomation)
		api.GET("/automation/logs", h.GetRunLogs)
		api.GET("/automation/config", h.GetAutomationConfig)
		api.PUT("/automation/config", h.PutAutomationConfig)

		// Tasks
		api.POST("/tasks/:id/complete", h.CompleteTask)
		api.POST("/tasks/:id/assign", h.AssignTask)
		api.GET("/tasks/orphans", h.GetOrphanTasks)

		// Technicians
		api.GET("/technicians/load", h.GetTechnicianLoads)
		api.GET("/technicians/select", h.SelectTechnician)

		// Dashboard reads
		api.GET("/alerts", h.GetAlerts)
		api.GET("/work-orders", h.GetWorkOrders)
	}

	r.GET("/ws", h.Dashboard)
	return r
}
