package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"maintenance-automation-service/internal/assignment"
	"maintenance-automation-service/internal/automation"
	"maintenance-automation-service/internal/db"
	"maintenance-automation-service/internal/models"
	"maintenance-automation-service/internal/ws"
)

type Handler struct {
	db           *db.DB
	logger       *logrus.Logger
	orchestrator *automation.Orchestrator
	rescheduler  *automation.Rescheduler
	selector     *assignment.Selector
	loads        *assignment.Calculator
	hub          *ws.Hub
	upgrader     websocket.Upgrader
}

func NewHandler(db *db.DB, logger *logrus.Logger, orchestrator *automation.Orchestrator, rescheduler *automation.Rescheduler, selector *assignment.Selector, loads *assignment.Calculator, hub *ws.Hub) *Handler {
	return &Handler{
		db:           db,
		logger:       logger,
		orchestrator: orchestrator,
		rescheduler:  rescheduler,
		selector:     selector,
		loads:        loads,
		hub:          hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RunAutomation triggers one preventive-maintenance scan. The result is
// always 200; failures are reported inside the result body.
func (h *Handler) RunAutomation(c *gin.Context) {
	result := h.orchestrator.Run(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetRunLogs(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	logs, err := h.db.ListRunLogs(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("Failed to list run logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get run logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handler) GetAutomationConfig(c *gin.Context) {
	cfg, err := h.db.GetAutomationConfig(c.Request.Context())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Automation config not set"})
			return
		}
		h.logger.Errorf("Failed to get automation config: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get automation config"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) PutAutomationConfig(c *gin.Context) {
	var cfg models.AutomationConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.logger.Errorf("Invalid request body for automation config: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.db.SaveAutomationConfig(c.Request.Context(), cfg); err != nil {
		h.logger.Errorf("Failed to save automation config: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save automation config"})
		return
	}

	h.logger.Info("Automation config updated")
	c.JSON(http.StatusOK, cfg)
}

// CompleteTask marks a task completed and reschedules its next cycle.
func (h *Handler) CompleteTask(c *gin.Context) {
	taskID := c.Param("id")
	next, err := h.rescheduler.Complete(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.logger.Errorf("Failed to complete task %s: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task_id":        taskID,
		"next_execution": next.Format("2006-01-02"),
	})
}

func (h *Handler) GetOrphanTasks(c *gin.Context) {
	tasks, err := h.db.ListOrphanTasks(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list orphan tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orphan tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// AssignTask selects the least-loaded eligible technician for the task's
// type and persists the assignment.
func (h *Handler) AssignTask(c *gin.Context) {
	taskID := c.Param("id")
	task, err := h.db.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.logger.Errorf("Failed to get task %s: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get task"})
		return
	}

	selection, err := h.selector.Select(c.Request.Context(), task.Type)
	if err != nil {
		h.logger.Errorf("Failed to select technician for task %s: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select technician"})
		return
	}
	if selection.Technician == nil {
		c.JSON(http.StatusConflict, gin.H{"error": selection.Reason})
		return
	}

	if err := h.db.AssignTechnician(c.Request.Context(), taskID, selection.Technician.ID); err != nil {
		h.logger.Errorf("Failed to assign technician to task %s: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign technician"})
		return
	}

	h.logger.Infof("Assigned technician %s to task %s", selection.Technician.Name, taskID)
	c.JSON(http.StatusOK, selection)
}

// SelectTechnician is the dry-run selection endpoint.
func (h *Handler) SelectTechnician(c *gin.Context) {
	functionType := c.Query("type")
	if functionType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing type parameter"})
		return
	}

	selection, err := h.selector.Select(c.Request.Context(), functionType)
	if err != nil {
		h.logger.Errorf("Failed to select technician for type %s: %v", functionType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select technician"})
		return
	}
	c.JSON(http.StatusOK, selection)
}

func (h *Handler) GetTechnicianLoads(c *gin.Context) {
	snaps, err := h.loads.Snapshots(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.logger.Errorf("Failed to compute technician loads: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get technician loads"})
		return
	}
	c.JSON(http.StatusOK, snaps)
}

func (h *Handler) GetAlerts(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	limit := intQuery(c, "limit", 100)
	alerts, err := h.db.ListAlerts(c.Request.Context(), unreadOnly, limit)
	if err != nil {
		h.logger.Errorf("Failed to list alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alerts"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *Handler) GetWorkOrders(c *gin.Context) {
	limit := intQuery(c, "limit", 100)
	orders, err := h.db.ListWorkOrders(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		h.logger.Errorf("Failed to list work orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get work orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Dashboard upgrades the connection and streams automation events until
// the client disconnects.
func (h *Handler) Dashboard(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	h.hub.Add(conn)
	go func() {
		defer func() {
			h.hub.Remove(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
