package automation

import (
	"context"
	"time"

	"maintenance-automation-service/internal/models"
)

// Store is the persistence surface the orchestrator depends on.
// *db.DB satisfies it; tests supply in-memory fakes.
type Store interface {
	GetAutomationConfig(ctx context.Context) (models.AutomationConfig, error)
	ListPendingTasks(ctx context.Context) ([]models.MaintenanceTask, error)
	HasUnreadAlert(ctx context.Context, taskID string) (bool, error)
	FindOpenWorkOrder(ctx context.Context, machineID, taskID string) (*models.WorkOrder, error)
	MaxWorkOrderSeq(ctx context.Context, datePrefix string) (int, error)
	CreateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error)
	CreateAlert(ctx context.Context, alert models.Alert) (models.Alert, error)
	LinkWorkOrder(ctx context.Context, taskID, workOrderID string) error
	AppendRunLog(ctx context.Context, entry models.AutomationRunLog) error
}

// TaskStore is the slice of the store the rescheduler needs.
type TaskStore interface {
	GetTask(ctx context.Context, taskID string) (models.MaintenanceTask, error)
	RescheduleTask(ctx context.Context, taskID string, nextExecution, lastExecution time.Time) error
}
