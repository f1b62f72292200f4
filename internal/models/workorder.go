package models

import "time"

// WorkOrderStatus is the lifecycle state of a work order.
type WorkOrderStatus string

const (
	OrderPending    WorkOrderStatus = "pending"
	OrderInProgress WorkOrderStatus = "in_progress"
	OrderCompleted  WorkOrderStatus = "completed"
)

// Open reports whether the order still blocks creation of a new one for
// the same task.
func (s WorkOrderStatus) Open() bool {
	return s == OrderPending || s == OrderInProgress
}

// WorkOrder is an executable maintenance job. HumanID is the sequential
// identifier shown to technicians (OS-YYYYMMDD-NNNN), unique and strictly
// increasing within one date prefix.
type WorkOrder struct {
	ID                   string          `json:"id"`
	HumanID              string          `json:"human_id"`
	SourceTaskID         string          `json:"source_task_id"`
	MachineID            string          `json:"machine_id"`
	Status               WorkOrderStatus `json:"status"`
	GeneratedAutomatic   bool            `json:"generated_automatically"`
	ScheduledDate        time.Time       `json:"scheduled_date"`
	EstimatedMinutes     int             `json:"estimated_minutes"`
	AssignedTechnicianID string          `json:"assigned_technician_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}
