package models

import "time"

// TaskStatus is the lifecycle state of a maintenance task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// MaintenanceTask is a recurring maintenance obligation for one machine.
// A task with an empty AssignedTechnicianID is an orphan and must be
// surfaced for assignment. A completed task always carries LastExecution.
type MaintenanceTask struct {
	ID                   string     `json:"id"`
	Type                 string     `json:"type"`
	MachineID            string     `json:"machine_id"`
	MachineName          string     `json:"machine_name"`
	Sector               string     `json:"sector"`
	PeriodDays           int        `json:"period_days"`
	Description          string     `json:"description"`
	AssignedTechnicianID string     `json:"assigned_technician_id,omitempty"`
	ScheduledAt          *time.Time `json:"scheduled_at,omitempty"`
	Status               TaskStatus `json:"status"`
	Priority             string     `json:"priority"`
	WorkOrderID          string     `json:"work_order_id,omitempty"`
	LastExecution        *time.Time `json:"last_execution,omitempty"`
}

// Orphan reports whether the task has no technician assigned.
func (t MaintenanceTask) Orphan() bool {
	return t.AssignedTechnicianID == ""
}
