package models

import "time"

// Urgency classifies how soon a task needs attention.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Alert is a maintenance-due notice shown on the dashboard. At most one
// unread alert may exist per task at any time.
type Alert struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"task_id"`
	TaskDescription string    `json:"task_description"`
	MachineID       string    `json:"machine_id"`
	MachineName     string    `json:"machine_name"`
	DueDate         time.Time `json:"due_date"`
	DaysRemaining   int       `json:"days_remaining"`
	Urgency         Urgency   `json:"urgency"`
	IsRead          bool      `json:"is_read"`
	WorkOrderID     string    `json:"work_order_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
