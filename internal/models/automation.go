package models

import "time"

// AutomationConfig is the singleton row controlling the preventive
// maintenance scan. PreferredExecutionTime is advisory only; the actual
// trigger lives in an external scheduler.
type AutomationConfig struct {
	Active                 bool           `json:"active"`
	LeadTimeDays           int            `json:"lead_time_days"`
	PerTypeLeadTimeDays    map[string]int `json:"per_type_lead_time_days,omitempty"`
	AutoGenerateWorkOrders bool           `json:"auto_generate_work_orders"`
	PreferredExecutionTime string         `json:"preferred_execution_time,omitempty"`
}

// LeadTimeFor resolves the lead-time threshold for a task type, falling
// back to the global default when no override exists.
func (c AutomationConfig) LeadTimeFor(taskType string) int {
	if d, ok := c.PerTypeLeadTimeDays[taskType]; ok {
		return d
	}
	return c.LeadTimeDays
}

// RunLogKind distinguishes normal scan records from error records.
type RunLogKind string

const (
	RunLogScan  RunLogKind = "scan"
	RunLogError RunLogKind = "error"
)

// AutomationRunLog is one append-only record per automation run.
type AutomationRunLog struct {
	ID                string     `json:"id"`
	Kind              RunLogKind `json:"kind"`
	Message           string     `json:"message"`
	TasksScanned      int        `json:"tasks_scanned"`
	WorkOrdersCreated int        `json:"work_orders_created"`
	AlertsCreated     int        `json:"alerts_created"`
	ErrorDetail       string     `json:"error_detail,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// RunResult is what RunAutomationNow returns to its caller. The
// orchestrator never surfaces a raw error; failures are reported here and
// in the matching run log row.
type RunResult struct {
	Success           bool     `json:"success"`
	TasksScanned      int      `json:"tasks_scanned"`
	WorkOrdersCreated int      `json:"work_orders_created"`
	AlertsCreated     int      `json:"alerts_created"`
	Error             string   `json:"error,omitempty"`
	TaskFailures      []string `json:"task_failures,omitempty"`
}
