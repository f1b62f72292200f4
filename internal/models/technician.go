package models

// LoadLevel buckets a technician's open workload.
type LoadLevel string

const (
	LoadLow    LoadLevel = "low"
	LoadMedium LoadLevel = "medium"
	LoadHigh   LoadLevel = "high"
)

type Technician struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	FunctionType  string `json:"function_type"`
	Active        bool   `json:"active"`
	PriorityOrder int    `json:"priority_order"`
	DailyCapacity int    `json:"daily_capacity"`
}

// LoadSnapshot is a derived, point-in-time view of a technician's workload.
// It is never persisted; concurrent snapshots may diverge and the selector
// only uses them as an ordering heuristic.
type LoadSnapshot struct {
	TechnicianID   string    `json:"technician_id"`
	TechnicianName string    `json:"technician_name"`
	FunctionType   string    `json:"function_type"`
	PendingCount   int       `json:"pending_count"`
	CompletedIn30d int       `json:"completed_in_30d"`
	LoadScore      float64   `json:"load_score"`
	LoadLevel      LoadLevel `json:"load_level"`
	LastTaskType   string    `json:"last_task_type,omitempty"`
}

// LevelForPending maps an open-task count to a load level.
func LevelForPending(pending int) LoadLevel {
	switch {
	case pending <= 3:
		return LoadLow
	case pending <= 6:
		return LoadMedium
	default:
		return LoadHigh
	}
}
