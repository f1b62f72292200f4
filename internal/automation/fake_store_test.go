package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maintenance-automation-service/internal/models"
)

// fakeStore is an in-memory Store for orchestrator and sequencer tests.
type fakeStore struct {
	cfg    models.AutomationConfig
	cfgErr error

	tasks    []models.MaintenanceTask
	tasksErr error

	workOrders []models.WorkOrder
	alerts     []models.Alert
	logs       []models.AutomationRunLog

	// alertErrFor makes CreateAlert fail for specific task ids.
	alertErrFor map[string]error
	// conflictsLeft makes CreateWorkOrder return ErrConflict that many times.
	conflictsLeft int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cfg: models.AutomationConfig{
			Active:                 true,
			LeadTimeDays:           3,
			AutoGenerateWorkOrders: true,
		},
	}
}

func (f *fakeStore) GetAutomationConfig(ctx context.Context) (models.AutomationConfig, error) {
	if f.cfgErr != nil {
		return models.AutomationConfig{}, f.cfgErr
	}
	return f.cfg, nil
}

func (f *fakeStore) ListPendingTasks(ctx context.Context) ([]models.MaintenanceTask, error) {
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	var pending []models.MaintenanceTask
	for _, t := range f.tasks {
		if t.Status == models.TaskPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

func (f *fakeStore) HasUnreadAlert(ctx context.Context, taskID string) (bool, error) {
	for _, a := range f.alerts {
		if a.TaskID == taskID && !a.IsRead {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) FindOpenWorkOrder(ctx context.Context, machineID, taskID string) (*models.WorkOrder, error) {
	for i := range f.workOrders {
		wo := f.workOrders[i]
		if wo.MachineID == machineID && wo.SourceTaskID == taskID && wo.Status.Open() {
			return &wo, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) MaxWorkOrderSeq(ctx context.Context, datePrefix string) (int, error) {
	maxSeq := 0
	for _, wo := range f.workOrders {
		if !strings.HasPrefix(wo.HumanID, datePrefix+"-") {
			continue
		}
		var seq int
		if _, err := fmt.Sscanf(wo.HumanID[len(datePrefix)+1:], "%d", &seq); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

func (f *fakeStore) CreateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return models.WorkOrder{}, fmt.Errorf("work order %s: %w", wo.HumanID, models.ErrConflict)
	}
	for _, existing := range f.workOrders {
		if existing.HumanID == wo.HumanID {
			return models.WorkOrder{}, fmt.Errorf("work order %s: %w", wo.HumanID, models.ErrConflict)
		}
	}
	if wo.ID == "" {
		wo.ID = fmt.Sprintf("wo-%d", len(f.workOrders)+1)
	}
	f.workOrders = append(f.workOrders, wo)
	return wo, nil
}

func (f *fakeStore) CreateAlert(ctx context.Context, alert models.Alert) (models.Alert, error) {
	if err := f.alertErrFor[alert.TaskID]; err != nil {
		return models.Alert{}, err
	}
	if alert.ID == "" {
		alert.ID = fmt.Sprintf("alert-%d", len(f.alerts)+1)
	}
	f.alerts = append(f.alerts, alert)
	return alert, nil
}

func (f *fakeStore) LinkWorkOrder(ctx context.Context, taskID, workOrderID string) error {
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].WorkOrderID = workOrderID
			return nil
		}
	}
	return fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
}

func (f *fakeStore) AppendRunLog(ctx context.Context, entry models.AutomationRunLog) error {
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeStore) GetTask(ctx context.Context, taskID string) (models.MaintenanceTask, error) {
	for _, t := range f.tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return models.MaintenanceTask{}, fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
}

func (f *fakeStore) RescheduleTask(ctx context.Context, taskID string, nextExecution, lastExecution time.Time) error {
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].Status = models.TaskPending
			next := nextExecution
			last := lastExecution
			f.tasks[i].ScheduledAt = &next
			f.tasks[i].LastExecution = &last
			return nil
		}
	}
	return fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
}
