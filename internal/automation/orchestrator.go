package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"maintenance-automation-service/internal/models"
)

// Notifier delivers a heads-up for critical alerts. Delivery failures must
// not fail the scan; implementations log and swallow their own errors.
type Notifier interface {
	CriticalAlert(ctx context.Context, alert models.Alert, task models.MaintenanceTask)
}

// Publisher pushes run and alert events to connected dashboards.
type Publisher interface {
	Publish(event string, payload interface{})
}

// Orchestrator drives one preventive-maintenance scan: it classifies due
// tasks, deduplicates alerts and work orders, generates sequenced work
// orders, and records a run log. One run is a single sequential unit of
// work; the design assumes at most one active run system-wide.
type Orchestrator struct {
	store  Store
	seq    *Sequencer
	logger *logrus.Logger

	// Optional collaborators, set after construction.
	Notifier  Notifier
	Publisher Publisher

	now func() time.Time
}

const defaultEstimatedMinutes = 60

func NewOrchestrator(store Store, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		store:  store,
		seq:    NewSequencer(store),
		logger: logger,
		now:    time.Now,
	}
}

// Run executes one scan and always returns a RunResult; failures are
// reported in the result and the matching run log row, never as an error.
func (o *Orchestrator) Run(ctx context.Context) models.RunResult {
	now := o.now()

	cfg, err := o.store.GetAutomationConfig(ctx)
	if err != nil {
		return o.failRun(ctx, now, "failed to load automation config", err)
	}

	if !cfg.Active {
		o.logger.Info("Automation disabled, skipping scan")
		o.writeLog(ctx, models.AutomationRunLog{
			Kind:      models.RunLogScan,
			Message:   "automation disabled, no tasks processed",
			CreatedAt: now,
		})
		return models.RunResult{Success: true}
	}

	tasks, err := o.store.ListPendingTasks(ctx)
	if err != nil {
		return o.failRun(ctx, now, "failed to list pending tasks", err)
	}

	result := models.RunResult{Success: true}
	for _, task := range tasks {
		if task.ScheduledAt == nil {
			// Malformed row; not counted as processed.
			o.logger.Warnf("Task %s has no due date, skipping", task.ID)
			continue
		}
		result.TasksScanned++

		days := DaysBetween(now, *task.ScheduledAt)
		if days > cfg.LeadTimeFor(task.Type) {
			continue
		}

		ordersCreated, alertsCreated, err := o.processTask(ctx, cfg, task, days, now)
		result.WorkOrdersCreated += ordersCreated
		result.AlertsCreated += alertsCreated
		if err != nil {
			// One bad task must not block the rest of the scan.
			o.logger.Errorf("Task %s processing failed: %v", task.ID, err)
			result.TaskFailures = append(result.TaskFailures, fmt.Sprintf("task %s: %v", task.ID, err))
		}
	}

	message := fmt.Sprintf("scan finished: %d tasks scanned, %d work orders created, %d alerts created",
		result.TasksScanned, result.WorkOrdersCreated, result.AlertsCreated)
	if len(result.TaskFailures) > 0 {
		message = fmt.Sprintf("%s, %d task failures", message, len(result.TaskFailures))
	}

	o.writeLog(ctx, models.AutomationRunLog{
		Kind:              models.RunLogScan,
		Message:           message,
		TasksScanned:      result.TasksScanned,
		WorkOrdersCreated: result.WorkOrdersCreated,
		AlertsCreated:     result.AlertsCreated,
		ErrorDetail:       strings.Join(result.TaskFailures, "; "),
		CreatedAt:         now,
	})

	o.logger.Infof("Automation run: %s", message)
	if o.Publisher != nil {
		o.Publisher.Publish("run_completed", result)
	}
	return result
}

// processTask handles one due task: dedupe checks, optional work order
// generation, optional alert creation. The returned counts reflect what
// was actually persisted before any error.
func (o *Orchestrator) processTask(ctx context.Context, cfg models.AutomationConfig, task models.MaintenanceTask, days int, now time.Time) (int, int, error) {
	urgency := ClassifyUrgency(days)

	hasAlert, err := o.store.HasUnreadAlert(ctx, task.ID)
	if err != nil {
		return 0, 0, err
	}
	existing, err := o.store.FindOpenWorkOrder(ctx, task.MachineID, task.ID)
	if err != nil {
		return 0, 0, err
	}

	var linkedOrderID string
	if existing != nil {
		linkedOrderID = existing.ID
	}

	ordersCreated := 0
	if existing == nil && cfg.AutoGenerateWorkOrders {
		wo := models.WorkOrder{
			SourceTaskID:         task.ID,
			MachineID:            task.MachineID,
			Status:               models.OrderPending,
			GeneratedAutomatic:   true,
			ScheduledDate:        *task.ScheduledAt,
			EstimatedMinutes:     defaultEstimatedMinutes,
			AssignedTechnicianID: task.AssignedTechnicianID,
			CreatedAt:            now,
		}
		created, err := o.seq.CreateSequenced(ctx, wo, now)
		if err != nil {
			return 0, 0, err
		}
		ordersCreated = 1
		linkedOrderID = created.ID
		o.logger.Infof("Created work order %s for task %s", created.HumanID, task.ID)

		if err := o.store.LinkWorkOrder(ctx, task.ID, created.ID); err != nil {
			return ordersCreated, 0, err
		}
	}

	alertsCreated := 0
	if !hasAlert {
		alert := models.Alert{
			TaskID:          task.ID,
			TaskDescription: task.Description,
			MachineID:       task.MachineID,
			MachineName:     task.MachineName,
			DueDate:         *task.ScheduledAt,
			DaysRemaining:   days,
			Urgency:         urgency,
			WorkOrderID:     linkedOrderID,
			CreatedAt:       now,
		}
		created, err := o.store.CreateAlert(ctx, alert)
		if err != nil {
			return ordersCreated, 0, err
		}
		alertsCreated = 1
		o.logger.Infof("Created %s alert for task %s (%d days remaining)", urgency, task.ID, days)

		if o.Publisher != nil {
			o.Publisher.Publish("alert_created", created)
		}
		if o.Notifier != nil && urgency == models.UrgencyCritical {
			o.Notifier.CriticalAlert(ctx, created, task)
		}
	}

	return ordersCreated, alertsCreated, nil
}

func (o *Orchestrator) failRun(ctx context.Context, now time.Time, msg string, err error) models.RunResult {
	o.logger.Errorf("%s: %v", msg, err)
	o.writeLog(ctx, models.AutomationRunLog{
		Kind:        models.RunLogError,
		Message:     msg,
		ErrorDetail: err.Error(),
		CreatedAt:   now,
	})
	return models.RunResult{Success: false, Error: fmt.Sprintf("%s: %v", msg, err)}
}

func (o *Orchestrator) writeLog(ctx context.Context, entry models.AutomationRunLog) {
	if err := o.store.AppendRunLog(ctx, entry); err != nil {
		o.logger.Errorf("Failed to write run log: %v", err)
	}
}
