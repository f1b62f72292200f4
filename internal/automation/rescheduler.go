package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Rescheduler recomputes the next due date when a task finishes and
// resets it to pending for the next cycle. It is driven by the completion
// flow (HTTP or the event consumer), never by the orchestrator.
type Rescheduler struct {
	store  TaskStore
	logger *logrus.Logger
	now    func() time.Time
}

func NewRescheduler(store TaskStore, logger *logrus.Logger) *Rescheduler {
	return &Rescheduler{store: store, logger: logger, now: time.Now}
}

// Complete reschedules the task periodDays from today and stamps the
// completion time. Returns models.ErrNotFound for unknown task ids.
func (r *Rescheduler) Complete(ctx context.Context, taskID string) (time.Time, error) {
	task, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return time.Time{}, err
	}

	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nextExecution := today.AddDate(0, 0, task.PeriodDays)

	if err := r.store.RescheduleTask(ctx, taskID, nextExecution, now); err != nil {
		return time.Time{}, fmt.Errorf("failed to reschedule task %s: %w", taskID, err)
	}

	r.logger.Infof("Task %s rescheduled to %s", taskID, nextExecution.Format("2006-01-02"))
	return nextExecution, nil
}
