package automation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-automation-service/internal/models"
)

func TestCompleteAddsPeriodDays(t *testing.T) {
	store := newFakeStore()
	store.tasks = []models.MaintenanceTask{{
		ID:         "t1",
		PeriodDays: 30,
		Status:     models.TaskInProgress,
	}}

	r := NewRescheduler(store, testLogger())
	r.now = func() time.Time {
		return time.Date(2025, time.January, 20, 14, 0, 0, 0, time.UTC)
	}

	next, err := r.Complete(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.February, 19, 0, 0, 0, 0, time.UTC), next)

	task := store.tasks[0]
	assert.Equal(t, models.TaskPending, task.Status)
	require.NotNil(t, task.ScheduledAt)
	assert.Equal(t, next, *task.ScheduledAt)
	require.NotNil(t, task.LastExecution)
	assert.Equal(t, r.now(), *task.LastExecution)
}

func TestCompleteCrossesMonthBoundary(t *testing.T) {
	store := newFakeStore()
	store.tasks = []models.MaintenanceTask{{ID: "t1", PeriodDays: 1}}

	r := NewRescheduler(store, testLogger())
	r.now = func() time.Time {
		return time.Date(2025, time.January, 31, 8, 0, 0, 0, time.UTC)
	}

	next, err := r.Complete(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), next)
}

func TestCompleteUnknownTask(t *testing.T) {
	store := newFakeStore()
	r := NewRescheduler(store, testLogger())

	_, err := r.Complete(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
