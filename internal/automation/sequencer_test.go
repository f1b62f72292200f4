package automation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-automation-service/internal/models"
)

func TestNextHumanIDContinuesSequence(t *testing.T) {
	store := newFakeStore()
	store.workOrders = []models.WorkOrder{
		{HumanID: "OS-20250101-0001", Status: models.OrderCompleted},
		{HumanID: "OS-20250101-0003", Status: models.OrderPending},
	}
	seq := NewSequencer(store)

	day := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)
	id, err := seq.NextHumanID(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, "OS-20250101-0004", id)
}

func TestNextHumanIDRestartsPerDate(t *testing.T) {
	store := newFakeStore()
	store.workOrders = []models.WorkOrder{
		{HumanID: "OS-20250101-0007", Status: models.OrderPending},
	}
	seq := NewSequencer(store)

	day := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)
	id, err := seq.NextHumanID(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, "OS-20250102-0001", id)
}

func TestCreateSequencedRetriesOnConflict(t *testing.T) {
	store := newFakeStore()
	store.conflictsLeft = 2
	seq := NewSequencer(store)

	day := time.Date(2025, time.March, 15, 8, 0, 0, 0, time.UTC)
	wo, err := seq.CreateSequenced(context.Background(), models.WorkOrder{
		SourceTaskID: "task-1",
		MachineID:    "machine-1",
		Status:       models.OrderPending,
	}, day)
	require.NoError(t, err)
	assert.Equal(t, "OS-20250315-0001", wo.HumanID)
	assert.Len(t, store.workOrders, 1)
}

func TestCreateSequencedGivesUpAfterMaxAttempts(t *testing.T) {
	store := newFakeStore()
	store.conflictsLeft = sequencerMaxAttempts
	seq := NewSequencer(store)

	day := time.Date(2025, time.March, 15, 8, 0, 0, 0, time.UTC)
	_, err := seq.CreateSequenced(context.Background(), models.WorkOrder{SourceTaskID: "task-1"}, day)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)
}
