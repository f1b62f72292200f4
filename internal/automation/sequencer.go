package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maintenance-automation-service/internal/models"
)

// SequencerStore is the slice of the store the sequencer needs.
type SequencerStore interface {
	MaxWorkOrderSeq(ctx context.Context, datePrefix string) (int, error)
	CreateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error)
}

// Sequencer issues date-scoped human-readable work order ids of the form
// OS-YYYYMMDD-NNNN. Two concurrent callers can compute the same next
// suffix; the unique constraint on human_id turns the loser's insert into
// models.ErrConflict and the sequencer recomputes and retries.
type Sequencer struct {
	store SequencerStore
}

const sequencerMaxAttempts = 3

func NewSequencer(store SequencerStore) *Sequencer {
	return &Sequencer{store: store}
}

// HumanIDPrefix returns the id prefix shared by all work orders of a day.
func HumanIDPrefix(day time.Time) string {
	return "OS-" + day.Format("20060102")
}

// NextHumanID computes the next free id for the given day.
func (s *Sequencer) NextHumanID(ctx context.Context, day time.Time) (string, error) {
	prefix := HumanIDPrefix(day)
	maxSeq, err := s.store.MaxWorkOrderSeq(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to compute next work order id: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, maxSeq+1), nil
}

// CreateSequenced assigns the next free human id for the given day and
// inserts the work order, retrying on id conflicts.
func (s *Sequencer) CreateSequenced(ctx context.Context, wo models.WorkOrder, day time.Time) (models.WorkOrder, error) {
	var lastErr error
	for attempt := 1; attempt <= sequencerMaxAttempts; attempt++ {
		humanID, err := s.NextHumanID(ctx, day)
		if err != nil {
			return models.WorkOrder{}, err
		}
		wo.HumanID = humanID

		created, err := s.store.CreateWorkOrder(ctx, wo)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return models.WorkOrder{}, err
		}
		lastErr = err
	}
	return models.WorkOrder{}, fmt.Errorf("work order id contention after %d attempts: %w", sequencerMaxAttempts, lastErr)
}
