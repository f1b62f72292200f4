package assignment

import (
	"context"
	"fmt"
	"time"

	"maintenance-automation-service/internal/models"
)

// Store is the persistence surface load calculation and selection need.
// *db.DB satisfies it; tests supply in-memory fakes.
type Store interface {
	ListActiveTechnicians(ctx context.Context, functionType string) ([]models.Technician, error)
	CountOpenTasks(ctx context.Context, technicianID string) (int, error)
	CountCompletedSince(ctx context.Context, technicianID string, since time.Time) (int, error)
	LastOpenTaskType(ctx context.Context, technicianID string) (string, error)
}

// completedWindow is the trailing window counted into the load score.
const completedWindow = 30 * 24 * time.Hour

// Calculator derives point-in-time load snapshots. It issues one query
// per technician per metric and holds no cache; snapshots taken moments
// apart may diverge, which the selector tolerates as an ordering
// heuristic, not an allocation guarantee.
type Calculator struct {
	store Store
	now   func() time.Time
}

func NewCalculator(store Store) *Calculator {
	return &Calculator{store: store, now: time.Now}
}

// Snapshot computes the load view for one technician.
func (c *Calculator) Snapshot(ctx context.Context, tech models.Technician) (models.LoadSnapshot, error) {
	pending, err := c.store.CountOpenTasks(ctx, tech.ID)
	if err != nil {
		return models.LoadSnapshot{}, fmt.Errorf("failed to compute load for technician %s: %w", tech.ID, err)
	}
	completed, err := c.store.CountCompletedSince(ctx, tech.ID, c.now().Add(-completedWindow))
	if err != nil {
		return models.LoadSnapshot{}, fmt.Errorf("failed to compute load for technician %s: %w", tech.ID, err)
	}
	lastType, err := c.store.LastOpenTaskType(ctx, tech.ID)
	if err != nil {
		return models.LoadSnapshot{}, fmt.Errorf("failed to compute load for technician %s: %w", tech.ID, err)
	}

	return models.LoadSnapshot{
		TechnicianID:   tech.ID,
		TechnicianName: tech.Name,
		FunctionType:   tech.FunctionType,
		PendingCount:   pending,
		CompletedIn30d: completed,
		LoadScore:      float64(pending)*2 + float64(completed)*0.5,
		LoadLevel:      models.LevelForPending(pending),
		LastTaskType:   lastType,
	}, nil
}

// Snapshots computes load views for every active technician of a function
// type; an empty functionType covers the whole team for dashboard views.
func (c *Calculator) Snapshots(ctx context.Context, functionType string) ([]models.LoadSnapshot, error) {
	techs, err := c.store.ListActiveTechnicians(ctx, functionType)
	if err != nil {
		return nil, err
	}
	snaps := make([]models.LoadSnapshot, 0, len(techs))
	for _, tech := range techs {
		snap, err := c.Snapshot(ctx, tech)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}
