package assignment

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"maintenance-automation-service/internal/models"
)

// Selection is the outcome of a technician choice. Technician is nil when
// no active technician matches the requested function type; Reason always
// explains the outcome in human-readable form.
type Selection struct {
	Technician *models.Technician   `json:"technician,omitempty"`
	Snapshot   *models.LoadSnapshot `json:"snapshot,omitempty"`
	Reason     string               `json:"reason"`
}

// antiRepetitionMargin is how close (in open tasks) the runner-up must be
// for the anti-repetition rule to bump the top candidate.
const antiRepetitionMargin = 2

// Selector picks the technician for a task type using load ordering, an
// anti-repetition heuristic, and a random tie-break. The random source is
// injected so tests can pin the outcome.
type Selector struct {
	store  Store
	calc   *Calculator
	logger *logrus.Logger
	intn   func(n int) int
}

func NewSelector(store Store, logger *logrus.Logger) *Selector {
	return &Selector{
		store:  store,
		calc:   NewCalculator(store),
		logger: logger,
		intn:   rand.Intn,
	}
}

type candidate struct {
	tech models.Technician
	snap models.LoadSnapshot
}

// Select chooses a technician for the given function type. "No eligible
// technician" is a normal result, not an error.
func (s *Selector) Select(ctx context.Context, functionType string) (Selection, error) {
	techs, err := s.store.ListActiveTechnicians(ctx, functionType)
	if err != nil {
		return Selection{}, err
	}
	if len(techs) == 0 {
		return Selection{
			Reason: fmt.Sprintf("no active technician for type %s", functionType),
		}, nil
	}

	candidates := make([]candidate, 0, len(techs))
	for _, tech := range techs {
		snap, err := s.calc.Snapshot(ctx, tech)
		if err != nil {
			return Selection{}, err
		}
		candidates = append(candidates, candidate{tech: tech, snap: snap})
	}

	if len(candidates) == 1 {
		only := candidates[0]
		return s.chosen(only, fmt.Sprintf(
			"only active %s technician, %d open tasks", functionType, only.snap.PendingCount)), nil
	}

	// Stable sort keeps the store's priority_order as the final fallback
	// for candidates with identical load.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].snap, candidates[j].snap
		if a.PendingCount != b.PendingCount {
			return a.PendingCount < b.PendingCount
		}
		return a.LoadScore < b.LoadScore
	})

	top, second := candidates[0], candidates[1]

	// Anti-repetition: don't hand the same person two tasks of the same
	// type back-to-back when the runner-up's load is comparable.
	if top.snap.LastTaskType == functionType &&
		second.snap.PendingCount-top.snap.PendingCount <= antiRepetitionMargin {
		s.logger.Debugf("Anti-repetition: skipping %s for %s task", top.tech.Name, functionType)
		return s.chosen(second, fmt.Sprintf(
			"anti-repetition for %s: %s just handled this type, picked next with %d open tasks",
			functionType, top.tech.Name, second.snap.PendingCount)), nil
	}

	// Random tie-break among candidates still exactly tied with the top.
	tied := 1
	for tied < len(candidates) &&
		candidates[tied].snap.PendingCount == top.snap.PendingCount &&
		candidates[tied].snap.LoadScore == top.snap.LoadScore {
		tied++
	}
	if tied > 1 {
		pick := candidates[s.intn(tied)]
		return s.chosen(pick, fmt.Sprintf(
			"picked at random among %d technicians tied at %d open tasks for %s",
			tied, pick.snap.PendingCount, functionType)), nil
	}

	return s.chosen(top, fmt.Sprintf(
		"lowest load for %s: %d open tasks, score %.1f",
		functionType, top.snap.PendingCount, top.snap.LoadScore)), nil
}

func (s *Selector) chosen(c candidate, reason string) Selection {
	tech := c.tech
	snap := c.snap
	s.logger.Infof("Selected technician %s: %s", tech.Name, reason)
	return Selection{Technician: &tech, Snapshot: &snap, Reason: reason}
}
