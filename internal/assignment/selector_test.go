package assignment

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-automation-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func mechanic(id, name string) models.Technician {
	return models.Technician{ID: id, Name: name, FunctionType: "Mechanical", Active: true}
}

func TestSelectNoEligibleTechnician(t *testing.T) {
	store := &fakeStore{}
	s := NewSelector(store, testLogger())

	sel, err := s.Select(context.Background(), "Hydraulic")
	require.NoError(t, err)
	assert.Nil(t, sel.Technician)
	assert.Equal(t, "no active technician for type Hydraulic", sel.Reason)
}

func TestSelectSingleCandidate(t *testing.T) {
	store := &fakeStore{
		techs:     []models.Technician{mechanic("a", "Ana")},
		open:      map[string]int{"a": 5},
		completed: map[string]int{},
		lastType:  map[string]string{},
	}
	s := NewSelector(store, testLogger())

	sel, err := s.Select(context.Background(), "Mechanical")
	require.NoError(t, err)
	require.NotNil(t, sel.Technician)
	assert.Equal(t, "a", sel.Technician.ID)
	assert.Contains(t, sel.Reason, "5 open tasks")
}

func TestSelectPicksLowestPendingCount(t *testing.T) {
	store := &fakeStore{
		techs:     []models.Technician{mechanic("a", "Ana"), mechanic("b", "Bruno")},
		open:      map[string]int{"a": 2, "b": 3},
		completed: map[string]int{},
		lastType:  map[string]string{"a": "Electrical", "b": "Electrical"},
	}
	s := NewSelector(store, testLogger())

	sel, err := s.Select(context.Background(), "Mechanical")
	require.NoError(t, err)
	require.NotNil(t, sel.Technician)
	assert.Equal(t, "a", sel.Technician.ID)
	assert.Contains(t, sel.Reason, "2 open tasks")
}

func TestSelectLoadScoreBreaksPendingTie(t *testing.T) {
	store := &fakeStore{
		techs:     []models.Technician{mechanic("a", "Ana"), mechanic("b", "Bruno")},
		open:      map[string]int{"a": 3, "b": 3},
		completed: map[string]int{"a": 8, "b": 2},
		lastType:  map[string]string{"a": "Electrical", "b": "Electrical"},
	}
	s := NewSelector(store, testLogger())

	sel, err := s.Select(context.Background(), "Mechanical")
	require.NoError(t, err)
	require.NotNil(t, sel.Technician)
	// Same pending count, Bruno completed less recently so his score is lower.
	assert.Equal(t, "b", sel.Technician.ID)
}

func TestSelectAntiRepetition(t *testing.T) {
	store := &fakeStore{
		techs:     []models.Technician{mechanic("a", "Ana"), mechanic("b", "Bruno")},
		open:      map[string]int{"a": 2, "b": 3},
		completed: map[string]int{},
		lastType:  map[string]string{"a": "Mechanical", "b": "Hydraulic"},
	}
	s := NewSelector(store, testLogger())

	sel, err := s.Select(context.Background(), "Mechanical")
	require.NoError(t, err)
	require.NotNil(t, sel.Technician)
	// Ana just handled a Mechanical task and Bruno is within 2 open tasks
	// of her, so Bruno gets it despite the higher count.
	assert.Equal(t, "b", sel.Technician.ID)
	assert.Contains(t, sel.Reason, "anti-repetition")
	assert.Contains(t, sel.Reason, "3 open tasks")
}

func TestSelectAntiRepetitionNotTriggeredWhenGapTooLarge(t *testing.T) {
	store := &fakeStore{
		techs:     []models.Technician{mechanic("a", "Ana"), mechanic("b", "Bruno")},
		open:      map[string]int{"a": 2, "b": 5},
		completed: map[string]int{},
		lastType:  map[string]string{"a": "Mechanical", "b": "Hydraulic"},
	}
	s := NewSelector(store, testLogger())

	sel, err := s.Select(context.Background(), "Mechanical")
	require.NoError(t, err)
	require.NotNil(t, sel.Technician)
	// Bruno is 3 open tasks behind, beyond the anti-repetition margin.
	assert.Equal(t, "a", sel.Technician.ID)
}

func TestSelectRandomTieBreakIsPinnable(t *testing.T) {
	store := &fakeStore{
		techs:     []models.Technician{mechanic("a", "Ana"), mechanic("b", "Bruno"), mechanic("c", "Caio")},
		open:      map[string]int{"a": 2, "b": 2, "c": 2},
		completed: map[string]int{"a": 4, "b": 4, "c": 4},
		lastType:  map[string]string{"a": "Hydraulic", "b": "Hydraulic", "c": "Hydraulic"},
	}
	s := NewSelector(store, testLogger())
	s.intn = func(n int) int {
		require.Equal(t, 3, n)
		return 2
	}

	sel, err := s.Select(context.Background(), "Mechanical")
	require.NoError(t, err)
	require.NotNil(t, sel.Technician)
	assert.Equal(t, "c", sel.Technician.ID)
	assert.Contains(t, sel.Reason, "random")
}
