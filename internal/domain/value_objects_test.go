package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewName_Valid(t *testing.T) {
	name, err := NewName("  Water Heater  ")
	require.NoError(t, err)
	assert.Equal(t, "Water Heater", name.String())
}

func TestNewName_Empty(t *testing.T) {
	_, err := NewName("   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameRequired))
}

func TestNewName_TooLong(t *testing.T) {
	_, err := NewName(strings.Repeat("x", 256))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameTooLong))
}

func TestNewTaskStatus(t *testing.T) {
	for _, s := range []string{"pending", "in_progress", "completed", "overdue", "cancelled"} {
		status, err := NewTaskStatus(s)
		require.NoError(t, err)
		assert.Equal(t, TaskStatus(s), status)
	}

	// Case-insensitive input
	status, err := NewTaskStatus("PENDING")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusPending, status)

	_, err = NewTaskStatus("done")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTaskStatus))
}

func TestNewTaskPriority(t *testing.T) {
	priority, err := NewTaskPriority("")
	require.NoError(t, err)
	assert.Equal(t, TaskPriorityMedium, priority)

	priority, err = NewTaskPriority("URGENT")
	require.NoError(t, err)
	assert.Equal(t, TaskPriorityUrgent, priority)

	_, err = NewTaskPriority("critical")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTaskPriority))
}

func TestNewFrequency(t *testing.T) {
	for _, s := range []string{"weekly", "biweekly", "monthly", "quarterly", "semiannual", "annual", "custom"} {
		freq, err := NewFrequency(s)
		require.NoError(t, err)
		assert.Equal(t, Frequency(s), freq)
	}

	_, err := NewFrequency("daily")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFrequency))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		allowed  bool
	}{
		{TaskStatusPending, TaskStatusInProgress, true},
		{TaskStatusPending, TaskStatusCompleted, true},
		{TaskStatusPending, TaskStatusOverdue, true},
		{TaskStatusPending, TaskStatusCancelled, true},
		{TaskStatusInProgress, TaskStatusCompleted, true},
		{TaskStatusInProgress, TaskStatusPending, true},
		{TaskStatusOverdue, TaskStatusCompleted, true},
		{TaskStatusOverdue, TaskStatusInProgress, true},
		{TaskStatusCompleted, TaskStatusPending, true},

		{TaskStatusCompleted, TaskStatusInProgress, false},
		{TaskStatusCancelled, TaskStatusPending, false},
		{TaskStatusCancelled, TaskStatusInProgress, false},
		{TaskStatusInProgress, TaskStatusOverdue, false},
		{TaskStatusCompleted, TaskStatusOverdue, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
