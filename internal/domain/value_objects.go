package domain

import (
	"fmt"
	"strings"
)

// Name is a validated name value object (1-255 characters).
// Used for home, asset, template, and task names.
type Name struct {
	value string
}

// NewName creates a new Name, validating the input.
func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Name{}, ErrNameRequired
	}

	if len(s) > 255 {
		return Name{}, ErrNameTooLong
	}

	return Name{value: s}, nil
}

// String returns the name value.
func (n Name) String() string {
	return n.value
}

// NewTaskStatus validates and creates a TaskStatus.
func NewTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(s))

	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusOverdue, TaskStatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTaskStatus, s)
	}
}

// NewTaskPriority validates and creates a TaskPriority.
// An empty string defaults to medium.
func NewTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return TaskPriorityMedium, nil
	}

	priority := TaskPriority(strings.ToLower(s))

	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTaskPriority, s)
	}
}

// NewFrequency validates and creates a Frequency.
func NewFrequency(s string) (Frequency, error) {
	freq := Frequency(strings.ToLower(s))

	switch freq {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencySemiannual, FrequencyAnnual,
		FrequencyCustom:
		return freq, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFrequency, s)
	}
}

// NewDifficulty validates and creates a Difficulty.
// An empty string defaults to moderate.
func NewDifficulty(s string) (Difficulty, error) {
	if s == "" {
		return DifficultyModerate, nil
	}

	difficulty := Difficulty(strings.ToLower(s))

	switch difficulty {
	case DifficultyEasy, DifficultyModerate, DifficultyHard, DifficultyExpert:
		return difficulty, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidDifficulty, s)
	}
}

// CanTransition reports whether a task may move from its current status to next.
//
// The allowed moves:
//
//	pending     -> in_progress, completed, overdue, cancelled
//	in_progress -> completed, cancelled, pending (reopen)
//	overdue     -> in_progress, completed, cancelled
//	completed   -> pending (reopen)
//	cancelled   -> (terminal)
func CanTransition(from, to TaskStatus) bool {
	switch from {
	case TaskStatusPending:
		return to == TaskStatusInProgress || to == TaskStatusCompleted ||
			to == TaskStatusOverdue || to == TaskStatusCancelled
	case TaskStatusInProgress:
		return to == TaskStatusCompleted || to == TaskStatusCancelled || to == TaskStatusPending
	case TaskStatusOverdue:
		return to == TaskStatusInProgress || to == TaskStatusCompleted || to == TaskStatusCancelled
	case TaskStatusCompleted:
		return to == TaskStatusPending
	case TaskStatusCancelled:
		return false
	default:
		return false
	}
}
