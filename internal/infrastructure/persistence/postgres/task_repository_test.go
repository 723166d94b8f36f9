package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/ptr"
)

func TestBuildTaskFilter(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		where, args := buildTaskFilter(domain.ListTasksParams{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("single filter", func(t *testing.T) {
		where, args := buildTaskFilter(domain.ListTasksParams{
			HomeID: ptr.To("home-1"),
		})
		assert.Equal(t, " WHERE home_id = $1", where)
		assert.Equal(t, []any{"home-1"}, args)
	})

	t.Run("all filters numbered in order", func(t *testing.T) {
		status := domain.TaskStatusPending
		priority := domain.TaskPriorityHigh
		before := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		after := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		where, args := buildTaskFilter(domain.ListTasksParams{
			HomeID:    ptr.To("home-1"),
			AssetID:   ptr.To("asset-1"),
			Status:    &status,
			Priority:  &priority,
			DueBefore: &before,
			DueAfter:  &after,
		})
		assert.Equal(t,
			" WHERE home_id = $1 AND asset_id = $2 AND status = $3 AND priority = $4 AND due_date < $5 AND due_date >= $6",
			where)
		require.Len(t, args, 6)
		assert.Equal(t, "pending", args[2])
		assert.Equal(t, "high", args[3])
	})
}

func TestBuildTaskOrder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clause, err := buildTaskOrder("", "")
		require.NoError(t, err)
		assert.Equal(t, "ORDER BY due_date ASC, created_at ASC", clause)
	})

	t.Run("created_at desc", func(t *testing.T) {
		clause, err := buildTaskOrder("created_at", "desc")
		require.NoError(t, err)
		assert.Equal(t, "ORDER BY created_at DESC, created_at ASC", clause)
	})

	t.Run("priority is semantic", func(t *testing.T) {
		clause, err := buildTaskOrder("priority", "asc")
		require.NoError(t, err)
		assert.Contains(t, clause, "WHEN 'urgent' THEN 0")
		assert.Contains(t, clause, "WHEN 'low' THEN 3")
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := buildTaskOrder("title; DROP TABLE tasks", "asc")
		assert.Error(t, err)
	})

	t.Run("unknown direction rejected", func(t *testing.T) {
		_, err := buildTaskOrder("due_date", "sideways")
		assert.Error(t, err)
	})
}
