package maintenance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/ptr"
)

func seedPack(repo *fakeRepo, packID string, count int, freq domain.Frequency) {
	repo.packs[packID] = &domain.TemplatePack{ID: packID, Name: "Seasonal Essentials"}
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("tpl-%d", i)
		repo.templates[id] = &domain.MaintenanceTemplate{
			ID:               id,
			PackID:           ptr.To(packID),
			Name:             fmt.Sprintf("Template %d", i),
			DefaultFrequency: freq,
			IsActive:         true,
		}
	}
}

func TestApplyTemplatePackToAsset(t *testing.T) {
	repo := newFakeRepo()
	seedPack(repo, "pack-1", 3, domain.FrequencyMonthly)
	repo.assets["asset-1"] = &domain.Asset{ID: "asset-1", HomeID: "home-1", Name: "Furnace"}

	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	svc := NewService(repo, Config{}, WithNowFunc(func() time.Time { return now }))

	result, err := svc.ApplyTemplatePack(context.Background(), ApplyPackParams{
		PackID:  "pack-1",
		HomeID:  "home-1",
		AssetID: "asset-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 0, result.FailCount)
	require.Len(t, result.Results, 3)

	for _, item := range result.Results {
		assert.Equal(t, OutcomeApplied, item.Outcome)
		require.NotNil(t, item.ScheduleID)
		require.NotNil(t, item.TaskID)
	}

	// Each template got one schedule and one seed task, linked together.
	assert.Len(t, repo.schedules, 3)
	assert.Len(t, repo.tasks, 3)
	for _, task := range repo.tasks {
		require.NotNil(t, task.ScheduleID)
		assert.Equal(t, "home-1", task.HomeID)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), task.DueDate)

		// The seed occupies the schedule's first cycle.
		require.NotNil(t, task.GeneratedFor)
		assert.Equal(t, task.DueDate, *task.GeneratedFor)
	}
}

func TestApplyTemplatePackSkipsAlreadyActive(t *testing.T) {
	repo := newFakeRepo()
	seedPack(repo, "pack-1", 5, domain.FrequencyWeekly)
	repo.assets["asset-1"] = &domain.Asset{ID: "asset-1", HomeID: "home-1"}

	// Two of the five templates already have active schedules on the asset.
	for _, tplID := range []string{"tpl-1", "tpl-3"} {
		repo.schedules[scheduleKey("asset-1", tplID)] = &domain.RecurringSchedule{
			ID:         "sched-" + tplID,
			AssetID:    "asset-1",
			TemplateID: tplID,
			IsActive:   true,
		}
	}

	svc := NewService(repo, Config{})

	result, err := svc.ApplyTemplatePack(context.Background(), ApplyPackParams{
		PackID:  "pack-1",
		HomeID:  "home-1",
		AssetID: "asset-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 2, result.FailCount)
	require.Len(t, result.Results, 5)

	byTemplate := make(map[string]TemplateApplyResult)
	for _, item := range result.Results {
		byTemplate[item.TemplateID] = item
	}
	assert.Equal(t, OutcomeAlreadyApplied, byTemplate["tpl-1"].Outcome)
	assert.Equal(t, OutcomeAlreadyApplied, byTemplate["tpl-3"].Outcome)
	assert.Equal(t, OutcomeApplied, byTemplate["tpl-0"].Outcome)
	assert.Equal(t, OutcomeApplied, byTemplate["tpl-2"].Outcome)
	assert.Equal(t, OutcomeApplied, byTemplate["tpl-4"].Outcome)

	// Only the three fresh templates got seed tasks.
	assert.Len(t, repo.tasks, 3)
}

func TestApplyTemplatePackReactivatesInactiveSchedule(t *testing.T) {
	repo := newFakeRepo()
	seedPack(repo, "pack-1", 1, domain.FrequencyQuarterly)
	repo.assets["asset-1"] = &domain.Asset{ID: "asset-1", HomeID: "home-1"}

	repo.schedules[scheduleKey("asset-1", "tpl-0")] = &domain.RecurringSchedule{
		ID:          "sched-old",
		AssetID:     "asset-1",
		TemplateID:  "tpl-0",
		IsActive:    false,
		NextDueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(repo, Config{}, WithNowFunc(func() time.Time { return now }))

	result, err := svc.ApplyTemplatePack(context.Background(), ApplyPackParams{
		PackID:  "pack-1",
		HomeID:  "home-1",
		AssetID: "asset-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Results, 1)
	require.NotNil(t, result.Results[0].ScheduleID)
	assert.Equal(t, "sched-old", *result.Results[0].ScheduleID)

	sched := repo.schedules[scheduleKey("asset-1", "tpl-0")]
	assert.True(t, sched.IsActive)
	assert.Equal(t, time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), sched.NextDueDate)
	assert.Len(t, repo.tasks, 1)
}

func TestApplyTemplatePackWholeHome(t *testing.T) {
	repo := newFakeRepo()
	seedPack(repo, "pack-1", 2, domain.FrequencyAnnual)

	svc := NewService(repo, Config{})

	result, err := svc.ApplyTemplatePack(context.Background(), ApplyPackParams{
		PackID:    "pack-1",
		HomeID:    "home-1",
		WholeHome: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailCount)

	// Whole-home application creates standalone tasks, never schedules.
	assert.Empty(t, repo.schedules)
	assert.Len(t, repo.tasks, 2)
	for _, item := range result.Results {
		assert.Nil(t, item.ScheduleID)
		require.NotNil(t, item.TaskID)
	}
	for _, task := range repo.tasks {
		assert.Nil(t, task.ScheduleID)
		assert.Nil(t, task.AssetID)
		assert.Equal(t, "home-1", task.HomeID)
	}
}

func TestApplyTemplatePackIsolatesItemFailures(t *testing.T) {
	repo := newFakeRepo()
	seedPack(repo, "pack-1", 3, domain.FrequencyMonthly)

	// One template is misconfigured: custom cadence without a day count.
	repo.templates["tpl-1"].DefaultFrequency = domain.FrequencyCustom
	repo.templates["tpl-1"].CustomFrequencyDays = nil

	svc := NewService(repo, Config{})

	result, err := svc.ApplyTemplatePack(context.Background(), ApplyPackParams{
		PackID:    "pack-1",
		HomeID:    "home-1",
		WholeHome: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)

	byTemplate := make(map[string]TemplateApplyResult)
	for _, item := range result.Results {
		byTemplate[item.TemplateID] = item
	}
	assert.Equal(t, OutcomeFailed, byTemplate["tpl-1"].Outcome)
	assert.Contains(t, byTemplate["tpl-1"].Reason, "custom frequency")
}

func TestApplyTemplatePackStoreFailureIsPerItem(t *testing.T) {
	repo := newFakeRepo()
	seedPack(repo, "pack-1", 3, domain.FrequencyWeekly)
	repo.failCreateTaskFor = "tpl-2"

	svc := NewService(repo, Config{})

	result, err := svc.ApplyTemplatePack(context.Background(), ApplyPackParams{
		PackID:    "pack-1",
		HomeID:    "home-1",
		WholeHome: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)
}

func TestApplyTemplatePackUnknownPack(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, Config{})

	_, err := svc.ApplyTemplatePack(context.Background(), ApplyPackParams{
		PackID:    "missing",
		HomeID:    "home-1",
		WholeHome: true,
	})
	assert.ErrorIs(t, err, domain.ErrPackNotFound)
}

func TestApplyTemplatePackAssetOwnershipChecked(t *testing.T) {
	repo := newFakeRepo()
	seedPack(repo, "pack-1", 1, domain.FrequencyMonthly)
	repo.assets["asset-1"] = &domain.Asset{ID: "asset-1", HomeID: "other-home"}

	svc := NewService(repo, Config{})

	_, err := svc.ApplyTemplatePack(context.Background(), ApplyPackParams{
		PackID:  "pack-1",
		HomeID:  "home-1",
		AssetID: "asset-1",
	})
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}
