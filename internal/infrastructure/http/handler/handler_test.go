package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep/internal/application/inventory"
	"github.com/upkeephq/upkeep/internal/application/maintenance"
	"github.com/upkeephq/upkeep/internal/application/sweep"
	"github.com/upkeephq/upkeep/internal/domain"
	"github.com/upkeephq/upkeep/internal/infrastructure/http/response"
)

// stubMaintenanceRepo embeds the interface so tests only implement the
// methods they expect to be called; anything else panics on the nil interface.
type stubMaintenanceRepo struct {
	maintenance.Repository

	findTaskByID     func(ctx context.Context, id string) (*domain.Task, error)
	findTasks        func(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error)
	findAssetByID    func(ctx context.Context, id string) (*domain.Asset, error)
	createTask       func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	updateTaskStatus func(ctx context.Context, taskID string, status domain.TaskStatus, completedAt *time.Time) (*domain.Task, error)
}

func (s *stubMaintenanceRepo) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.findTaskByID(ctx, id)
}

func (s *stubMaintenanceRepo) FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error) {
	return s.findTasks(ctx, params)
}

func (s *stubMaintenanceRepo) FindAssetByID(ctx context.Context, id string) (*domain.Asset, error) {
	return s.findAssetByID(ctx, id)
}

func (s *stubMaintenanceRepo) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return s.createTask(ctx, task)
}

func (s *stubMaintenanceRepo) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus, completedAt *time.Time) (*domain.Task, error) {
	return s.updateTaskStatus(ctx, taskID, status, completedAt)
}

func (s *stubMaintenanceRepo) SetScheduleLastCompleted(ctx context.Context, scheduleID string, completedAt time.Time) error {
	return nil
}

type stubInventoryRepo struct {
	inventory.Repository
}

type stubSweepRepo struct {
	sweep.Repository

	findDueSchedules func(ctx context.Context, asOf time.Time) ([]*domain.DueSchedule, error)
	markOverdueTasks func(ctx context.Context, before time.Time) (int64, error)
}

func (s *stubSweepRepo) FindDueSchedules(ctx context.Context, asOf time.Time) ([]*domain.DueSchedule, error) {
	return s.findDueSchedules(ctx, asOf)
}

func (s *stubSweepRepo) MarkOverdueTasks(ctx context.Context, before time.Time) (int64, error) {
	return s.markOverdueTasks(ctx, before)
}

func newTestRouter(t *testing.T, maintRepo maintenance.Repository, sweepRepo sweep.Repository) http.Handler {
	t.Helper()
	if maintRepo == nil {
		maintRepo = &stubMaintenanceRepo{}
	}
	if sweepRepo == nil {
		sweepRepo = &stubSweepRepo{}
	}
	h := NewHandler(
		inventory.NewService(&stubInventoryRepo{}, nil),
		maintenance.NewService(maintRepo, maintenance.Config{}),
		sweep.NewService(sweepRepo),
	)
	return h.Routes()
}

func decodeError(t *testing.T, body *bytes.Buffer) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestGetTask_NotFoundMapsTo404(t *testing.T) {
	repo := &stubMaintenanceRepo{
		findTaskByID: func(ctx context.Context, id string) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	router := newTestRouter(t, repo, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tasks/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestCompleteTask_InvalidTransitionMapsTo409(t *testing.T) {
	repo := &stubMaintenanceRepo{
		findTaskByID: func(ctx context.Context, id string) (*domain.Task, error) {
			return &domain.Task{ID: id, HomeID: "home-1", Status: domain.TaskStatusCancelled}, nil
		},
	}
	router := newTestRouter(t, repo, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tasks/task-1/complete", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestCompleteTask_ReturnsUpdatedTask(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	repo := &stubMaintenanceRepo{
		findTaskByID: func(ctx context.Context, id string) (*domain.Task, error) {
			return &domain.Task{
				ID:      id,
				HomeID:  "home-1",
				Title:   "Replace filter",
				DueDate: now,
				Status:  domain.TaskStatusPending,
			}, nil
		},
		updateTaskStatus: func(ctx context.Context, taskID string, status domain.TaskStatus, completedAt *time.Time) (*domain.Task, error) {
			return &domain.Task{
				ID:          taskID,
				HomeID:      "home-1",
				Title:       "Replace filter",
				DueDate:     now,
				Status:      status,
				CompletedAt: completedAt,
			}, nil
		},
	}
	router := newTestRouter(t, repo, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tasks/task-1/complete", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var dto TaskDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "task-1", dto.ID)
	assert.Equal(t, "completed", dto.Status)
	assert.Equal(t, "2025-07-10", dto.DueDate)
	require.NotNil(t, dto.CompletedAt)
}

func TestCreateTask_RejectsBadDueDate(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	body := strings.NewReader(`{"title":"Clean gutters","due_date":"July 10"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/homes/home-1/tasks", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "due_date", resp.Error.Details[0].Field)
}

func TestListTasks_ParsesQueryParameters(t *testing.T) {
	var got domain.ListTasksParams
	repo := &stubMaintenanceRepo{
		findTasks: func(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error) {
			got = params
			return &domain.PagedTasks{Tasks: nil, TotalCount: 0}, nil
		},
	}
	router := newTestRouter(t, repo, nil)

	url := "/v1/homes/home-1/tasks?status=overdue&priority=high&asset_id=asset-9" +
		"&due_before=2025-08-01&order_by=priority&order_dir=desc&limit=5&offset=10"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.HomeID)
	assert.Equal(t, "home-1", *got.HomeID)
	require.NotNil(t, got.AssetID)
	assert.Equal(t, "asset-9", *got.AssetID)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.TaskStatusOverdue, *got.Status)
	require.NotNil(t, got.Priority)
	assert.Equal(t, domain.TaskPriorityHigh, *got.Priority)
	require.NotNil(t, got.DueBefore)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), *got.DueBefore)
	assert.Equal(t, "priority", got.OrderBy)
	assert.Equal(t, "desc", got.OrderDir)
	assert.Equal(t, 5, got.Limit)
	assert.Equal(t, 10, got.Offset)
}

func TestListTasks_RejectsNonNumericLimit(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/homes/home-1/tasks?limit=lots", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestListTasks_RejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/homes/home-1/tasks?status=paused", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyPack_RequiresExactlyOneTarget(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "both asset and whole home", body: `{"asset_id":"asset-1","whole_home":true}`},
		{name: "neither target", body: `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/homes/home-1/packs/pack-1/apply", strings.NewReader(tc.body))
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec.Body)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		})
	}
}

func TestCronRoutes_TriggerOverdue(t *testing.T) {
	sweepRepo := &stubSweepRepo{
		markOverdueTasks: func(ctx context.Context, before time.Time) (int64, error) {
			return 7, nil
		},
	}
	h := NewHandler(
		inventory.NewService(&stubInventoryRepo{}, nil),
		maintenance.NewService(&stubMaintenanceRepo{}, maintenance.Config{}),
		sweep.NewService(sweepRepo),
	)
	router := h.CronRoutes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/overdue", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result sweep.OverdueResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, int64(7), result.Transitioned)
}

func TestCronRoutes_TriggerMaterializeEmpty(t *testing.T) {
	sweepRepo := &stubSweepRepo{
		findDueSchedules: func(ctx context.Context, asOf time.Time) ([]*domain.DueSchedule, error) {
			return nil, nil
		},
	}
	h := NewHandler(
		inventory.NewService(&stubInventoryRepo{}, nil),
		maintenance.NewService(&stubMaintenanceRepo{}, maintenance.Config{}),
		sweep.NewService(sweepRepo),
	)
	router := h.CronRoutes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/materialize", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result sweep.MaterializeResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Created)
}
