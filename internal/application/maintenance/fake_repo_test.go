package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/upkeephq/upkeep/internal/domain"
)

// fakeRepo is an in-memory Repository for service tests. Schedules are keyed
// by (asset, template) the same way the database unique constraint keys them.
type fakeRepo struct {
	templates map[string]*domain.MaintenanceTemplate
	packs     map[string]*domain.TemplatePack
	assets    map[string]*domain.Asset
	schedules map[string]*domain.RecurringSchedule
	tasks     map[string]*domain.Task

	// taskOrder preserves insertion order for list assertions.
	taskOrder []string

	// failCreateTaskFor makes CreateTask fail for tasks created from the named
	// template.
	failCreateTaskFor string

	findTasksErr        error
	createTaskErr       error
	setLastCompletedErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		templates: make(map[string]*domain.MaintenanceTemplate),
		packs:     make(map[string]*domain.TemplatePack),
		assets:    make(map[string]*domain.Asset),
		schedules: make(map[string]*domain.RecurringSchedule),
		tasks:     make(map[string]*domain.Task),
	}
}

func (f *fakeRepo) CreateTemplate(_ context.Context, template *domain.MaintenanceTemplate) (*domain.MaintenanceTemplate, error) {
	f.templates[template.ID] = template
	return template, nil
}

func (f *fakeRepo) FindTemplateByID(_ context.Context, id string) (*domain.MaintenanceTemplate, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return tpl, nil
}

func (f *fakeRepo) FindTemplates(_ context.Context, activeOnly bool) ([]*domain.MaintenanceTemplate, error) {
	var out []*domain.MaintenanceTemplate
	for _, tpl := range f.templates {
		if activeOnly && !tpl.IsActive {
			continue
		}
		out = append(out, tpl)
	}
	return out, nil
}

func (f *fakeRepo) FindPacks(_ context.Context) ([]*domain.TemplatePack, error) {
	var out []*domain.TemplatePack
	for _, p := range f.packs {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) FindPackByID(_ context.Context, id string) (*domain.TemplatePack, error) {
	p, ok := f.packs[id]
	if !ok {
		return nil, domain.ErrPackNotFound
	}
	return p, nil
}

func (f *fakeRepo) FindActiveTemplatesInPack(_ context.Context, packID string) ([]*domain.MaintenanceTemplate, error) {
	var out []*domain.MaintenanceTemplate
	// Deterministic order for result attribution assertions.
	for i := 0; i < len(f.templates); i++ {
		for _, tpl := range f.templates {
			if tpl.ID != fmt.Sprintf("tpl-%d", i) {
				continue
			}
			if tpl.PackID != nil && *tpl.PackID == packID && tpl.IsActive {
				out = append(out, tpl)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) FindAssetByID(_ context.Context, id string) (*domain.Asset, error) {
	a, ok := f.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	return a, nil
}

func scheduleKey(assetID, templateID string) string {
	return assetID + "/" + templateID
}

func (f *fakeRepo) FindScheduleForAssetTemplate(_ context.Context, assetID, templateID string) (*domain.RecurringSchedule, error) {
	s, ok := f.schedules[scheduleKey(assetID, templateID)]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	return s, nil
}

func (f *fakeRepo) FindSchedulesByAsset(_ context.Context, assetID string, activeOnly bool) ([]*domain.RecurringSchedule, error) {
	var out []*domain.RecurringSchedule
	for _, s := range f.schedules {
		if s.AssetID != assetID {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) CreateScheduleWithSeedTask(ctx context.Context, sched *domain.RecurringSchedule, seed *domain.Task) (*domain.RecurringSchedule, error) {
	key := scheduleKey(sched.AssetID, sched.TemplateID)
	if existing, ok := f.schedules[key]; ok && existing.IsActive {
		return nil, domain.ErrScheduleAlreadyActive
	}
	if _, err := f.CreateTask(ctx, seed); err != nil {
		return nil, err
	}
	f.schedules[key] = sched
	return sched, nil
}

func (f *fakeRepo) ReactivateScheduleWithSeedTask(ctx context.Context, scheduleID string, nextDue time.Time, seed *domain.Task) (*domain.RecurringSchedule, error) {
	for _, s := range f.schedules {
		if s.ID != scheduleID {
			continue
		}
		if _, err := f.CreateTask(ctx, seed); err != nil {
			return nil, err
		}
		s.IsActive = true
		s.NextDueDate = nextDue
		return s, nil
	}
	return nil, domain.ErrScheduleNotFound
}

func (f *fakeRepo) DeactivateSchedule(_ context.Context, scheduleID string) error {
	for _, s := range f.schedules {
		if s.ID == scheduleID {
			s.IsActive = false
			return nil
		}
	}
	return domain.ErrScheduleNotFound
}

func (f *fakeRepo) SetScheduleLastCompleted(_ context.Context, scheduleID string, completedAt time.Time) error {
	if f.setLastCompletedErr != nil {
		return f.setLastCompletedErr
	}
	for _, s := range f.schedules {
		if s.ID == scheduleID {
			s.LastCompletedDate = &completedAt
			return nil
		}
	}
	return domain.ErrScheduleNotFound
}

func (f *fakeRepo) CreateTask(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if f.createTaskErr != nil {
		return nil, f.createTaskErr
	}
	if f.failCreateTaskFor != "" && task.TemplateID != nil && *task.TemplateID == f.failCreateTaskFor {
		return nil, fmt.Errorf("simulated insert failure")
	}
	f.tasks[task.ID] = task
	f.taskOrder = append(f.taskOrder, task.ID)
	return task, nil
}

func (f *fakeRepo) FindTaskByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeRepo) FindTasks(_ context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error) {
	if f.findTasksErr != nil {
		return nil, f.findTasksErr
	}

	var matched []*domain.Task
	for _, id := range f.taskOrder {
		t := f.tasks[id]
		if params.HomeID != nil && t.HomeID != *params.HomeID {
			continue
		}
		if params.AssetID != nil && (t.AssetID == nil || *t.AssetID != *params.AssetID) {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Priority != nil && t.Priority != *params.Priority {
			continue
		}
		matched = append(matched, t)
	}

	total := len(matched)
	if params.Offset < len(matched) {
		matched = matched[params.Offset:]
	} else {
		matched = nil
	}
	if params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}

	return &domain.PagedTasks{
		Tasks:      matched,
		TotalCount: total,
		HasMore:    params.Offset+len(matched) < total,
	}, nil
}

func (f *fakeRepo) UpdateTaskStatus(_ context.Context, taskID string, status domain.TaskStatus, completedAt *time.Time) (*domain.Task, error) {
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.Status = status
	t.CompletedAt = completedAt
	return t, nil
}

var _ Repository = (*fakeRepo)(nil)
