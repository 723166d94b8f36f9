package handler

import (
	"time"

	"github.com/upkeephq/upkeep/internal/application/maintenance"
	"github.com/upkeephq/upkeep/internal/domain"
)

// dateLayout renders day-granularity fields (due dates, purchase dates)
// without a time component.
const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// HomeDTO is the JSON representation of a home.
type HomeDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MapHomeToDTO(h *domain.Home) HomeDTO {
	return HomeDTO{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

// AssetDTO is the JSON representation of an asset.
type AssetDTO struct {
	ID           string    `json:"id"`
	HomeID       string    `json:"home_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	ModelNumber  string    `json:"model_number,omitempty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	PurchaseDate *string   `json:"purchase_date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func MapAssetToDTO(a *domain.Asset) AssetDTO {
	return AssetDTO{
		ID:           a.ID,
		HomeID:       a.HomeID,
		Name:         a.Name,
		Category:     a.Category,
		Manufacturer: a.Manufacturer,
		ModelNumber:  a.ModelNumber,
		SerialNumber: a.SerialNumber,
		Notes:        a.Notes,
		PurchaseDate: formatDatePtr(a.PurchaseDate),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// TemplateDTO is the JSON representation of a maintenance template.
type TemplateDTO struct {
	ID                  string    `json:"id"`
	PackID              *string   `json:"pack_id,omitempty"`
	Name                string    `json:"name"`
	Category            string    `json:"category,omitempty"`
	Description         string    `json:"description,omitempty"`
	DefaultFrequency    string    `json:"default_frequency"`
	CustomFrequencyDays *int      `json:"custom_frequency_days,omitempty"`
	EstimatedMinutes    int       `json:"estimated_minutes,omitempty"`
	Difficulty          string    `json:"difficulty"`
	Instructions        []string  `json:"instructions,omitempty"`
	Tools               []string  `json:"tools,omitempty"`
	SafetyNotes         []string  `json:"safety_notes,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func MapTemplateToDTO(t *domain.MaintenanceTemplate) TemplateDTO {
	return TemplateDTO{
		ID:                  t.ID,
		PackID:              t.PackID,
		Name:                t.Name,
		Category:            t.Category,
		Description:         t.Description,
		DefaultFrequency:    string(t.DefaultFrequency),
		CustomFrequencyDays: t.CustomFrequencyDays,
		EstimatedMinutes:    t.EstimatedMinutes,
		Difficulty:          string(t.Difficulty),
		Instructions:        t.Instructions,
		Tools:               t.Tools,
		SafetyNotes:         t.SafetyNotes,
		IsActive:            t.IsActive,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// PackDTO is the JSON representation of a template pack.
type PackDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	TemplateCount int       `json:"template_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func MapPackToDTO(p *domain.TemplatePack) PackDTO {
	return PackDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		TemplateCount: p.TemplateCount,
		CreatedAt:     p.CreatedAt,
	}
}

// ScheduleDTO is the JSON representation of a recurring schedule.
type ScheduleDTO struct {
	ID                  string    `json:"id"`
	AssetID             string    `json:"asset_id"`
	TemplateID          string    `json:"template_id"`
	Frequency           string    `json:"frequency"`
	CustomFrequencyDays *int      `json:"custom_frequency_days,omitempty"`
	NextDueDate         string    `json:"next_due_date"`
	LastCompletedDate   *string   `json:"last_completed_date,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func MapScheduleToDTO(s *domain.RecurringSchedule) ScheduleDTO {
	return ScheduleDTO{
		ID:                  s.ID,
		AssetID:             s.AssetID,
		TemplateID:          s.TemplateID,
		Frequency:           string(s.Frequency),
		CustomFrequencyDays: s.CustomFrequencyDays,
		NextDueDate:         formatDate(s.NextDueDate),
		LastCompletedDate:   formatDatePtr(s.LastCompletedDate),
		IsActive:            s.IsActive,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// TaskDTO is the JSON representation of a task.
type TaskDTO struct {
	ID           string     `json:"id"`
	HomeID       string     `json:"home_id"`
	AssetID      *string    `json:"asset_id,omitempty"`
	TemplateID   *string    `json:"template_id,omitempty"`
	ScheduleID   *string    `json:"schedule_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      string     `json:"due_date"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	GeneratedFor *string    `json:"generated_for,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func MapTaskToDTO(t *domain.Task) TaskDTO {
	return TaskDTO{
		ID:           t.ID,
		HomeID:       t.HomeID,
		AssetID:      t.AssetID,
		TemplateID:   t.TemplateID,
		ScheduleID:   t.ScheduleID,
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      formatDate(t.DueDate),
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		GeneratedFor: formatDatePtr(t.GeneratedFor),
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// AttachmentDTO is the JSON representation of attachment metadata.
type AttachmentDTO struct {
	Name        string    `json:"name"`
	AssetID     string    `json:"asset_id"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func MapAttachmentToDTO(a *domain.Attachment) AttachmentDTO {
	return AttachmentDTO{
		Name:        a.Name,
		AssetID:     a.AssetID,
		ContentType: a.ContentType,
		Size:        a.Size,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ApplyResultDTO is the JSON representation of a pack application outcome.
type ApplyResultDTO struct {
	SuccessCount int                    `json:"success_count"`
	FailCount    int                    `json:"fail_count"`
	Results      []ApplyResultDetailDTO `json:"results"`
}

// ApplyResultDetailDTO is one template's outcome inside a pack application.
type ApplyResultDetailDTO struct {
	TemplateID   string  `json:"template_id"`
	TemplateName string  `json:"template_name"`
	Outcome      string  `json:"outcome"`
	Reason       string  `json:"reason,omitempty"`
	ScheduleID   *string `json:"schedule_id,omitempty"`
	TaskID       *string `json:"task_id,omitempty"`
}

func MapApplyResultToDTO(r *maintenance.ApplyPackResult) ApplyResultDTO {
	out := ApplyResultDTO{
		SuccessCount: r.SuccessCount,
		FailCount:    r.FailCount,
		Results:      make([]ApplyResultDetailDTO, 0, len(r.Results)),
	}
	for _, item := range r.Results {
		out.Results = append(out.Results, ApplyResultDetailDTO{
			TemplateID:   item.TemplateID,
			TemplateName: item.TemplateName,
			Outcome:      string(item.Outcome),
			Reason:       item.Reason,
			ScheduleID:   item.ScheduleID,
			TaskID:       item.TaskID,
		})
	}
	return out
}
