package domain

import "time"

// Home is an aggregate root representing one property a user maintains.
type Home struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Asset is an entity within a Home: an appliance, HVAC unit, plumbing fixture,
// or other maintainable thing. Recurring schedules attach templates to assets.
type Asset struct {
	ID     string
	HomeID string

	Name         string
	Category     string
	Manufacturer string
	ModelNumber  string
	SerialNumber string
	Notes        string

	PurchaseDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaintenanceTemplate is a reusable task definition. Templates are immutable
// from the scheduler's point of view; they may belong to a TemplatePack and are
// applied to assets (or a whole home) through the pack applier.
type MaintenanceTemplate struct {
	ID     string
	PackID *string // Optional membership in a TemplatePack

	Name        string
	Category    string
	Description string

	// Cadence defaults used when the template is applied to an asset.
	DefaultFrequency    Frequency
	CustomFrequencyDays *int // Only meaningful when DefaultFrequency is custom

	EstimatedMinutes int
	Difficulty       Difficulty

	// Serialized guidance lists, stored as JSONB.
	Instructions []string
	Tools        []string
	SafetyNotes  []string

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TemplatePack is a named bundle of templates applied together in one batch.
type TemplatePack struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time

	// TemplateCount is populated from database aggregation on list reads.
	TemplateCount int
}

// RecurringSchedule links one asset to one template and carries cadence state.
//
// Invariant: at most one schedule per (asset, template) pair, enforced by a
// unique constraint. Re-applying a template to the same asset rejects if the
// schedule is active and reactivates if it is inactive.
//
// A schedule outlives many tasks (one per cycle). Deactivating a schedule stops
// future task generation but does not touch already-created tasks.
type RecurringSchedule struct {
	ID         string
	AssetID    string
	TemplateID string

	Frequency           Frequency
	CustomFrequencyDays *int // Only meaningful when Frequency is custom

	NextDueDate       time.Time
	LastCompletedDate *time.Time

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DueSchedule is a RecurringSchedule joined with its template, as read by the
// materializer sweep.
type DueSchedule struct {
	Schedule RecurringSchedule
	Template MaintenanceTemplate
	HomeID   string // Home owning the schedule's asset
}

// Task is the materialized unit of work. Created by the materializer from a due
// schedule, by the pack applier as a seed or whole-home task, or directly by a
// user. Tasks are never deleted; cancellation is the soft delete.
type Task struct {
	ID     string
	HomeID string

	// Optional links back to the originating asset, template, and schedule.
	AssetID    *string
	TemplateID *string
	ScheduleID *string

	Title       string
	Description string

	DueDate  time.Time
	Priority TaskPriority
	Status   TaskStatus

	// GeneratedFor is the schedule cycle this task was materialized for (the
	// schedule's next_due_date at materialization time). Together with
	// ScheduleID it is unique, which makes the sweep safe to re-run
	// concurrently. Nil for user-created and whole-home tasks.
	GeneratedFor *time.Time

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Attachment is metadata for a blob (manual, photo, receipt) stored against an
// asset in the attachment store.
type Attachment struct {
	Name        string
	AssetID     string
	ContentType string
	Size        int64
	UpdatedAt   time.Time
}
