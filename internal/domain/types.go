package domain

import "time"

// ListTasksParams contains parameters for listing tasks with filtering,
// sorting, and pagination.
//
// Common use cases:
//   - "Overdue tasks for a home": HomeID=X, Status=overdue
//   - "Everything for one asset": AssetID=Y
//   - Paginated dashboard: Limit=50, Offset=100 for page 3
type ListTasksParams struct {
	// Optional filters (nil = no filter applied)
	HomeID    *string
	AssetID   *string
	Status    *TaskStatus
	Priority  *TaskPriority
	DueBefore *time.Time
	DueAfter  *time.Time

	// Sorting (empty uses defaults: due_date field, asc direction)
	OrderBy  string // Supported: "due_date", "priority", "created_at"
	OrderDir string // "asc" or "desc" (empty = field's default)

	// Pagination (both required for correct pagination)
	Limit  int
	Offset int
}

// PagedTasks contains tasks matching the query parameters.
type PagedTasks struct {
	Tasks      []*Task
	TotalCount int  // Total matching tasks across all pages
	HasMore    bool // Whether there are more pages
}

// UpdateAssetParams contains parameters for updating an asset with field mask
// support. Only fields named in UpdateMask are modified.
type UpdateAssetParams struct {
	AssetID string
	HomeID  string // Required for ownership validation

	UpdateMask []string

	// Field values (only applied if field is in UpdateMask)
	Name         *string
	Category     *string
	Manufacturer *string
	ModelNumber  *string
	SerialNumber *string
	Notes        *string
	PurchaseDate *time.Time
}

// Field names for Asset update masks.
const (
	FieldAssetName         = "name"
	FieldAssetCategory     = "category"
	FieldAssetManufacturer = "manufacturer"
	FieldAssetModelNumber  = "model_number"
	FieldAssetSerialNumber = "serial_number"
	FieldAssetNotes        = "notes"
	FieldAssetPurchaseDate = "purchase_date"
)
