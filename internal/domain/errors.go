package domain

import "errors"

// Domain errors returned by services and repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrHomeNotFound indicates the specified home does not exist.
	ErrHomeNotFound = errors.New("home not found")

	// ErrAssetNotFound indicates the specified asset does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrTemplateNotFound indicates the specified maintenance template does not exist.
	ErrTemplateNotFound = errors.New("maintenance template not found")

	// ErrPackNotFound indicates the specified template pack does not exist.
	ErrPackNotFound = errors.New("template pack not found")

	// ErrScheduleNotFound indicates the specified recurring schedule does not exist.
	ErrScheduleNotFound = errors.New("recurring schedule not found")

	// ErrTaskNotFound indicates the specified task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAttachmentNotFound indicates the specified attachment does not exist.
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrNameRequired indicates a required name field was empty.
	ErrNameRequired = errors.New("name is required")

	// ErrNameTooLong indicates a name exceeded the 255 character limit.
	ErrNameTooLong = errors.New("name must be 255 characters or less")

	// ErrInvalidTaskStatus indicates an unknown task status value.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidTaskPriority indicates an unknown task priority value.
	ErrInvalidTaskPriority = errors.New("invalid task priority")

	// ErrInvalidFrequency indicates an unknown frequency value.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrInvalidDifficulty indicates an unknown difficulty value.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrCustomDaysRequired indicates a custom frequency without a day count.
	// This is a contract violation, never silently defaulted.
	ErrCustomDaysRequired = errors.New("custom frequency requires a positive day count")

	// ErrScheduleAlreadyActive indicates the (asset, template) pair already has an
	// active recurring schedule. Re-applying is a conflict, not a duplicate.
	ErrScheduleAlreadyActive = errors.New("template already applied to asset")

	// ErrInvalidUpdateMask indicates an empty update mask or one naming an
	// unknown field.
	ErrInvalidUpdateMask = errors.New("invalid update mask")

	// ErrInvalidTransition indicates a task status transition that the state
	// machine does not allow (e.g. reopening a cancelled task).
	ErrInvalidTransition = errors.New("invalid task status transition")

	// ErrUnauthorized indicates the request lacked a valid API key.
	ErrUnauthorized = errors.New("unauthorized")
)
