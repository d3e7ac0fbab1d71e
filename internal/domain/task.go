package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the urgency of a task.
type Priority string

// Supported priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status is the progress state of a task. Any status may be set at any time;
// transitions are not checked for ordering.
type Status string

// Supported statuses.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// DueDateLayout is the calendar-date form accepted for due dates in addition
// to RFC 3339 timestamps.
const DueDateLayout = "2006-01-02"

// Task validation errors
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID      = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle       = errors.New("task title cannot be empty")
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
	ErrEmptyTaskDueDate     = errors.New("task due date cannot be empty")
	ErrInvalidPriority      = errors.New("invalid task priority")
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrInvalidDueDate       = errors.New("invalid task due date")
)

// Task is a unit of work owned by exactly one user.
// UserID and CreatedDate never change after creation.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedDate time.Time `json:"created_date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TimestampPrecision is the resolution of stored timestamps. BSON dates
// carry milliseconds, so every backend keeps the same value a response shows.
const TimestampPrecision = time.Millisecond

// Now returns the current UTC time at TimestampPrecision.
func Now() time.Time {
	return time.Now().UTC().Truncate(TimestampPrecision)
}

// NewTask creates a Task owned by userID. Empty priority and status take the
// defaults medium and pending.
func NewTask(
	userID uuid.UUID,
	title, description string,
	dueDate time.Time,
	priority Priority,
	status Status,
) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	if status == "" {
		status = StatusPending
	}

	now := Now()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		DueDate:     dueDate.UTC(),
		Priority:    priority,
		Status:      status,
		CreatedDate: now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}
	if t.Title == "" {
		return NewValidationError("title", "is required", ErrEmptyTaskTitle)
	}
	if t.Description == "" {
		return NewValidationError("description", "is required", ErrEmptyTaskDescription)
	}
	if t.DueDate.IsZero() {
		return NewValidationError("due_date", "is required", ErrEmptyTaskDueDate)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be one of pending, in-progress, completed", ErrInvalidStatus)
	}
	return nil
}

// Valid reports whether p is a supported priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a supported status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// ParseDueDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, NewValidationError("due_date", "is required", ErrEmptyTaskDueDate)
	}
	if t, err := time.Parse(DueDateLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, NewValidationError(
		"due_date",
		"must be a date (YYYY-MM-DD) or RFC 3339 timestamp",
		ErrInvalidDueDate,
	)
}

// TaskPatch carries a partial update. Nil fields are left unchanged; fields
// other than these five can never be modified.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Status      *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.Status == nil
}

// Validate checks every field the patch sets.
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTaskTitle)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return NewValidationError("description", "cannot be empty", ErrEmptyTaskDescription)
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		return NewValidationError("due_date", "cannot be empty", ErrEmptyTaskDueDate)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status", "must be one of pending, in-progress, completed", ErrInvalidStatus)
	}
	return nil
}

// Apply copies the set fields onto t and bumps UpdatedAt.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate.UTC()
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = Now()
}

// TaskFilter narrows a listing of a user's tasks. It can never widen the
// listing beyond the owner.
type TaskFilter struct {
	Status   *Status
	Priority *Priority
}

// Validate checks the filter values.
func (f TaskFilter) Validate() error {
	if f.Status != nil && !f.Status.Valid() {
		return NewValidationError("status", "must be one of pending, in-progress, completed", ErrInvalidStatus)
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	return nil
}

// Matches reports whether t satisfies the filter.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	return true
}
