package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestNewTaskDefaults(t *testing.T) {
	userID := uuid.New()
	due := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	task, err := NewTask(userID, "t", "d", due, "", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected generated task ID")
	}
	if task.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, task.UserID)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("Expected default priority medium, got %s", task.Priority)
	}
	if task.Status != StatusPending {
		t.Errorf("Expected default status pending, got %s", task.Status)
	}
	if task.CreatedDate.IsZero() || !task.CreatedDate.Equal(task.UpdatedAt) {
		t.Error("Expected CreatedDate set and equal to UpdatedAt on creation")
	}
}

func TestNewTaskValidation(t *testing.T) {
	userID := uuid.New()
	due := time.Now()

	tests := []struct {
		name     string
		userID   uuid.UUID
		title    string
		desc     string
		due      time.Time
		priority Priority
		status   Status
		wantErr  error
	}{
		{"missing user", uuid.Nil, "t", "d", due, "", "", ErrEmptyTaskUserID},
		{"blank title", userID, "  ", "d", due, "", "", ErrEmptyTaskTitle},
		{"missing description", userID, "t", "", due, "", "", ErrEmptyTaskDescription},
		{"missing due date", userID, "t", "d", time.Time{}, "", "", ErrEmptyTaskDueDate},
		{"bad priority", userID, "t", "d", due, "urgent", "", ErrInvalidPriority},
		{"bad status", userID, "t", "d", due, "", "done", ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTask(tt.userID, tt.title, tt.desc, tt.due, tt.priority, tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTaskValidationErrorsMatchErrValidation(t *testing.T) {
	_, err := NewTask(uuid.New(), "", "d", time.Now(), "", "")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected field errors to match ErrValidation, got %v", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "title" {
		t.Errorf("Expected ValidationError for title, got %v", err)
	}
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2024-06-30", want: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)},
		{input: "2024-06-30T15:04:05+02:00", want: time.Date(2024, 6, 30, 13, 4, 5, 0, time.UTC)},
		{input: "", wantErr: true},
		{input: "30/06/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDueDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTaskPatch(t *testing.T) {
	task, err := NewTask(uuid.New(), "t", "d", time.Now(), PriorityLow, StatusPending)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	owner, created := task.UserID, task.CreatedDate

	completed := StatusCompleted
	patch := TaskPatch{Title: strPtr("new title"), Status: &completed}
	if patch.IsEmpty() {
		t.Fatal("Expected non-empty patch")
	}
	if err := patch.Validate(); err != nil {
		t.Fatalf("Expected valid patch, got %v", err)
	}

	patch.Apply(task)

	if task.Title != "new title" || task.Status != StatusCompleted {
		t.Errorf("Expected patched fields, got title=%q status=%q", task.Title, task.Status)
	}
	if task.Description != "d" || task.Priority != PriorityLow {
		t.Error("Expected unset fields to be unchanged")
	}
	if task.UserID != owner || !task.CreatedDate.Equal(created) {
		t.Error("Expected owner and creation date to be immutable")
	}
}

func TestTaskPatchAllowsAnyStatusTransition(t *testing.T) {
	task, _ := NewTask(uuid.New(), "t", "d", time.Now(), "", StatusCompleted)

	pending := StatusPending
	patch := TaskPatch{Status: &pending}
	if err := patch.Validate(); err != nil {
		t.Fatalf("Expected backwards transition to be allowed, got %v", err)
	}
	patch.Apply(task)
	if task.Status != StatusPending {
		t.Errorf("Expected status pending, got %s", task.Status)
	}
}

func TestTaskPatchValidate(t *testing.T) {
	bad := Priority("urgent")
	badStatus := Status("done")
	zero := time.Time{}

	tests := []struct {
		name    string
		patch   TaskPatch
		wantErr error
	}{
		{"blank title", TaskPatch{Title: strPtr(" ")}, ErrEmptyTaskTitle},
		{"blank description", TaskPatch{Description: strPtr("")}, ErrEmptyTaskDescription},
		{"zero due date", TaskPatch{DueDate: &zero}, ErrEmptyTaskDueDate},
		{"bad priority", TaskPatch{Priority: &bad}, ErrInvalidPriority},
		{"bad status", TaskPatch{Status: &badStatus}, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.patch.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}

	if !(TaskPatch{}).IsEmpty() {
		t.Error("Expected zero patch to be empty")
	}
}

func TestTaskFilter(t *testing.T) {
	task, _ := NewTask(uuid.New(), "t", "d", time.Now(), PriorityHigh, StatusInProgress)

	high := PriorityHigh
	low := PriorityLow
	inProgress := StatusInProgress

	if !(TaskFilter{}).Matches(task) {
		t.Error("Expected empty filter to match")
	}
	if !(TaskFilter{Status: &inProgress, Priority: &high}).Matches(task) {
		t.Error("Expected matching filter to match")
	}
	if (TaskFilter{Priority: &low}).Matches(task) {
		t.Error("Expected priority mismatch to exclude task")
	}

	bogus := Status("archived")
	if err := (TaskFilter{Status: &bogus}).Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskTimestampsUseStoredPrecision(t *testing.T) {
	task, err := NewTask(uuid.New(), "t", "d", time.Now(), "", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !task.CreatedDate.Equal(task.CreatedDate.Truncate(TimestampPrecision)) {
		t.Errorf("CreatedDate %v has sub-millisecond precision", task.CreatedDate)
	}
	if !task.UpdatedAt.Equal(task.CreatedDate) {
		t.Errorf("Expected UpdatedAt %v to equal CreatedDate %v", task.UpdatedAt, task.CreatedDate)
	}

	title := "renamed"
	TaskPatch{Title: &title}.Apply(task)
	if !task.UpdatedAt.Equal(task.UpdatedAt.Truncate(TimestampPrecision)) {
		t.Errorf("UpdatedAt %v has sub-millisecond precision after update", task.UpdatedAt)
	}

	// A BSON round trip keeps milliseconds only.
	stored := time.UnixMilli(task.CreatedDate.UnixMilli()).UTC()
	if !stored.Equal(task.CreatedDate) {
		t.Errorf("Expected stored %v to equal CreatedDate %v", stored, task.CreatedDate)
	}
}
