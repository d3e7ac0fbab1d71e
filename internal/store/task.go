package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every read and
// write other than Create is scoped to the owning user: a task that exists
// but belongs to someone else is reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task. Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// ListForUser returns the user's tasks matching filter, oldest first.
	// Returns an empty slice when nothing matches.
	ListForUser(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)

	// GetByID retrieves one of the user's tasks.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// Update applies patch to one of the user's tasks and returns the new state.
	Update(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes one of the user's tasks and returns its prior state.
	Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
}
