package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/store"
)

// CreateTaskInput carries the caller-supplied fields of a new task. The
// owner is never part of the input; it is always the authenticated user.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    domain.Priority
	Status      domain.Status
}

// TaskService provides the task operations available to an authenticated user.
// Every method is scoped to userID.
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService backed by tasks.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create builds a task for userID, applying the priority and status defaults.
func (s *taskServiceImpl) Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, input.Title, input.Description, input.DueDate, input.Priority, input.Status)
	if err != nil {
		log.Debug("task rejected by validation", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, NewServiceError("create", err)
	}

	return task, nil
}

// List returns the user's tasks matching filter, oldest first.
func (s *taskServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	tasks, err := s.tasks.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, NewServiceError("list", err)
	}
	return tasks, nil
}

// Get returns one of the user's tasks. A task owned by someone else yields
// store.ErrTaskNotFound.
func (s *taskServiceImpl) Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("get", err)
	}
	return task, nil
}

// Update applies patch to one of the user's tasks. Any status may be set from
// any status. An empty patch changes nothing and returns the current task.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.Get(ctx, userID, taskID)
	}

	task, err := s.tasks.Update(ctx, userID, taskID, patch)
	if err != nil {
		if store.IsNotFoundError(err) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, NewServiceError("update", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return task, nil
}

// Delete removes one of the user's tasks and returns it.
func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.Delete(ctx, userID, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("delete", err)
	}
	return task, nil
}
