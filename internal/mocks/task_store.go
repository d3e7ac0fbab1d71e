package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/store"
)

// MockTaskStore implements store.TaskStore in memory with the same owner
// scoping as the real stores.
type MockTaskStore struct {
	CreateFn      func(ctx context.Context, task *domain.Task) error
	ListForUserFn func(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)
	GetByIDFn     func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateFn      func(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn      func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty MockTaskStore.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

// ListForUser implements store.TaskStore.
func (m *MockTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Task, 0)
	for _, task := range m.tasks {
		if task.UserID == userID && filter.Matches(task) {
			copied := *task
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedDate.Equal(result[j].CreatedDate) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].CreatedDate.Before(result[j].CreatedDate)
	})
	return result, nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, err := m.owned(userID, taskID)
	if err != nil {
		return nil, err
	}
	copied := *task
	return &copied, nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, taskID, patch)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, err := m.owned(userID, taskID)
	if err != nil {
		return nil, err
	}
	patch.Apply(task)
	copied := *task
	return &copied, nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, err := m.owned(userID, taskID)
	if err != nil {
		return nil, err
	}
	delete(m.tasks, taskID)
	return task, nil
}

// owned must be called with mu held.
func (m *MockTaskStore) owned(userID, taskID uuid.UUID) (*domain.Task, error) {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}
