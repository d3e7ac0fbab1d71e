// Package mocks provides centralized test doubles for the store and auth
// interfaces.
//
// The store mocks are working in-memory implementations guarded by a mutex,
// so handler and flow tests can exercise real behavior (ownership scoping,
// duplicate emails, idempotent blacklisting) without a database. Each mock
// also exposes function fields that override a method when a test needs to
// inject a failure:
//
//	tasks := mocks.NewMockTaskStore()
//	tasks.ListForUserFn = func(ctx context.Context, userID uuid.UUID, f domain.TaskFilter) ([]*domain.Task, error) {
//	    return nil, errors.New("connection reset")
//	}
package mocks
