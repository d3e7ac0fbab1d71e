package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/taskman-api/internal/store"
)

// MockTokenBlacklist implements store.TokenBlacklist in memory.
type MockTokenBlacklist struct {
	AddFn      func(ctx context.Context, token string, expiresAt time.Time) error
	ContainsFn func(ctx context.Context, token string) (bool, error)

	mu     sync.Mutex
	tokens map[string]time.Time
}

var _ store.TokenBlacklist = (*MockTokenBlacklist)(nil)

// NewMockTokenBlacklist creates an empty MockTokenBlacklist.
func NewMockTokenBlacklist() *MockTokenBlacklist {
	return &MockTokenBlacklist{tokens: make(map[string]time.Time)}
}

// Add implements store.TokenBlacklist. Re-adding keeps the first expiry.
func (m *MockTokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, token, expiresAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tokens[token]; !exists {
		m.tokens[token] = expiresAt
	}
	return nil
}

// Contains implements store.TokenBlacklist.
func (m *MockTokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	if m.ContainsFn != nil {
		return m.ContainsFn(ctx, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.tokens[token]
	return ok, nil
}

// Len returns the number of blacklisted tokens.
func (m *MockTokenBlacklist) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}
