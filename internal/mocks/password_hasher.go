package mocks

import (
	"strings"
	"sync"

	"github.com/phrazzld/taskman-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher without bcrypt's cost.
// Hashes are the plaintext with a fixed prefix, so tests stay fast and the
// stored value still differs from the password.
type MockPasswordHasher struct {
	HashFn    func(plaintext string) (string, error)
	CompareFn func(hashed, plaintext string) error

	mu           sync.Mutex
	CompareCalls int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

const mockHashPrefix = "mock-hash:"

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(plaintext string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(plaintext)
	}
	if len(plaintext) > auth.MaxPasswordBytes {
		return "", auth.ErrPasswordTooLong
	}
	return mockHashPrefix + plaintext, nil
}

// Compare implements auth.PasswordHasher.
func (m *MockPasswordHasher) Compare(hashed, plaintext string) error {
	m.mu.Lock()
	m.CompareCalls++
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashed, plaintext)
	}
	if strings.TrimPrefix(hashed, mockHashPrefix) != plaintext || !strings.HasPrefix(hashed, mockHashPrefix) {
		return auth.ErrPasswordMismatch
	}
	return nil
}
