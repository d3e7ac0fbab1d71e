package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// FindByEmail looks a user up by email address. A missing user is not an
	// error: it yields (nil, false, nil). Errors are reserved for store failures.
	FindByEmail(ctx context.Context, email string) (*domain.User, bool, error)

	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
