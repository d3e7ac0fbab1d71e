package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user. The plaintext password is never held
// here; only its bcrypt hash, which is never serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with a fresh ID and creation timestamp.
// Returns an error if validation fails.
func NewUser(username, email, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Username:       strings.TrimSpace(username),
		Email:          strings.TrimSpace(email),
		HashedPassword: hashedPassword,
		CreatedAt:      Now(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	return nil
}

// validateEmailFormat is a structural sanity check: one '@' with a non-empty
// local part and a dotted domain. Request validation does the strict check.
func validateEmailFormat(email string) bool {
	local, domainPart, found := strings.Cut(email, "@")
	if !found || local == "" || strings.Contains(domainPart, "@") {
		return false
	}

	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
