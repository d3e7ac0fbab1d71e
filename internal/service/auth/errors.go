package auth

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskman-api/internal/domain"
)

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, its signature does not
	// match, or it is of the wrong type for the operation.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrTokenRevoked indicates the token verifies but was invalidated by logout.
	ErrTokenRevoked = errors.New("authentication token has been revoked")

	// ErrWrongTokenType indicates a refresh token was used where an access
	// token is expected, or the reverse. It wraps ErrInvalidToken.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)

	// ErrPasswordMismatch indicates the plaintext does not match the stored hash.
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrPasswordTooLong indicates the password exceeds bcrypt's byte limit.
	// It is a validation error: the caller supplied it.
	ErrPasswordTooLong = domain.NewValidationError(
		"password",
		fmt.Sprintf("is longer than %d bytes", MaxPasswordBytes),
		domain.ErrValidation,
	)
)
