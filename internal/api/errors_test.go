package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/service"
	"github.com/phrazzld/taskman-api/internal/service/auth"
	"github.com/phrazzld/taskman-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"password mismatch", auth.ErrPasswordMismatch, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusForbidden},
		{"wrapped invalid token", fmt.Errorf("authenticate: %w", auth.ErrInvalidToken), http.StatusForbidden},
		{"expired token", auth.ErrExpiredToken, http.StatusForbidden},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusForbidden},
		{"revoked token", auth.ErrTokenRevoked, http.StatusForbidden},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"validation error", domain.NewValidationError("title", "is required", domain.ErrEmptyTaskTitle), http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid filter", fmt.Errorf("%w: bad", service.ErrInvalidFilter), http.StatusBadRequest},
		{"service error", service.NewServiceError("list", errors.New("db down")), http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"task not found", store.ErrTaskNotFound, "Task not found"},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"revoked token", auth.ErrTokenRevoked, "Token has been revoked"},
		{"wrong token type", auth.ErrWrongTokenType, "Invalid token"},
		{"validation error", domain.NewValidationError("due_date", "is required", domain.ErrEmptyTaskDueDate), "due_date is required"},
		{"unknown error", errors.New("pq: relation tasks does not exist"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Run("uses fallback for internal errors", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)

		HandleAPIError(rr, req, errors.New("dial tcp 10.0.0.5:5432: connection refused"), "Failed to list tasks")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to list tasks")
		assert.NotContains(t, rr.Body.String(), "10.0.0.5")
	})

	t.Run("keeps safe message for client errors", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tasks/x", nil)

		HandleAPIError(rr, req, store.ErrTaskNotFound, "Failed to get task")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Task not found")
	})
}

func TestSanitizeValidationError(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(LoginRequest{Email: "not-an-email", Password: "pw"})
	assert.Equal(t, "Invalid Email: invalid email format", SanitizeValidationError(err))

	err = validate.Struct(RegisterRequest{Username: "alice", Email: "a@x.com"})
	assert.Equal(t, "Invalid Password: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
