package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/mocks"
	"github.com/phrazzld/taskman-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		blacklisted    bool
		blacklistErr   error
		expectedStatus int
	}{
		{name: "valid token", authHeader: "Bearer valid-token", expectedStatus: http.StatusOK},
		{name: "lowercase scheme", authHeader: "bearer valid-token", expectedStatus: http.StatusOK},
		{name: "missing header", authHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "no scheme", authHeader: "valid-token", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic dXNlcjpwdw==", expectedStatus: http.StatusUnauthorized},
		{name: "empty token", authHeader: "Bearer ", expectedStatus: http.StatusUnauthorized},
		{name: "extra parts", authHeader: "Bearer a b", expectedStatus: http.StatusUnauthorized},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "wrong token type",
			authHeader:     "Bearer refresh-token",
			validateErr:    auth.ErrWrongTokenType,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer valid-token",
			validateErr:    errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "blacklisted token",
			authHeader:     "Bearer valid-token",
			blacklisted:    true,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "blacklist lookup fails",
			authHeader:     "Bearer valid-token",
			blacklistErr:   errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := mocks.NewMockJWTService()
			jwtService.Claims.UserID = userID
			jwtService.ValidationError = tt.validateErr

			blacklist := mocks.NewMockTokenBlacklist()
			if tt.blacklisted {
				require.NoError(t, blacklist.Add(context.Background(), "valid-token", time.Now().Add(time.Hour)))
			}
			if tt.blacklistErr != nil {
				blacklist.ContainsFn = func(ctx context.Context, token string) (bool, error) {
					return false, tt.blacklistErr
				}
			}

			var (
				called        bool
				capturedID    uuid.UUID
				capturedToken string
			)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				capturedID, _ = GetUserID(r)
				capturedToken, _ = shared.GetToken(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			NewAuthMiddleware(jwtService, blacklist).Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.True(t, called)
				assert.Equal(t, userID, capturedID)
				assert.Equal(t, "valid-token", capturedToken)
				return
			}

			assert.False(t, called, "downstream handler must not run")
			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAuthenticateDoesNotLeakInternalErrors(t *testing.T) {
	jwtService := mocks.NewMockJWTService()
	blacklist := mocks.NewMockTokenBlacklist()
	blacklist.ContainsFn = func(ctx context.Context, token string) (bool, error) {
		return false, errors.New("dial postgres://u:secret@db:5432/taskman")
	}

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rr := httptest.NewRecorder()

	NewAuthMiddleware(jwtService, blacklist).Authenticate(http.NotFoundHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret")
	assert.NotContains(t, rr.Body.String(), "postgres")
}

func TestTraceMiddleware(t *testing.T) {
	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	})

	TraceMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, traceID, 32)
}
