package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/service/auth"
	"github.com/phrazzld/taskman-api/internal/store"
)

// AuthMiddleware guards routes with bearer-token authentication and the
// logout blacklist.
type AuthMiddleware struct {
	jwtService auth.JWTService
	blacklist  store.TokenBlacklist
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, blacklist store.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		blacklist:  blacklist,
	}
}

// Authenticate admits a request only when it carries a verifiable,
// non-blacklisted access token:
//
//	no header / not "Bearer <token>"  401
//	token fails verification          403
//	token blacklisted                 403
//	blacklist lookup fails            500
//
// On success the user ID and raw token are stored in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		token, err := BearerToken(r)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Authorization header required", err)
			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Token expired", err)
			case errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Invalid token", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		revoked, err := m.blacklist.Contains(ctx, token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}
		if revoked {
			log.Debug("rejected blacklisted token", slog.String("user_id", claims.UserID.String()))
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Token has been revoked", auth.ErrTokenRevoked)
			return
		}

		ctx = shared.WithAuth(ctx, claims.UserID, token)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", claims.UserID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Any other shape yields auth.ErrMissingToken.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", auth.ErrMissingToken
	}
	return token, nil
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.GetUserID(r.Context())
}
