package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/service/auth"
	"github.com/phrazzld/taskman-api/internal/store"
)

// Informational replies of the user endpoints.
const (
	MsgUserCreated       = "User created"
	MsgAlreadyRegistered = "User is already registered, please login"
	MsgLoginSuccessful   = "Login successful"
	MsgWrongPassword     = "Wrong password"
	MsgNotRegistered     = "User is not registered, please sign up"
	MsgLoggedOut         = "User logged out successfully"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	blacklist  store.TokenBlacklist
	timeFunc   func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	blacklist store.TokenBlacklist,
) *AuthHandler {
	return &AuthHandler{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		blacklist:  blacklist,
		timeFunc:   time.Now,
	}
}

// Register handles POST /users/register. An email that is already taken is
// an informational 200, not an error.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, exists, err := h.userStore.FindByEmail(ctx, req.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}
	if exists {
		shared.RespondWithMessage(w, r, http.StatusOK, MsgAlreadyRegistered)
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		// The length tag counts runes; bcrypt's limit is in bytes.
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, hashed)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid user data", err)
		return
	}

	if err := h.userStore.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithMessage(w, r, http.StatusOK, MsgAlreadyRegistered)
			return
		}
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Msg:  MsgUserCreated,
		User: userToResponse(user),
	})
}

// Login handles POST /users/login. The three outcomes (success, wrong
// password, not registered) are distinguishable by status and message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, found, err := h.userStore.FindByEmail(ctx, req.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}
	if !found {
		shared.RespondWithMessage(w, r, http.StatusOK, MsgNotRegistered)
		return
	}

	if err := h.hasher.Compare(user.HashedPassword, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login rejected: wrong password", slog.String("user_id", user.ID.String()))
			shared.RespondWithMessage(w, r, http.StatusUnauthorized, MsgWrongPassword)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	token, refreshToken, expiresAt, ok := h.issueTokenPair(w, r, user)
	if !ok {
		return
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, LoginResponse{
		Msg:          MsgLoginSuccessful,
		UserID:       user.ID,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// RefreshToken handles POST /users/refresh, exchanging a valid refresh
// token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to refresh token", err)
		return
	}

	user, err := h.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token", err)
			return
		}
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	token, refreshToken, expiresAt, ok := h.issueTokenPair(w, r, user)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// Logout handles GET /users/logout. It must run behind the auth middleware,
// which has already rejected missing, invalid and blacklisted tokens.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := shared.GetToken(ctx)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Authorization header required", auth.ErrMissingToken)
		return
	}

	// The entry keeps the token's own expiry so it can be pruned later.
	expiresAt := h.timeFunc().Add(h.jwtService.AccessTokenExpiry())
	if claims, err := h.jwtService.ValidateToken(ctx, token); err == nil && !claims.ExpiresAt.IsZero() {
		expiresAt = claims.ExpiresAt
	}

	if err := h.blacklist.Add(ctx, token, expiresAt); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	if userID, ok := shared.GetUserID(ctx); ok {
		logger.FromContext(ctx).Info("user logged out", slog.String("user_id", userID.String()))
	}
	shared.RespondWithMessage(w, r, http.StatusOK, MsgLoggedOut)
}

// issueTokenPair signs an access and a refresh token for user. It writes a
// 500 and returns false when signing fails.
func (h *AuthHandler) issueTokenPair(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
) (token, refreshToken, expiresAt string, ok bool) {
	ctx := r.Context()

	token, err := h.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return "", "", "", false
	}

	refreshToken, err = h.jwtService.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to generate refresh token", err)
		return "", "", "", false
	}

	expiresAt = h.timeFunc().Add(h.jwtService.AccessTokenExpiry()).UTC().Format(time.RFC3339)
	return token, refreshToken, expiresAt, true
}
