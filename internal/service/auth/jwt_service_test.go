package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "test-access-secret-that-is-long-enough"
	testRefreshSecret = "test-refresh-secret-that-is-long-enough"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:           testAccessSecret,
		RefreshTokenSecret:          testRefreshSecret,
		AccessTokenLifetimeMinutes:  60,
		RefreshTokenLifetimeMinutes: 1440,
		BcryptCost:                  4,
	}
}

func newTestService(t *testing.T, cfg config.AuthConfig, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(cfg, func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.AuthConfig)
	}{
		{"short access secret", func(c *config.AuthConfig) { c.AccessTokenSecret = "short" }},
		{"short refresh secret", func(c *config.AuthConfig) { c.RefreshTokenSecret = "short" }},
		{"zero access lifetime", func(c *config.AuthConfig) { c.AccessTokenLifetimeMinutes = 0 }},
		{"negative refresh lifetime", func(c *config.AuthConfig) { c.RefreshTokenLifetimeMinutes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testAuthConfig()
			tt.mutate(&cfg)
			_, err := NewJWTService(cfg)
			assert.Error(t, err)
		})
	}

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.AccessTokenExpiry())
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := newTestService(t, testAuthConfig(), fixedTime)

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testAuthConfig(), time.Now())
	userID := uuid.New()

	a, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	b, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	cfg := testAuthConfig()

	issuer := newTestService(t, cfg, fixedTime)
	access, err := issuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	wrongCfg := cfg
	wrongCfg.AccessTokenSecret = "another-access-secret-that-is-long-enough"

	// a token signed with the right key but the wrong type claim
	sameKeyCfg := cfg
	sameKeyCfg.RefreshTokenSecret = cfg.AccessTokenSecret
	sameKey := newTestService(t, sameKeyCfg, fixedTime)
	refreshWithAccessKey, err := sameKey.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
		UserID:    userID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     *hmacJWTService
		token   string
		wantErr error
	}{
		{"valid token", issuer, access, nil},
		{"within clock skew", newTestService(t, cfg, fixedTime.Add(time.Hour+time.Minute)), access, nil},
		{"expired token", newTestService(t, cfg, fixedTime.Add(2*time.Hour)), access, ErrExpiredToken},
		{"invalid signature", newTestService(t, wrongCfg, fixedTime), access, ErrInvalidToken},
		{"malformed token", issuer, "this.is.not.a.valid.jwt.token", ErrInvalidToken},
		{"empty token", issuer, "", ErrInvalidToken},
		{"refresh token as access", issuer, refresh, ErrInvalidToken},
		{"wrong type claim", sameKey, refreshWithAccessKey, ErrWrongTokenType},
		{"alg none", issuer, noneToken, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tt.svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	cfg := testAuthConfig()
	svc := newTestService(t, cfg, fixedTime)

	refresh, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)
	access, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, fixedTime.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	_, err = svc.ValidateRefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := newTestService(t, cfg, fixedTime.Add(25*time.Hour))
	_, err = later.ValidateRefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
