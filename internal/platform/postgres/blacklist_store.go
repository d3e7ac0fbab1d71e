package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/store"
)

// PostgresTokenBlacklist implements store.TokenBlacklist on the
// blacklisted_tokens table.
type PostgresTokenBlacklist struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenBlacklist creates a new PostgresTokenBlacklist.
// If logger is nil, a default logger will be used.
func NewPostgresTokenBlacklist(db store.DBTX, logger *slog.Logger) *PostgresTokenBlacklist {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTokenBlacklist{
		db:     db,
		logger: logger.With(slog.String("component", "token_blacklist")),
	}
}

// Ensure PostgresTokenBlacklist implements store.TokenBlacklist interface
var _ store.TokenBlacklist = (*PostgresTokenBlacklist)(nil)

// Add implements store.TokenBlacklist.Add. Re-adding a token is a no-op.
func (s *PostgresTokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO blacklisted_tokens (token, expires_at, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, token, expiresAt.UTC(), time.Now().UTC()); err != nil {
		// the token itself is a credential and is never logged
		log.Error("failed to blacklist token", slog.String("error", err.Error()))
		return MapError(err, nil)
	}

	log.Debug("token blacklisted", slog.Time("expires_at", expiresAt))
	return nil
}

// Contains implements store.TokenBlacklist.Contains.
func (s *PostgresTokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE token = $1)`
	if err := s.db.QueryRowContext(ctx, query, token).Scan(&exists); err != nil {
		log.Error("failed to check token blacklist", slog.String("error", err.Error()))
		return false, MapError(err, nil)
	}

	return exists, nil
}
