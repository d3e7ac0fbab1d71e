package mongodb

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTokenBlacklist implements store.TokenBlacklist. The token is the
// document _id, which makes Add naturally idempotent.
type MongoTokenBlacklist struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoTokenBlacklist creates a MongoTokenBlacklist backed by db.
func NewMongoTokenBlacklist(db *mongo.Database, logger *slog.Logger) *MongoTokenBlacklist {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoTokenBlacklist{
		coll:   db.Collection(BlacklistCollection),
		logger: logger.With(slog.String("component", "token_blacklist")),
	}
}

var _ store.TokenBlacklist = (*MongoTokenBlacklist)(nil)

// Add implements store.TokenBlacklist.Add.
func (s *MongoTokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	update := bson.M{"$setOnInsert": bson.M{
		"expires_at": expiresAt.UTC(),
		"created_at": time.Now().UTC(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": token}, update, options.Update().SetUpsert(true))
	// two concurrent upserts of the same _id can race to a duplicate key
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		log.Error("failed to blacklist token", slog.String("error", err.Error()))
		return MapError(err, nil)
	}
	return nil
}

// Contains implements store.TokenBlacklist.Contains.
func (s *MongoTokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": token}, options.Count().SetLimit(1))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).
			Error("failed to check token blacklist", slog.String("error", err.Error()))
		return false, err
	}
	return n > 0, nil
}
