package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	UsersCollection     = "users"
	TasksCollection     = "tasks"
	BlacklistCollection = "blacklisted_tokens"
)

const connectTimeout = 10 * time.Second

// Connect opens a client for uri and verifies it with a ping against the primary.
func Connect(ctx context.Context, uri string, logger *slog.Logger) (*mongo.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if discErr := client.Disconnect(context.Background()); discErr != nil {
			logger.Warn("failed to disconnect after ping failure", slog.String("error", discErr.Error()))
		}
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("mongodb connection established")
	return client, nil
}

// EnsureIndexes creates the indexes the stores rely on. It is idempotent.
// The unique indexes back store.ErrEmailExists and idempotent blacklisting.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		TasksCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_date", Value: 1}}},
		},
		BlacklistCollection: {
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
