package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

// setupAppDatabase establishes a connection to the Postgres database and configures connection pools.
// Returns the database connection if successful, or an error if the connection fails.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established", "driver", config.DriverPostgres)
	return db, nil
}

// setupAppMongo connects to MongoDB and makes sure the indexes the stores
// rely on exist.
func setupAppMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongodb.Connect(ctx, cfg.Database.URL, logger)
	if err != nil {
		return nil, nil, err
	}

	db := client.Database(cfg.Database.Name)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ensure mongo indexes: %w", err)
	}

	logger.Info("Database connection established",
		"driver", config.DriverMongo,
		"database", cfg.Database.Name)
	return client, db, nil
}
