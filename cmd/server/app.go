package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/mongodb"
	"github.com/phrazzld/taskman-api/internal/platform/postgres"
	"github.com/phrazzld/taskman-api/internal/service"
	"github.com/phrazzld/taskman-api/internal/service/auth"
	"github.com/phrazzld/taskman-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// stores groups the persistence dependencies of the application. Exactly
// one backend supplies all three.
type stores struct {
	users     store.UserStore
	tasks     store.TaskStore
	blacklist store.TokenBlacklist
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// At most one of these is set, depending on the configured driver.
	db          *sql.DB
	mongoClient *mongo.Client

	userStore store.UserStore
	taskStore store.TaskStore
	blacklist store.TokenBlacklist

	jwtService  auth.JWTService
	hasher      auth.PasswordHasher
	taskService service.TaskService
}

// newApplication connects to the configured storage backend and wires every
// service on top of it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	var st stores
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		st = stores{
			users:     postgres.NewPostgresUserStore(db, logger),
			tasks:     postgres.NewPostgresTaskStore(db, logger),
			blacklist: postgres.NewPostgresTokenBlacklist(db, logger),
		}

	case config.DriverMongo:
		client, db, err := setupAppMongo(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		app.mongoClient = client
		st = stores{
			users:     mongodb.NewMongoUserStore(db, logger),
			tasks:     mongodb.NewMongoTaskStore(db, logger),
			blacklist: mongodb.NewMongoTokenBlacklist(db, logger),
		}

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := app.wire(st); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// wire builds the services on top of st.
func (app *application) wire(st stores) error {
	app.userStore = st.users
	app.taskStore = st.tasks
	app.blacklist = st.blacklist

	var err error
	app.jwtService, err = auth.NewJWTService(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.logger.Info("JWT authentication service initialized",
		"access_token_lifetime_minutes", app.config.Auth.AccessTokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", app.config.Auth.RefreshTokenLifetimeMinutes)

	app.hasher = auth.NewBcryptHasher(app.config.Auth.BcryptCost)

	app.taskService, err = service.NewTaskService(app.taskStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	if app.mongoClient != nil {
		if err := app.mongoClient.Disconnect(context.Background()); err != nil {
			app.logger.Error("Error disconnecting from mongodb", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
