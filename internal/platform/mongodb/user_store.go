package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	CreatedAt      time.Time `bson:"created_at"`
}

func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:             u.ID.String(),
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		CreatedAt:      u.CreatedAt.UTC(),
	}
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:             id,
		Username:       d.Username,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		CreatedAt:      d.CreatedAt.UTC(),
	}, nil
}

// MongoUserStore implements store.UserStore on the users collection.
type MongoUserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoUserStore creates a MongoUserStore backed by db.
func NewMongoUserStore(db *mongo.Database, logger *slog.Logger) *MongoUserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoUserStore{
		coll:   db.Collection(UsersCollection),
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*MongoUserStore)(nil)

// FindByEmail implements store.UserStore.FindByEmail.
func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var doc userDocument
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to look up user by email", slog.String("error", err.Error()))
		return nil, false, MapError(err, store.ErrUserNotFound)
	}

	user, err := doc.toDomain()
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Create implements store.UserStore.Create.
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Info("user create rejected: email already registered",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return MapError(err, nil)
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *MongoUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, MapError(err, store.ErrUserNotFound)
	}
	return doc.toDomain()
}
