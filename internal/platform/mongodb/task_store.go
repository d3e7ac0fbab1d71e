package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	DueDate     time.Time `bson:"due_date"`
	Priority    string    `bson:"priority"`
	Status      string    `bson:"status"`
	CreatedDate time.Time `bson:"created_date"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newTaskDocument(t *domain.Task) taskDocument {
	return taskDocument{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.UTC(),
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedDate: t.CreatedDate.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (d taskDocument) toDomain() (*domain.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid task owner id %q: %w", d.UserID, err)
	}
	return &domain.Task{
		ID:          id,
		UserID:      userID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate.UTC(),
		Priority:    domain.Priority(d.Priority),
		Status:      domain.Status(d.Status),
		CreatedDate: d.CreatedDate.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

// ownedBy scopes a filter to one user's task.
func ownedBy(userID, taskID uuid.UUID) bson.M {
	return bson.M{"_id": taskID.String(), "user_id": userID.String()}
}

// MongoTaskStore implements store.TaskStore on the tasks collection.
type MongoTaskStore struct {
	tasks  *mongo.Collection
	users  *mongo.Collection
	logger *slog.Logger
}

// NewMongoTaskStore creates a MongoTaskStore backed by db.
func NewMongoTaskStore(db *mongo.Database, logger *slog.Logger) *MongoTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoTaskStore{
		tasks:  db.Collection(TasksCollection),
		users:  db.Collection(UsersCollection),
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*MongoTaskStore)(nil)

// Create implements store.TaskStore.Create. Without foreign keys the owner
// is checked explicitly so both backends reject orphan tasks alike.
func (s *MongoTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	owners, err := s.users.CountDocuments(ctx, bson.M{"_id": task.UserID.String()}, options.Count().SetLimit(1))
	if err != nil {
		log.Error("failed to check task owner", slog.String("error", err.Error()))
		return err
	}
	if owners == 0 {
		return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.UserID)
	}

	if _, err := s.tasks.InsertOne(ctx, newTaskDocument(task)); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err, nil)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// ListForUser implements store.TaskStore.ListForUser.
func (s *MongoTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := bson.M{"user_id": userID.String()}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if filter.Priority != nil {
		query["priority"] = string(*filter.Priority)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_date", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.tasks.Find(ctx, query, opts)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		log.Error("failed to decode tasks", slog.String("error", err.Error()))
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *MongoTaskStore) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	var doc taskDocument
	if err := s.tasks.FindOne(ctx, ownedBy(userID, taskID)).Decode(&doc); err != nil {
		return nil, MapError(err, store.ErrTaskNotFound)
	}
	return doc.toDomain()
}

// Update implements store.TaskStore.Update with a single find-and-modify.
func (s *MongoTaskStore) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": domain.Now()}
	if patch.Title != nil {
		set["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		set["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.DueDate != nil {
		set["due_date"] = patch.DueDate.UTC()
	}
	if patch.Priority != nil {
		set["priority"] = string(*patch.Priority)
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	err := s.tasks.FindOneAndUpdate(ctx, ownedBy(userID, taskID), bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		mapped := MapError(err, store.ErrTaskNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID.String()))
		}
		return nil, mapped
	}

	log.Info("task updated successfully", slog.String("task_id", taskID.String()))
	return doc.toDomain()
}

// Delete implements store.TaskStore.Delete.
func (s *MongoTaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var doc taskDocument
	if err := s.tasks.FindOneAndDelete(ctx, ownedBy(userID, taskID)).Decode(&doc); err != nil {
		return nil, MapError(err, store.ErrTaskNotFound)
	}

	log.Info("task deleted successfully", slog.String("task_id", taskID.String()))
	return doc.toDomain()
}
