//go:build integration

package mongodb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/mongodb"
	"github.com/phrazzld/taskman-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// testDatabase connects to TASKMAN_TEST_MONGO_URL and returns a throwaway
// database that is dropped when the test ends.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TASKMAN_TEST_MONGO_URL")
	if uri == "" {
		t.Skip("TASKMAN_TEST_MONGO_URL not set - skipping mongodb integration test")
	}

	ctx := context.Background()
	client, err := mongodb.Connect(ctx, uri, nil)
	require.NoError(t, err)

	db := client.Database("taskman_test_" + uuid.NewString()[:8])
	require.NoError(t, mongodb.EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestMongoStores(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	users := mongodb.NewMongoUserStore(db, nil)
	tasks := mongodb.NewMongoTaskStore(db, nil)
	blacklist := mongodb.NewMongoTokenBlacklist(db, nil)

	alice, err := domain.NewUser("alice", "alice@x.io", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, alice))

	dup, err := domain.NewUser("alice2", "alice@x.io", "hash")
	require.NoError(t, err)
	assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)

	found, ok, err := users.FindByEmail(ctx, "alice@x.io")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, alice.ID, found.ID)

	_, ok, err = users.FindByEmail(ctx, "nobody@x.io")
	require.NoError(t, err)
	assert.False(t, ok)

	bob, err := domain.NewUser("bob", "bob@x.io", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, bob))

	task, err := domain.NewTask(alice.ID, "Pay rent", "monthly", time.Now().Add(time.Hour), "", "")
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, task))

	orphan, err := domain.NewTask(uuid.New(), "orphan", "d", time.Now(), "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, tasks.Create(ctx, orphan), store.ErrInvalidEntity)

	_, err = tasks.GetByID(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	status := domain.StatusInProgress
	updated, err := tasks.Update(ctx, alice.ID, task.ID, domain.TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Equal(t, "Pay rent", updated.Title)

	listed, err := tasks.ListForUser(ctx, alice.ID, domain.TaskFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = tasks.Delete(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	deleted, err := tasks.Delete(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = tasks.Delete(ctx, alice.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	require.NoError(t, blacklist.Add(ctx, "tok", time.Now().Add(time.Hour)))
	require.NoError(t, blacklist.Add(ctx, "tok", time.Now().Add(time.Hour)))
	revoked, err := blacklist.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
}
