package mongodb

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskman-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// MapError translates a driver error into the store error vocabulary.
// notFound is returned for mongo.ErrNoDocuments.
func MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound == nil {
		notFound = store.ErrNotFound
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: duplicate key", store.ErrDuplicate)
	}
	return err
}
