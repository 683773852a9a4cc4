package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// mapError translates driver errors into the catalog's error kinds.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	default:
		return &domain.AdapterError{Op: op, Err: err}
	}
}
