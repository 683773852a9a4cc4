package memory

import (
	"context"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// ReviewRepository implements application.ReviewRepository in memory.
type ReviewRepository struct {
	db *DB
}

// FindByStoreIDs returns every review of the listed stores, oldest first.
func (r *ReviewRepository) FindByStoreIDs(ctx context.Context, storeIDs []string) ([]domain.Review, error) {
	want := make(map[string]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		want[id] = struct{}{}
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := []domain.Review{}
	for _, review := range r.db.reviews {
		if _, ok := want[review.StoreID]; ok {
			result = append(result, copyReview(review))
		}
	}
	return result, nil
}

// Insert stores a copy of review and assigns its ID.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	review.ID = newID()
	r.db.reviews = append(r.db.reviews, copyReview(*review))
	return nil
}
