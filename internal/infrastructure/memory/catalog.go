package memory

import (
	"context"
	"sort"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// CatalogAggregator computes the tag histogram and leaderboard over the in-memory collections.
type CatalogAggregator struct {
	db *DB
}

// TagHistogram returns every tag with its store count, most used first.
func (a *CatalogAggregator) TagHistogram(ctx context.Context) ([]domain.TagCount, error) {
	a.db.mu.RLock()
	counts := map[string]int{}
	for _, rec := range a.db.stores {
		for _, tag := range rec.store.Tags {
			counts[tag]++
		}
	}
	a.db.mu.RUnlock()

	result := make([]domain.TagCount, 0, len(counts))
	for tag, n := range counts {
		result = append(result, domain.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag < result[j].Tag
	})
	return result, nil
}

// TopStores returns the leaderboard of stores with at least minReviews reviews.
func (a *CatalogAggregator) TopStores(ctx context.Context, minReviews, limit int) ([]domain.StoreSummary, error) {
	a.db.mu.RLock()
	sums := map[string]int{}
	counts := map[string]int{}
	for _, review := range a.db.reviews {
		sums[review.StoreID] += review.Rating
		counts[review.StoreID]++
	}
	result := []domain.StoreSummary{}
	for id, rec := range a.db.stores {
		n := counts[id]
		if n == 0 || n < minReviews {
			continue
		}
		result = append(result, domain.StoreSummary{
			ID:            id,
			Slug:          rec.store.Slug,
			Name:          rec.store.Name,
			PhotoRef:      rec.store.PhotoRef,
			AverageRating: float64(sums[id]) / float64(n),
			ReviewCount:   n,
		})
	}
	a.db.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		x, y := result[i], result[j]
		if x.AverageRating != y.AverageRating {
			return x.AverageRating > y.AverageRating
		}
		if x.ReviewCount != y.ReviewCount {
			return x.ReviewCount > y.ReviewCount
		}
		return x.Name < y.Name
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
