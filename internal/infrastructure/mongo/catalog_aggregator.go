package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// CatalogAggregator runs the tag histogram and leaderboard pipelines.
type CatalogAggregator struct {
	stores           *mongo.Collection
	reviewCollection string
}

// NewCatalogAggregator binds the pipelines to the stores collection, joining against reviewCollection.
func NewCatalogAggregator(db *mongo.Database, storeCollection, reviewCollection string) *CatalogAggregator {
	return &CatalogAggregator{stores: db.Collection(storeCollection), reviewCollection: reviewCollection}
}

// TagHistogram returns every tag with its store count.
func (a *CatalogAggregator) TagHistogram(ctx context.Context) ([]domain.TagCount, error) {
	cursor, err := a.stores.Aggregate(ctx, tagHistogramPipeline())
	if err != nil {
		return nil, mapError("stores.tagHistogram", err)
	}
	defer cursor.Close(ctx)

	tags := make([]domain.TagCount, 0)
	for cursor.Next(ctx) {
		var doc tagCountDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, mapError("stores.tagHistogram", err)
		}
		tags = append(tags, domain.TagCount{Tag: doc.Tag, Count: doc.Count})
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError("stores.tagHistogram", err)
	}
	return tags, nil
}

// TopStores returns the leaderboard of stores with at least minReviews reviews.
func (a *CatalogAggregator) TopStores(ctx context.Context, minReviews, limit int) ([]domain.StoreSummary, error) {
	cursor, err := a.stores.Aggregate(ctx, topStoresPipeline(a.reviewCollection, minReviews, limit))
	if err != nil {
		return nil, mapError("stores.topStores", err)
	}
	defer cursor.Close(ctx)

	top := make([]domain.StoreSummary, 0)
	for cursor.Next(ctx) {
		var doc storeSummaryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, mapError("stores.topStores", err)
		}
		top = append(top, mapStoreSummary(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError("stores.topStores", err)
	}
	return top, nil
}
