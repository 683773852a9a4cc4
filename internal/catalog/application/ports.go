package application

import (
	"context"
	"time"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// StoreRepository is the document store port for the stores collection.
// Implementations never populate Reviews or Author.
type StoreRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Store, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Store, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Store, error)
	// FindByTag returns stores carrying tag, or every store when tag is empty.
	FindByTag(ctx context.Context, tag string) ([]domain.Store, error)
	// FindPage returns stores newest first.
	FindPage(ctx context.Context, skip, limit int) ([]domain.Store, error)
	Count(ctx context.Context) (int64, error)
	// SlugsMatching returns slugs matching pattern case-insensitively, skipping excludeID.
	SlugsMatching(ctx context.Context, pattern, excludeID string) ([]string, error)
	// Insert assigns an ID. A duplicate slug yields domain.ErrConflict.
	Insert(ctx context.Context, store *domain.Store) error
	// Update replaces the editable fields and returns the stored document.
	Update(ctx context.Context, store *domain.Store) (*domain.Store, error)
	// Near returns stores within maxMeters of the point, nearest first, display fields only.
	Near(ctx context.Context, lng, lat, maxMeters float64, limit int) ([]domain.Store, error)
	// Search returns stores by text relevance, best first.
	Search(ctx context.Context, query string, limit int) ([]domain.Store, error)
}

// CatalogAggregator runs the fixed aggregation pipelines.
type CatalogAggregator interface {
	TagHistogram(ctx context.Context) ([]domain.TagCount, error)
	TopStores(ctx context.Context, minReviews, limit int) ([]domain.StoreSummary, error)
}

// ReviewRepository is the document store port for the reviews collection.
type ReviewRepository interface {
	FindByStoreIDs(ctx context.Context, storeIDs []string) ([]domain.Review, error)
	Insert(ctx context.Context, review *domain.Review) error
}

// UserRepository is the document store port for the users collection.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	// ToggleHeart removes storeID from hearts if present, adds it otherwise.
	ToggleHeart(ctx context.Context, userID, storeID string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
}

// ViewInvalidator drops cached aggregate views after a write.
type ViewInvalidator interface {
	Invalidate(ctx context.Context)
}

// Clock returns the current time.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
