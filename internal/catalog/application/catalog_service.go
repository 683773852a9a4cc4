package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
	"github.com/sngm3741/storecatalog/api/internal/metrics"
)

const (
	// NearbyLimit caps the proximity search result.
	NearbyLimit = 10
	// SearchLimit caps the text relevance search result.
	SearchLimit = 5
	// DefaultTopLimit is the leaderboard size when none is given.
	DefaultTopLimit = 10
	// MaxTopLimit bounds caller-provided leaderboard sizes.
	MaxTopLimit = 100
	// MinLeaderboardReviews is the "enough signal" threshold for the leaderboard.
	MinLeaderboardReviews = 2
	// StorePageSize is the number of stores per listing page.
	StorePageSize = 4
)

// CatalogService composes the read views over the document store ports.
type CatalogService struct {
	stores   StoreRepository
	catalog  CatalogAggregator
	users    UserRepository
	resolver *Resolver
	logger   *zap.Logger
}

// NewCatalogService builds the catalog query engine.
func NewCatalogService(stores StoreRepository, catalog CatalogAggregator, users UserRepository, resolver *Resolver, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{stores: stores, catalog: catalog, users: users, resolver: resolver, logger: logger}
}

// ListTags returns every distinct tag with its store count, most used first, ties by tag name.
func (s *CatalogService) ListTags(ctx context.Context) (tags []domain.TagCount, err error) {
	defer observe("tags", time.Now(), &err)

	tags, err = s.catalog.TagHistogram(ctx)
	if err != nil {
		return nil, fmt.Errorf("tag histogram: %w", err)
	}
	return tags, nil
}

// StoresByTag returns populated stores carrying tag, or all stores when tag is blank.
func (s *CatalogService) StoresByTag(ctx context.Context, tag string) (stores []domain.Store, err error) {
	defer observe("stores_by_tag", time.Now(), &err)

	stores, err = s.stores.FindByTag(ctx, strings.TrimSpace(tag))
	if err != nil {
		return nil, fmt.Errorf("find stores by tag: %w", err)
	}
	if err := s.resolver.PopulateStores(ctx, stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// TagView loads the histogram and the tag's stores concurrently.
func (s *CatalogService) TagView(ctx context.Context, tag string) (domain.TagView, error) {
	view := domain.TagView{Tag: strings.TrimSpace(tag)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tags, err := s.ListTags(gctx)
		view.Tags = tags
		return err
	})
	g.Go(func() error {
		stores, err := s.StoresByTag(gctx, view.Tag)
		view.Stores = stores
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.TagView{}, err
	}
	return view, nil
}

// ProximitySearch returns up to NearbyLimit stores within 10km, nearest first,
// without population. Malformed coordinates yield an empty result.
func (s *CatalogService) ProximitySearch(ctx context.Context, lng, lat float64) (stores []domain.Store, err error) {
	defer observe("nearby", time.Now(), &err)

	if !domain.ValidPoint(lng, lat) {
		s.logger.Debug("proximity search with malformed coordinates", zap.Float64("lng", lng), zap.Float64("lat", lat))
		return []domain.Store{}, nil
	}
	stores, err = s.stores.Near(ctx, lng, lat, domain.NearbyRadiusMeters, NearbyLimit)
	if err != nil {
		return nil, fmt.Errorf("near stores: %w", err)
	}
	return stores, nil
}

// Search returns up to SearchLimit populated stores by text relevance. A blank query yields nothing.
func (s *CatalogService) Search(ctx context.Context, query string) (stores []domain.Store, err error) {
	defer observe("search", time.Now(), &err)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Store{}, nil
	}
	stores, err = s.stores.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search stores: %w", err)
	}
	if err := s.resolver.PopulateStores(ctx, stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// TopStores returns the rating leaderboard. Stores with fewer than
// MinLeaderboardReviews reviews never appear.
func (s *CatalogService) TopStores(ctx context.Context, limit int) (top []domain.StoreSummary, err error) {
	defer observe("top", time.Now(), &err)

	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}
	top, err = s.catalog.TopStores(ctx, MinLeaderboardReviews, limit)
	if err != nil {
		return nil, fmt.Errorf("top stores: %w", err)
	}
	return top, nil
}

// ListStores returns one page of populated stores, newest first.
// A page past the end comes back empty with Pages set so callers can redirect.
func (s *CatalogService) ListStores(ctx context.Context, page int) (result domain.StorePage, err error) {
	defer observe("stores_page", time.Now(), &err)

	if page <= 0 {
		page = 1
	}
	skip := (page - 1) * StorePageSize

	var (
		stores []domain.Store
		count  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.stores.FindPage(gctx, skip, StorePageSize)
		if err != nil {
			return fmt.Errorf("find store page: %w", err)
		}
		stores = found
		return nil
	})
	g.Go(func() error {
		n, err := s.stores.Count(gctx)
		if err != nil {
			return fmt.Errorf("count stores: %w", err)
		}
		count = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.StorePage{}, err
	}
	if err := s.resolver.PopulateStores(ctx, stores); err != nil {
		return domain.StorePage{}, err
	}

	pages := int((count + StorePageSize - 1) / StorePageSize)
	return domain.StorePage{Stores: stores, Page: page, Pages: pages, Count: count}, nil
}

// HeartedStores returns the populated stores in the user's hearts.
func (s *CatalogService) HeartedStores(ctx context.Context, userID string) (stores []domain.Store, err error) {
	defer observe("hearts", time.Now(), &err)

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(user.Hearts) == 0 {
		return []domain.Store{}, nil
	}
	stores, err = s.stores.FindByIDs(ctx, user.Hearts)
	if err != nil {
		return nil, fmt.Errorf("find hearted stores: %w", err)
	}
	if err := s.resolver.PopulateStores(ctx, stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func observe(view string, start time.Time, err *error) {
	metrics.ObserveQuery(view, start, *err)
}
