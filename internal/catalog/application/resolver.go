package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// Resolver performs read-time joins: stores get their reviews and owner,
// reviews get their author. A dangling reference leaves the field empty.
type Resolver struct {
	reviews ReviewRepository
	users   UserRepository
}

// NewResolver builds a Resolver over the review and user ports.
func NewResolver(reviews ReviewRepository, users UserRepository) *Resolver {
	return &Resolver{reviews: reviews, users: users}
}

// PopulateStores fills Reviews (each with Author) and Author on every store in place.
func (r *Resolver) PopulateStores(ctx context.Context, stores []domain.Store) error {
	if len(stores) == 0 {
		return nil
	}

	storeIDs := make([]string, 0, len(stores))
	ownerIDs := make([]string, 0, len(stores))
	for _, s := range stores {
		storeIDs = append(storeIDs, s.ID)
		ownerIDs = append(ownerIDs, s.AuthorID)
	}

	var (
		reviews []domain.Review
		owners  map[string]domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := r.reviews.FindByStoreIDs(gctx, storeIDs)
		if err != nil {
			return fmt.Errorf("populate reviews: %w", err)
		}
		if err := r.PopulateReviews(gctx, found); err != nil {
			return err
		}
		reviews = found
		return nil
	})
	g.Go(func() error {
		found, err := r.loadUsers(gctx, ownerIDs)
		if err != nil {
			return fmt.Errorf("populate store authors: %w", err)
		}
		owners = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	byStore := make(map[string][]domain.Review, len(stores))
	for _, review := range reviews {
		byStore[review.StoreID] = append(byStore[review.StoreID], review)
	}
	for i := range stores {
		stores[i].Reviews = byStore[stores[i].ID]
		if stores[i].Reviews == nil {
			stores[i].Reviews = []domain.Review{}
		}
		stores[i].Author = nil
		if owner, ok := owners[stores[i].AuthorID]; ok {
			owner := owner
			stores[i].Author = &owner
		}
	}
	return nil
}

// PopulateStore is PopulateStores for a single store.
func (r *Resolver) PopulateStore(ctx context.Context, store *domain.Store) error {
	if store == nil {
		return nil
	}
	batch := []domain.Store{*store}
	if err := r.PopulateStores(ctx, batch); err != nil {
		return err
	}
	*store = batch[0]
	return nil
}

// PopulateReviews fills Author on every review in place.
func (r *Resolver) PopulateReviews(ctx context.Context, reviews []domain.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	ids := make([]string, 0, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.AuthorID)
	}
	authors, err := r.loadUsers(ctx, ids)
	if err != nil {
		return fmt.Errorf("populate review authors: %w", err)
	}
	for i := range reviews {
		reviews[i].Author = nil
		if author, ok := authors[reviews[i].AuthorID]; ok {
			author := author
			reviews[i].Author = &author
		}
	}
	return nil
}

func (r *Resolver) loadUsers(ctx context.Context, ids []string) (map[string]domain.User, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return map[string]domain.User{}, nil
	}
	users, err := r.users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.User, len(users))
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
