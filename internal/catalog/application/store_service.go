package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// StoreService is the store lifecycle manager: create, update, and detail lookups.
type StoreService struct {
	stores      StoreRepository
	resolver    *Resolver
	invalidator ViewInvalidator
	now         Clock
	logger      *zap.Logger
}

// StoreServiceOption customises a StoreService.
type StoreServiceOption func(*StoreService)

// WithStoreClock overrides the time source.
func WithStoreClock(c Clock) StoreServiceOption {
	return func(s *StoreService) { s.now = c }
}

// WithStoreInvalidator drops cached aggregate views after each write.
func WithStoreInvalidator(inv ViewInvalidator) StoreServiceOption {
	return func(s *StoreService) { s.invalidator = inv }
}

// NewStoreService builds the lifecycle manager.
func NewStoreService(stores StoreRepository, resolver *Resolver, logger *zap.Logger, opts ...StoreServiceOption) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &StoreService{stores: stores, resolver: resolver, now: utcNow, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates input, assigns the author and a unique slug, and persists the store.
func (s *StoreService) Create(ctx context.Context, input domain.StoreInput, authorID string) (*domain.Store, error) {
	in := input.Normalize()
	verr := &domain.ValidationError{}
	if err := in.Validate(); err != nil && !errors.As(err, &verr) {
		return nil, err
	}
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		verr.Add("author", "you must supply an author")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	slug, err := domain.GenerateSlug(ctx, in.Name, s.slugLookup(""))
	if err != nil {
		return nil, fmt.Errorf("generate slug: %w", err)
	}

	now := s.now()
	store := &domain.Store{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
		Location:    in.Location(),
		PhotoRef:    in.PhotoRef,
		AuthorID:    authorID,
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	if err := s.stores.Insert(ctx, store); err != nil {
		return nil, fmt.Errorf("insert store %q: %w", slug, err)
	}
	s.invalidate(ctx)

	s.logger.Info("store created", zap.String("id", store.ID), zap.String("slug", store.Slug), zap.String("author", authorID))
	return store, nil
}

// Update applies input to the store owned by requestingUserID.
// The slug is recomputed only when the name changes.
func (s *StoreService) Update(ctx context.Context, id string, input domain.StoreInput, requestingUserID string) (*domain.Store, error) {
	current, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find store %q: %w", id, err)
	}
	if !current.OwnedBy(requestingUserID) {
		return nil, domain.ErrForbidden
	}

	in := input.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	next := *current
	next.Name = in.Name
	next.Description = in.Description
	next.Tags = in.Tags
	next.Location = in.Location()
	next.Location.Type = domain.PointType
	if in.PhotoRef != "" {
		next.PhotoRef = in.PhotoRef
	}
	next.UpdatedAt = s.now()

	if next.Name != current.Name {
		base := domain.Slugify(next.Name)
		if !domain.MatchesSlugBase(current.Slug, base) {
			slug, err := domain.GenerateSlug(ctx, next.Name, s.slugLookup(current.ID))
			if err != nil {
				return nil, fmt.Errorf("generate slug: %w", err)
			}
			next.Slug = slug
		}
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.stores.Update(ctx, &next)
	if err != nil {
		return nil, fmt.Errorf("update store %q: %w", id, err)
	}
	s.invalidate(ctx)

	s.logger.Info("store updated", zap.String("id", updated.ID), zap.String("slug", updated.Slug))
	return updated, nil
}

// GetBySlug returns the populated store with the given slug.
func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	store, err := s.stores.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, fmt.Errorf("find store by slug %q: %w", slug, err)
	}
	if err := s.resolver.PopulateStore(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// GetForEdit returns the store for its owner's edit form.
func (s *StoreService) GetForEdit(ctx context.Context, id, userID string) (*domain.Store, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find store %q: %w", id, err)
	}
	if !store.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return store, nil
}

func (s *StoreService) slugLookup(excludeID string) domain.SlugLookup {
	return func(ctx context.Context, pattern string) ([]string, error) {
		return s.stores.SlugsMatching(ctx, pattern, excludeID)
	}
}

func (s *StoreService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}
