package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// ReviewService writes reviews against existing stores and users.
type ReviewService struct {
	reviews     ReviewRepository
	stores      StoreRepository
	users       UserRepository
	resolver    *Resolver
	invalidator ViewInvalidator
	now         Clock
	logger      *zap.Logger
}

// NewReviewService builds a ReviewService. invalidator may be nil.
func NewReviewService(reviews ReviewRepository, stores StoreRepository, users UserRepository, resolver *Resolver, invalidator ViewInvalidator, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviews:     reviews,
		stores:      stores,
		users:       users,
		resolver:    resolver,
		invalidator: invalidator,
		now:         utcNow,
		logger:      logger,
	}
}

// Create stores a review by authorID on storeID and returns it with Author populated.
func (s *ReviewService) Create(ctx context.Context, storeID, authorID string, input domain.ReviewInput) (*domain.Review, error) {
	in := input.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	storeID = strings.TrimSpace(storeID)
	authorID = strings.TrimSpace(authorID)

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, fmt.Errorf("find store %q: %w", storeID, err)
	}
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return nil, fmt.Errorf("find author %q: %w", authorID, err)
	}

	review := &domain.Review{
		Text:      in.Text,
		Rating:    in.Rating,
		CreatedAt: s.now(),
		AuthorID:  authorID,
		StoreID:   storeID,
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}

	batch := []domain.Review{*review}
	if err := s.resolver.PopulateReviews(ctx, batch); err != nil {
		return nil, err
	}
	s.logger.Info("review created", zap.String("id", review.ID), zap.String("store", storeID), zap.Int("rating", review.Rating))
	return &batch[0], nil
}
