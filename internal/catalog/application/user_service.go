package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// UserService covers the user-side operations the catalog owns: hearts and reset-token lookup.
type UserService struct {
	users  UserRepository
	stores StoreRepository
	now    Clock
}

// NewUserService builds a UserService.
func NewUserService(users UserRepository, stores StoreRepository) *UserService {
	return &UserService{users: users, stores: stores, now: utcNow}
}

// ToggleHeart adds storeID to the user's hearts if absent, removes it if present.
func (s *UserService) ToggleHeart(ctx context.Context, userID, storeID string) (*domain.User, error) {
	storeID = strings.TrimSpace(storeID)
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, fmt.Errorf("find store %q: %w", storeID, err)
	}
	user, err := s.users.ToggleHeart(ctx, strings.TrimSpace(userID), storeID)
	if err != nil {
		return nil, fmt.Errorf("toggle heart: %w", err)
	}
	return user, nil
}

// ResetTokenOwner returns the user holding an unexpired password reset token.
func (s *UserService) ResetTokenOwner(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrNotFound
	}
	user, err := s.users.FindByResetToken(ctx, token, s.now())
	if err != nil {
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	return user, nil
}

// Register inserts a user record. Credentials are handled outside the catalog.
func (s *UserService) Register(ctx context.Context, name, email string) (*domain.User, error) {
	verr := &domain.ValidationError{}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		verr.Add("name", "please supply a name")
	}
	if email == "" || !strings.Contains(email, "@") {
		verr.Add("email", "invalid email")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	user := &domain.User{Name: name, Email: email, Hearts: []string{}}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}
