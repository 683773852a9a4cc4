package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// UserRepository implements application.UserRepository in memory.
type UserRepository struct {
	db *DB
}

// FindByID returns a single user by hex identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := copyUser(rec.user)
	return &user, nil
}

// FindByIDs returns the listed users. Unknown or malformed ids are skipped.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	r.db.mu.RLock()
	recs := make([]userRecord, 0, len(ids))
	seen := map[string]struct{}{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if rec, ok := r.db.users[id]; ok {
			recs = append(recs, rec)
		}
	}
	r.db.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	result := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		result = append(result, copyUser(rec.user))
	}
	return result, nil
}

// ToggleHeart removes storeID from hearts when present and adds it otherwise.
func (r *UserRepository) ToggleHeart(ctx context.Context, userID, storeID string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rec, ok := r.db.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if rec.user.HasHeart(storeID) {
		hearts := make([]string, 0, len(rec.user.Hearts))
		for _, id := range rec.user.Hearts {
			if id != storeID {
				hearts = append(hearts, id)
			}
		}
		rec.user.Hearts = hearts
	} else {
		rec.user.Hearts = append(rec.user.Hearts, storeID)
	}
	r.db.users[userID] = rec

	user := copyUser(rec.user)
	return &user, nil
}

// FindByResetToken returns the user whose reset token matches and has not expired at now.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, rec := range r.db.users {
		u := rec.user
		if u.ResetPasswordToken == token && u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			user := copyUser(u)
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Insert stores a copy of user. A duplicate email yields domain.ErrConflict.
func (r *UserRepository) Insert(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, rec := range r.db.users {
		if strings.ToLower(rec.user.Email) == email {
			return fmt.Errorf("insert user %q: %w", user.Email, domain.ErrConflict)
		}
	}
	user.ID = newID()
	if user.Hearts == nil {
		user.Hearts = []string{}
	}
	r.db.users[user.ID] = userRecord{seq: r.db.nextSeq(), user: copyUser(*user)}
	return nil
}
