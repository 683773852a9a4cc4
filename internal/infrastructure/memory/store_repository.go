package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// StoreRepository implements application.StoreRepository in memory.
type StoreRepository struct {
	db *DB
}

// FindByID returns a single store by its hex identifier.
func (r *StoreRepository) FindByID(ctx context.Context, id string) (*domain.Store, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.stores[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	store := copyStore(rec.store)
	return &store, nil
}

// FindBySlug returns a single store by its slug.
func (r *StoreRepository) FindBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, rec := range r.db.stores {
		if rec.store.Slug == slug {
			store := copyStore(rec.store)
			return &store, nil
		}
	}
	return nil, domain.ErrNotFound
}

// FindByIDs returns the stores whose ids are listed. Unknown ids are skipped.
func (r *StoreRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Store, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return r.filter(func(s domain.Store) bool {
		_, ok := want[s.ID]
		return ok
	}), nil
}

// FindByTag returns stores carrying tag, or every store when tag is empty.
func (r *StoreRepository) FindByTag(ctx context.Context, tag string) ([]domain.Store, error) {
	if tag == "" {
		return r.filter(func(domain.Store) bool { return true }), nil
	}
	return r.filter(func(s domain.Store) bool {
		for _, t := range s.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}), nil
}

// FindPage returns stores newest first.
func (r *StoreRepository) FindPage(ctx context.Context, skip, limit int) ([]domain.Store, error) {
	r.db.mu.RLock()
	recs := make([]storeRecord, 0, len(r.db.stores))
	for _, rec := range r.db.stores {
		recs = append(recs, rec)
	}
	r.db.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.store.CreatedAt.Equal(b.store.CreatedAt) {
			return a.store.CreatedAt.After(b.store.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := []domain.Store{}
	for i := skip; i < len(recs) && len(result) < limit; i++ {
		if i < 0 {
			continue
		}
		result = append(result, copyStore(recs[i].store))
	}
	return result, nil
}

// Count returns the number of stores.
func (r *StoreRepository) Count(ctx context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.stores)), nil
}

// SlugsMatching returns slugs matching pattern case-insensitively, skipping excludeID.
func (r *StoreRepository) SlugsMatching(ctx context.Context, pattern, excludeID string) ([]string, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, &domain.AdapterError{Op: "stores.slugsMatching", Err: err}
	}
	stores := r.filter(func(s domain.Store) bool {
		return s.ID != excludeID && re.MatchString(s.Slug)
	})
	slugs := make([]string, 0, len(stores))
	for _, s := range stores {
		slugs = append(slugs, s.Slug)
	}
	return slugs, nil
}

// Insert stores a copy and assigns its ID. A taken slug yields domain.ErrConflict.
func (r *StoreRepository) Insert(ctx context.Context, store *domain.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.slugTaken(store.Slug, "") {
		return fmt.Errorf("insert slug %q: %w", store.Slug, domain.ErrConflict)
	}
	store.ID = newID()
	r.db.stores[store.ID] = storeRecord{seq: r.db.nextSeq(), store: copyStore(*store)}
	return nil
}

// Update replaces the editable fields and returns the stored copy.
func (r *StoreRepository) Update(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rec, ok := r.db.stores[store.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.slugTaken(store.Slug, store.ID) {
		return nil, fmt.Errorf("update slug %q: %w", store.Slug, domain.ErrConflict)
	}

	next := rec.store
	next.Name = store.Name
	next.Slug = store.Slug
	next.Description = store.Description
	next.Tags = store.Tags
	next.Location = store.Location
	next.PhotoRef = store.PhotoRef
	next.UpdatedAt = store.UpdatedAt
	rec.store = copyStore(next)
	r.db.stores[store.ID] = rec

	updated := copyStore(rec.store)
	return &updated, nil
}

// Near returns stores within maxMeters of the point, nearest first.
func (r *StoreRepository) Near(ctx context.Context, lng, lat, maxMeters float64, limit int) ([]domain.Store, error) {
	type hit struct {
		store    domain.Store
		distance float64
	}
	var hits []hit
	for _, s := range r.filter(func(domain.Store) bool { return true }) {
		d := domain.Haversine(lng, lat, s.Location.Longitude(), s.Location.Latitude())
		if d <= maxMeters {
			hits = append(hits, hit{store: s, distance: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	result := []domain.Store{}
	for _, h := range hits {
		if len(result) == limit {
			break
		}
		result = append(result, domain.Store{
			ID:          h.store.ID,
			Slug:        h.store.Slug,
			Name:        h.store.Name,
			Description: h.store.Description,
			PhotoRef:    h.store.PhotoRef,
			Location:    h.store.Location,
		})
	}
	return result, nil
}

// Search scores stores by how many query terms occur in name and description.
func (r *StoreRepository) Search(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return []domain.Store{}, nil
	}

	type hit struct {
		store domain.Store
		score int
	}
	var hits []hit
	for _, s := range r.filter(func(domain.Store) bool { return true }) {
		words := tokenize(s.Name + " " + s.Description)
		score := 0
		for _, w := range words {
			for _, t := range terms {
				if w == t {
					score++
				}
			}
		}
		if score > 0 {
			hits = append(hits, hit{store: s, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].store.Name < hits[j].store.Name
	})

	result := []domain.Store{}
	for _, h := range hits {
		if len(result) == limit {
			break
		}
		result = append(result, h.store)
	}
	return result, nil
}

// filter returns matching stores in insertion order.
func (r *StoreRepository) filter(match func(domain.Store) bool) []domain.Store {
	r.db.mu.RLock()
	recs := make([]storeRecord, 0, len(r.db.stores))
	for _, rec := range r.db.stores {
		if match(rec.store) {
			recs = append(recs, rec)
		}
	}
	r.db.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	result := make([]domain.Store, 0, len(recs))
	for _, rec := range recs {
		result = append(result, copyStore(rec.store))
	}
	return result
}

// slugTaken must be called with the lock held.
func (r *StoreRepository) slugTaken(slug, excludeID string) bool {
	for id, rec := range r.db.stores {
		if id != excludeID && rec.store.Slug == slug {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
