// Package memory is an in-process document store used for tests and local runs
// without MongoDB. It mirrors the mongo adapter's ordering and error semantics.
package memory

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// DB holds the three collections behind one lock.
type DB struct {
	mu      sync.RWMutex
	seq     int64
	stores  map[string]storeRecord
	reviews []domain.Review
	users   map[string]userRecord
}

type storeRecord struct {
	seq   int64
	store domain.Store
}

type userRecord struct {
	seq  int64
	user domain.User
}

// New returns an empty DB.
func New() *DB {
	return &DB{
		stores: map[string]storeRecord{},
		users:  map[string]userRecord{},
	}
}

// Stores returns the stores collection adapter.
func (db *DB) Stores() *StoreRepository { return &StoreRepository{db: db} }

// Reviews returns the reviews collection adapter.
func (db *DB) Reviews() *ReviewRepository { return &ReviewRepository{db: db} }

// Users returns the users collection adapter.
func (db *DB) Users() *UserRepository { return &UserRepository{db: db} }

// Catalog returns the aggregation adapter.
func (db *DB) Catalog() *CatalogAggregator { return &CatalogAggregator{db: db} }

// Drop empties every collection.
func (db *DB) Drop() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stores = map[string]storeRecord{}
	db.users = map[string]userRecord{}
	db.reviews = nil
}

func (db *DB) nextSeq() int64 {
	db.seq++
	return db.seq
}

func newID() string { return primitive.NewObjectID().Hex() }

// validID mirrors the mongo adapter: a malformed id never matches anything.
func validID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

func copyStore(s domain.Store) domain.Store {
	s.Tags = append([]string{}, s.Tags...)
	s.Author = nil
	s.Reviews = nil
	return s
}

func copyUser(u domain.User) domain.User {
	u.Hearts = append([]string{}, u.Hearts...)
	if u.ResetPasswordExpires != nil {
		t := *u.ResetPasswordExpires
		u.ResetPasswordExpires = &t
	}
	return u
}

func copyReview(r domain.Review) domain.Review {
	r.Author = nil
	return r
}
