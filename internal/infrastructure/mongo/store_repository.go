package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// StoreRepository implements application.StoreRepository using MongoDB.
type StoreRepository struct {
	collection *mongo.Collection
}

// NewStoreRepository creates a new Mongo-backed store repository.
func NewStoreRepository(db *mongo.Database, collectionName string) *StoreRepository {
	return &StoreRepository{collection: db.Collection(collectionName)}
}

// FindByID returns a single store by its hex identifier.
func (r *StoreRepository) FindByID(ctx context.Context, id string) (*domain.Store, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, "stores.findByID", bson.M{"_id": objectID})
}

// FindBySlug returns a single store by its slug.
func (r *StoreRepository) FindBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	return r.findOne(ctx, "stores.findBySlug", bson.M{"slug": slug})
}

// FindByIDs returns the stores whose ids are listed. Malformed ids are skipped.
func (r *StoreRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Store, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []domain.Store{}, nil
	}
	return r.find(ctx, "stores.findByIDs", bson.M{"_id": bson.M{"$in": oids}})
}

// FindByTag returns stores carrying tag, or every store when tag is empty.
func (r *StoreRepository) FindByTag(ctx context.Context, tag string) ([]domain.Store, error) {
	return r.find(ctx, "stores.findByTag", tagFilter(tag))
}

// FindPage returns stores newest first.
func (r *StoreRepository) FindPage(ctx context.Context, skip, limit int) ([]domain.Store, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	return r.find(ctx, "stores.findPage", bson.M{}, opts)
}

// Count returns the number of stores.
func (r *StoreRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mapError("stores.count", err)
	}
	return n, nil
}

// SlugsMatching returns slugs matching pattern case-insensitively, skipping excludeID.
func (r *StoreRepository) SlugsMatching(ctx context.Context, pattern, excludeID string) ([]string, error) {
	filter := bson.M{"slug": primitive.Regex{Pattern: pattern, Options: "i"}}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	opts := options.Find().SetProjection(bson.M{"slug": 1})

	stores, err := r.find(ctx, "stores.slugsMatching", filter, opts)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(stores))
	for _, s := range stores {
		slugs = append(slugs, s.Slug)
	}
	return slugs, nil
}

// Insert writes a new store and assigns its ID. The unique slug index turns races into domain.ErrConflict.
func (r *StoreRepository) Insert(ctx context.Context, store *domain.Store) error {
	doc, err := newStoreDocument(store)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapError("stores.insert", err)
	}
	store.ID = doc.ID.Hex()
	return nil
}

// Update replaces the editable fields and returns the stored document.
func (r *StoreRepository) Update(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	doc, err := newStoreDocument(store)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"name":        doc.Name,
		"slug":        doc.Slug,
		"description": doc.Description,
		"tags":        doc.Tags,
		"location":    doc.Location,
		"photo":       doc.Photo,
		"updatedAt":   doc.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated StoreDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": doc.ID}, update, opts).Decode(&updated); err != nil {
		return nil, mapError("stores.update", err)
	}
	result := mapStoreDocument(updated)
	return &result, nil
}

// Near returns stores within maxMeters of the point, nearest first.
func (r *StoreRepository) Near(ctx context.Context, lng, lat, maxMeters float64, limit int) ([]domain.Store, error) {
	opts := options.Find().SetProjection(nearProjection()).SetLimit(int64(limit))
	return r.find(ctx, "stores.near", nearFilter(lng, lat, maxMeters), opts)
}

// Search returns stores by $text relevance, best first.
func (r *StoreRepository) Search(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	opts := options.Find().
		SetProjection(textScore()).
		SetSort(textScore()).
		SetLimit(int64(limit))
	return r.find(ctx, "stores.search", textFilter(query), opts)
}

func (r *StoreRepository) findOne(ctx context.Context, op string, filter bson.M) (*domain.Store, error) {
	var doc StoreDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(op, err)
	}
	store := mapStoreDocument(doc)
	return &store, nil
}

func (r *StoreRepository) find(ctx context.Context, op string, filter bson.M, opts ...*options.FindOptions) ([]domain.Store, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer cursor.Close(ctx)

	stores := make([]domain.Store, 0)
	for cursor.Next(ctx) {
		var doc StoreDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, mapError(op, err)
		}
		stores = append(stores, mapStoreDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return stores, nil
}
