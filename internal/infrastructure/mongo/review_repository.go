package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// ReviewRepository implements application.ReviewRepository using MongoDB.
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a new Mongo-backed review repository.
func NewReviewRepository(db *mongo.Database, collectionName string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collectionName)}
}

// FindByStoreIDs returns every review of the listed stores, oldest first.
func (r *ReviewRepository) FindByStoreIDs(ctx context.Context, storeIDs []string) ([]domain.Review, error) {
	oids := objectIDs(storeIDs)
	if len(oids) == 0 {
		return []domain.Review{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"storeId": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, mapError("reviews.findByStoreIDs", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, mapError("reviews.findByStoreIDs", err)
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError("reviews.findByStoreIDs", err)
	}
	return reviews, nil
}

// Insert writes a new review and assigns its ID.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) error {
	storeID, err := primitive.ObjectIDFromHex(review.StoreID)
	if err != nil {
		return domain.ErrNotFound
	}
	authorID, err := primitive.ObjectIDFromHex(review.AuthorID)
	if err != nil {
		return domain.ErrNotFound
	}
	doc := ReviewDocument{
		ID:        primitive.NewObjectID(),
		Text:      review.Text,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
		AuthorID:  authorID,
		StoreID:   storeID,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapError("reviews.insert", err)
	}
	review.ID = doc.ID.Hex()
	return nil
}
