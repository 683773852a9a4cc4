package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// UserRepository implements application.UserRepository using MongoDB.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new Mongo-backed user repository.
func NewUserRepository(db *mongo.Database, collectionName string) *UserRepository {
	return &UserRepository{collection: db.Collection(collectionName)}
}

// FindByID returns a single user by hex identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, "users.findByID", bson.M{"_id": objectID})
}

// FindByIDs returns the listed users. Unknown or malformed ids are skipped.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []domain.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, mapError("users.findByIDs", err)
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, mapError("users.findByIDs", err)
		}
		users = append(users, mapUserDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError("users.findByIDs", err)
	}
	return users, nil
}

// ToggleHeart pulls storeID from hearts when present and adds it otherwise.
func (r *UserRepository) ToggleHeart(ctx context.Context, userID, storeID string) (*domain.User, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	storeOID, err := primitive.ObjectIDFromHex(storeID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	userOID, _ := primitive.ObjectIDFromHex(user.ID)

	operator := "$addToSet"
	if user.HasHeart(storeID) {
		operator = "$pull"
	}
	update := bson.M{operator: bson.M{"hearts": storeOID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc UserDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userOID}, update, opts).Decode(&doc); err != nil {
		return nil, mapError("users.toggleHeart", err)
	}
	updated := mapUserDocument(doc)
	return &updated, nil
}

// FindByResetToken returns the user whose reset token matches and has not expired at now.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, "users.findByResetToken", bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": now},
	})
}

// Insert writes a new user. A duplicate email yields domain.ErrConflict.
func (r *UserRepository) Insert(ctx context.Context, user *domain.User) error {
	doc := UserDocument{
		ID:                   primitive.NewObjectID(),
		Email:                user.Email,
		Name:                 user.Name,
		Hearts:               objectIDs(user.Hearts),
		ResetPasswordToken:   user.ResetPasswordToken,
		ResetPasswordExpires: user.ResetPasswordExpires,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapError("users.insert", err)
	}
	user.ID = doc.ID.Hex()
	if user.Hearts == nil {
		user.Hearts = []string{}
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, op string, filter bson.M) (*domain.User, error) {
	var doc UserDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(op, err)
	}
	user := mapUserDocument(doc)
	return &user, nil
}
