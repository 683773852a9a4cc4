package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names the three collections the catalog uses.
type Collections struct {
	Stores  string
	Reviews string
	Users   string
}

// indexModels returns the indexes each collection needs, keyed by collection name.
func indexModels(c Collections) map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		c.Stores: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("slug_unique")},
			{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}, Options: options.Index().SetName("name_description_text")},
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}, Options: options.Index().SetName("location_2dsphere")},
			{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags")},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
		},
		c.Reviews: {
			{Keys: bson.D{{Key: "storeId", Value: 1}}, Options: options.Index().SetName("store_id")},
		},
		c.Users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		},
	}
}

// EnsureIndexes creates every index the catalog relies on. Existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database, c Collections) error {
	for name, models := range indexModels(c) {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return mapError("indexes."+name, err)
		}
	}
	return nil
}

// Drop removes the catalog collections.
func Drop(ctx context.Context, db *mongo.Database, c Collections) error {
	for _, name := range []string{c.Stores, c.Reviews, c.Users} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return mapError("drop."+name, err)
		}
	}
	return nil
}
