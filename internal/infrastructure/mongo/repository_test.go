package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/sngm3741/storecatalog/api/internal/catalog/application"
	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

var (
	_ application.StoreRepository   = (*StoreRepository)(nil)
	_ application.ReviewRepository  = (*ReviewRepository)(nil)
	_ application.UserRepository    = (*UserRepository)(nil)
	_ application.CatalogAggregator = (*CatalogAggregator)(nil)
)

func storeDoc(id, author primitive.ObjectID, slug string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Cafe Luna"},
		{Key: "slug", Value: slug},
		{Key: "tags", Value: bson.A{"coffee", "wifi"}},
		{Key: "createdAt", Value: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		{Key: "location", Value: bson.D{
			{Key: "type", Value: "Point"},
			{Key: "coordinates", Value: bson.A{-79.38, 43.65}},
			{Key: "address", Value: "1 Main St"},
		}},
		{Key: "photo", Value: "luna.jpg"},
		{Key: "authorId", Value: author},
	}
}

func TestStoreRepository_Mongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by slug decodes document", func(mt *mtest.T) {
		id, author := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.stores", mtest.FirstBatch, storeDoc(id, author, "cafe-luna")))

		repo := NewStoreRepository(mt.DB, "stores")
		store, err := repo.FindBySlug(context.Background(), "cafe-luna")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), store.ID)
		assert.Equal(mt, author.Hex(), store.AuthorID)
		assert.Equal(mt, [2]float64{-79.38, 43.65}, store.Location.Coordinates)
		assert.Equal(mt, []string{"coffee", "wifi"}, store.Tags)
		assert.Equal(mt, "luna.jpg", store.PhotoRef)
	})

	mt.Run("no documents maps to not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.stores", mtest.FirstBatch))

		repo := NewStoreRepository(mt.DB, "stores")
		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("malformed id is not found without a round trip", func(mt *mtest.T) {
		repo := NewStoreRepository(mt.DB, "stores")
		_, err := repo.FindByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("duplicate slug maps to conflict", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: catalog.stores index: slug_unique",
		}))

		repo := NewStoreRepository(mt.DB, "stores")
		store := &domain.Store{
			Name:     "Cafe Luna",
			Slug:     "cafe-luna",
			AuthorID: primitive.NewObjectID().Hex(),
			Location: domain.Location{Type: domain.PointType, Address: "1 Main St"},
		}
		err := repo.Insert(context.Background(), store)
		assert.ErrorIs(mt, err, domain.ErrConflict)
		assert.Empty(mt, store.ID)
	})

	mt.Run("insert assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewStoreRepository(mt.DB, "stores")
		store := &domain.Store{Name: "Cafe Luna", Slug: "cafe-luna", AuthorID: primitive.NewObjectID().Hex()}
		require.NoError(mt, repo.Insert(context.Background(), store))
		_, err := primitive.ObjectIDFromHex(store.ID)
		assert.NoError(mt, err)
	})

	mt.Run("command failure is an adapter error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "geo near accepts just one argument",
		}))

		repo := NewStoreRepository(mt.DB, "stores")
		_, err := repo.Near(context.Background(), 0, 0, 10000, 10)
		require.Error(mt, err)
		var ae *domain.AdapterError
		require.True(mt, errors.As(err, &ae))
		assert.Equal(mt, "stores.near", ae.Op)
	})
}

func TestCatalogAggregator_Mongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("top stores decodes summaries", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.stores", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "slug", Value: "cafe-luna"},
			{Key: "name", Value: "Cafe Luna"},
			{Key: "averageRating", Value: 4.5},
			{Key: "reviewCount", Value: int32(2)},
		}))

		agg := NewCatalogAggregator(mt.DB, "stores", "reviews")
		top, err := agg.TopStores(context.Background(), 2, 10)
		require.NoError(mt, err)
		require.Len(mt, top, 1)
		assert.Equal(mt, domain.StoreSummary{ID: id.Hex(), Slug: "cafe-luna", Name: "Cafe Luna", AverageRating: 4.5, ReviewCount: 2}, top[0])
	})

	mt.Run("tag histogram decodes counts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.stores", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "coffee"}, {Key: "count", Value: int32(2)}},
			bson.D{{Key: "_id", Value: "wifi"}, {Key: "count", Value: int32(1)}},
		))

		agg := NewCatalogAggregator(mt.DB, "stores", "reviews")
		tags, err := agg.TagHistogram(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []domain.TagCount{{Tag: "coffee", Count: 2}, {Tag: "wifi", Count: 1}}, tags)
	})
}

func TestUserRepository_Mongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("toggle heart adds missing store", func(mt *mtest.T) {
		userID, storeID := primitive.NewObjectID(), primitive.NewObjectID()
		before := bson.D{
			{Key: "_id", Value: userID},
			{Key: "email", Value: "wes@example.com"},
			{Key: "name", Value: "Wes"},
			{Key: "hearts", Value: bson.A{}},
		}
		after := bson.D{
			{Key: "_id", Value: userID},
			{Key: "email", Value: "wes@example.com"},
			{Key: "name", Value: "Wes"},
			{Key: "hearts", Value: bson.A{storeID}},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "catalog.users", mtest.FirstBatch, before),
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: after}},
		)

		repo := NewUserRepository(mt.DB, "users")
		user, err := repo.ToggleHeart(context.Background(), userID.Hex(), storeID.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, []string{storeID.Hex()}, user.Hearts)
	})

	mt.Run("duplicate email maps to conflict", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		repo := NewUserRepository(mt.DB, "users")
		err := repo.Insert(context.Background(), &domain.User{Email: "wes@example.com", Name: "Wes"})
		assert.ErrorIs(mt, err, domain.ErrConflict)
	})
}
