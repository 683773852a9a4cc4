package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// LocationDocument は GeoJSON Point と住所を保持する埋め込みドキュメント。
// coordinates は [経度, 緯度] の順で格納する。
type LocationDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
	Address     string    `bson:"address"`
}

// StoreDocument は MongoDB 上での店舗スキーマを Go 構造体として表現したもの。
type StoreDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description,omitempty"`
	Tags        []string           `bson:"tags"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty"`
	Location    LocationDocument   `bson:"location"`
	Photo       string             `bson:"photo,omitempty"`
	AuthorID    primitive.ObjectID `bson:"authorId,omitempty"`
}

// ReviewDocument は店舗に紐づくレビュー 1 件のスキーマ。
type ReviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Rating    int                `bson:"rating"`
	CreatedAt time.Time          `bson:"createdAt"`
	AuthorID  primitive.ObjectID `bson:"authorId"`
	StoreID   primitive.ObjectID `bson:"storeId"`
}

// UserDocument は店舗・レビューから参照されるユーザーのスキーマ。
type UserDocument struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty"`
	Email                string               `bson:"email"`
	Name                 string               `bson:"name"`
	Hearts               []primitive.ObjectID `bson:"hearts"`
	ResetPasswordToken   string               `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time           `bson:"resetPasswordExpires,omitempty"`
}

// storeSummaryDocument はランキング集計パイプラインの出力。
type storeSummaryDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Slug          string             `bson:"slug"`
	Name          string             `bson:"name"`
	Photo         string             `bson:"photo,omitempty"`
	AverageRating float64            `bson:"averageRating"`
	ReviewCount   int                `bson:"reviewCount"`
}

// tagCountDocument はタグ集計パイプラインの出力。
type tagCountDocument struct {
	Tag   string `bson:"_id"`
	Count int    `bson:"count"`
}

func mapStoreDocument(doc StoreDocument) domain.Store {
	store := domain.Store{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Slug:        doc.Slug,
		Description: doc.Description,
		Tags:        append([]string{}, doc.Tags...),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		Location: domain.Location{
			Type:    doc.Location.Type,
			Address: doc.Location.Address,
		},
		PhotoRef: doc.Photo,
	}
	if !doc.AuthorID.IsZero() {
		store.AuthorID = doc.AuthorID.Hex()
	}
	if len(doc.Location.Coordinates) == 2 {
		store.Location.Coordinates = [2]float64{doc.Location.Coordinates[0], doc.Location.Coordinates[1]}
	}
	return store
}

func newStoreDocument(store *domain.Store) (StoreDocument, error) {
	doc := StoreDocument{
		Name:        store.Name,
		Slug:        store.Slug,
		Description: store.Description,
		Tags:        append([]string{}, store.Tags...),
		CreatedAt:   store.CreatedAt,
		UpdatedAt:   store.UpdatedAt,
		Location: LocationDocument{
			Type:        store.Location.Type,
			Coordinates: []float64{store.Location.Longitude(), store.Location.Latitude()},
			Address:     store.Location.Address,
		},
		Photo: store.PhotoRef,
	}
	if store.ID != "" {
		id, err := primitive.ObjectIDFromHex(store.ID)
		if err != nil {
			return StoreDocument{}, domain.ErrNotFound
		}
		doc.ID = id
	}
	if store.AuthorID != "" {
		author, err := primitive.ObjectIDFromHex(store.AuthorID)
		if err != nil {
			return StoreDocument{}, &domain.ValidationError{Fields: []domain.FieldError{{Field: "author", Message: "invalid author id"}}}
		}
		doc.AuthorID = author
	}
	return doc, nil
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	return domain.Review{
		ID:        doc.ID.Hex(),
		Text:      doc.Text,
		Rating:    doc.Rating,
		CreatedAt: doc.CreatedAt,
		AuthorID:  doc.AuthorID.Hex(),
		StoreID:   doc.StoreID.Hex(),
	}
}

func mapUserDocument(doc UserDocument) domain.User {
	user := domain.User{
		ID:                 doc.ID.Hex(),
		Email:              doc.Email,
		Name:               doc.Name,
		Hearts:             make([]string, 0, len(doc.Hearts)),
		ResetPasswordToken: doc.ResetPasswordToken,
	}
	for _, h := range doc.Hearts {
		user.Hearts = append(user.Hearts, h.Hex())
	}
	if doc.ResetPasswordExpires != nil {
		t := *doc.ResetPasswordExpires
		user.ResetPasswordExpires = &t
	}
	return user
}

func mapStoreSummary(doc storeSummaryDocument) domain.StoreSummary {
	return domain.StoreSummary{
		ID:            doc.ID.Hex(),
		Slug:          doc.Slug,
		Name:          doc.Name,
		PhotoRef:      doc.Photo,
		AverageRating: doc.AverageRating,
		ReviewCount:   doc.ReviewCount,
	}
}

// objectIDs converts hex ids, dropping any that are malformed.
func objectIDs(ids []string) []primitive.ObjectID {
	result := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			result = append(result, oid)
		}
	}
	return result
}
