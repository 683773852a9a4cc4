package mongo

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// tagHistogramPipeline counts stores per tag, most used first, ties by tag.
func tagHistogramPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tags"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

// topStoresPipeline joins reviews onto stores and ranks by average rating.
// A store needs at least minReviews reviews to appear.
func topStoresPipeline(reviewCollection string, minReviews, limit int) mongo.Pipeline {
	if minReviews < 1 {
		minReviews = 1
	}
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: reviewCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "storeId"},
			{Key: "as", Value: "reviews"},
		}}},
		{{Key: "$match", Value: bson.D{
			{Key: "reviews." + strconv.Itoa(minReviews-1), Value: bson.D{{Key: "$exists", Value: true}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "slug", Value: 1},
			{Key: "name", Value: 1},
			{Key: "photo", Value: 1},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$reviews.rating"}}},
			{Key: "reviewCount", Value: bson.D{{Key: "$size", Value: "$reviews"}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "averageRating", Value: -1},
			{Key: "reviewCount", Value: -1},
			{Key: "name", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
	}
}

// nearFilter selects stores within maxMeters of the point, nearest first.
func nearFilter(lng, lat, maxMeters float64) bson.M {
	return bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": bson.A{lng, lat},
				},
				"$maxDistance": maxMeters,
			},
		},
	}
}

// nearProjection keeps the display fields of a proximity result.
func nearProjection() bson.M {
	return bson.M{"slug": 1, "name": 1, "description": 1, "photo": 1, "location": 1}
}

// tagFilter matches a single tag, or every store when tag is empty.
func tagFilter(tag string) bson.M {
	if tag == "" {
		return bson.M{}
	}
	return bson.M{"tags": tag}
}

// textFilter runs a $text search over the name/description index.
func textFilter(query string) bson.M {
	return bson.M{"$text": bson.M{"$search": query}}
}

func textScore() bson.M {
	return bson.M{"score": bson.M{"$meta": "textScore"}}
}
