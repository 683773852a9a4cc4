package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() StoreInput {
	return StoreInput{
		Name:        "  Cafe Luna ",
		Description: " espresso ",
		Tags:        []string{"Wifi", " ", "Wifi", "Open Late"},
		Address:     " 1 Main St ",
		Coordinates: []float64{-79.38, 43.65},
	}
}

func TestStoreInputNormalize(t *testing.T) {
	in := validInput().Normalize()
	assert.Equal(t, "Cafe Luna", in.Name)
	assert.Equal(t, "espresso", in.Description)
	assert.Equal(t, "1 Main St", in.Address)
	assert.Equal(t, []string{"Wifi", "Wifi", "Open Late"}, in.Tags, "duplicates are kept, blanks dropped")
	require.NoError(t, in.Validate())

	loc := in.Location()
	assert.Equal(t, PointType, loc.Type)
	assert.Equal(t, -79.38, loc.Longitude())
	assert.Equal(t, 43.65, loc.Latitude())
}

func TestStoreInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StoreInput)
		field  string
	}{
		{"missing name", func(in *StoreInput) { in.Name = "   " }, "name"},
		{"missing address", func(in *StoreInput) { in.Address = "" }, "location.address"},
		{"missing coordinates", func(in *StoreInput) { in.Coordinates = nil }, "location.coordinates"},
		{"one coordinate", func(in *StoreInput) { in.Coordinates = []float64{1} }, "location.coordinates"},
		{"nan coordinate", func(in *StoreInput) { in.Coordinates = []float64{math.NaN(), 1} }, "location.coordinates"},
		{"inf coordinate", func(in *StoreInput) { in.Coordinates = []float64{1, math.Inf(1)} }, "location.coordinates"},
		{"latitude out of range", func(in *StoreInput) { in.Coordinates = []float64{10, 91} }, "location.coordinates"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := in.Normalize().Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tc.field, verr.Fields[0].Field)
		})
	}
}

func TestStoreValidate(t *testing.T) {
	s := Store{
		Name:     "A",
		Slug:     "a",
		AuthorID: "u1",
		Location: Location{Type: PointType, Coordinates: [2]float64{1, 2}, Address: "x"},
	}
	require.NoError(t, s.Validate())

	s.Location.Type = "Polygon"
	s.AuthorID = ""
	var verr *ValidationError
	require.ErrorAs(t, s.Validate(), &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestStoreOwnedBy(t *testing.T) {
	s := Store{AuthorID: "u1"}
	assert.True(t, s.OwnedBy("u1"))
	assert.False(t, s.OwnedBy("u2"))
	assert.False(t, Store{}.OwnedBy(""))
}

func TestReviewInputValidate(t *testing.T) {
	require.NoError(t, ReviewInput{Text: " good ", Rating: 5}.Normalize().Validate())

	var verr *ValidationError
	require.ErrorAs(t, ReviewInput{Text: "  ", Rating: 0}.Normalize().Validate(), &verr)
	assert.Len(t, verr.Fields, 2)
	assert.Error(t, ReviewInput{Text: "ok", Rating: 6}.Validate())
}

func TestHaversine(t *testing.T) {
	assert.InDelta(t, 0, Haversine(10, 10, 10, 10), 1e-9)
	// one degree of latitude is roughly 111.2 km
	assert.InDelta(t, 111_195, Haversine(0, 0, 0, 1), 50)
	assert.True(t, ValidPoint(-180, 90))
	assert.False(t, ValidPoint(math.NaN(), 0))
	assert.False(t, ValidPoint(181, 0))
}

func TestUserGravatarAndHearts(t *testing.T) {
	u := User{Email: " Someone@Example.com ", Hearts: []string{"s1"}}
	assert.Equal(t, User{Email: "someone@example.com"}.Gravatar(), u.Gravatar())
	assert.Contains(t, u.Gravatar(), "https://gravatar.com/avatar/")
	assert.True(t, u.HasHeart("s1"))
	assert.False(t, u.HasHeart("s2"))
}

func TestAdapterErrorUnwraps(t *testing.T) {
	inner := errors.New("socket closed")
	err := error(&AdapterError{Op: "find stores", Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.True(t, IsAdapterError(err))
	assert.Equal(t, "find stores: socket closed", err.Error())
}
