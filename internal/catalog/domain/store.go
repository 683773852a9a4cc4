package domain

import (
	"math"
	"strings"
	"time"
)

// PointType is the only GeoJSON geometry stores are indexed with.
const PointType = "Point"

// Location is a GeoJSON point plus a free-text address.
// Coordinates are ordered longitude, latitude.
type Location struct {
	Type        string
	Coordinates [2]float64
	Address     string
}

// Longitude returns the first coordinate.
func (l Location) Longitude() float64 { return l.Coordinates[0] }

// Latitude returns the second coordinate.
func (l Location) Latitude() float64 { return l.Coordinates[1] }

// Store is a catalog entry. Reviews and Author are filled by population and never persisted.
type Store struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Location    Location
	PhotoRef    string
	AuthorID    string

	Author  *User
	Reviews []Review
}

// OwnedBy reports whether userID owns the store.
func (s Store) OwnedBy(userID string) bool {
	return s.AuthorID != "" && s.AuthorID == strings.TrimSpace(userID)
}

// StoreInput is the editable part of a store as submitted by a user.
type StoreInput struct {
	Name        string
	Description string
	Tags        []string
	Address     string
	Coordinates []float64
	PhotoRef    string
}

// Normalize trims free-text fields and drops blank tags.
func (in StoreInput) Normalize() StoreInput {
	out := StoreInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Address:     strings.TrimSpace(in.Address),
		PhotoRef:    strings.TrimSpace(in.PhotoRef),
		Coordinates: append([]float64(nil), in.Coordinates...),
		Tags:        make([]string, 0, len(in.Tags)),
	}
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}

// Validate checks the required fields of a normalized input.
func (in StoreInput) Validate() error {
	verr := &ValidationError{}
	if in.Name == "" {
		verr.Add("name", "please enter a store name")
	}
	if in.Address == "" {
		verr.Add("location.address", "you must supply an address")
	}
	switch {
	case len(in.Coordinates) != 2:
		verr.Add("location.coordinates", "you must supply coordinates")
	case !finite(in.Coordinates[0]) || !finite(in.Coordinates[1]):
		verr.Add("location.coordinates", "coordinates must be finite numbers")
	case !ValidCoordinates(in.Coordinates[0], in.Coordinates[1]):
		verr.Add("location.coordinates", "coordinates are out of range")
	}
	return verr.OrNil()
}

// Location builds a Point location from a validated input.
func (in StoreInput) Location() Location {
	loc := Location{Type: PointType, Address: in.Address}
	if len(in.Coordinates) == 2 {
		loc.Coordinates = [2]float64{in.Coordinates[0], in.Coordinates[1]}
	}
	return loc
}

// Validate checks a full store document before it is written.
func (s Store) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(s.Name) == "" {
		verr.Add("name", "please enter a store name")
	}
	if strings.TrimSpace(s.Slug) == "" {
		verr.Add("slug", "slug is required")
	}
	if strings.TrimSpace(s.AuthorID) == "" {
		verr.Add("author", "you must supply an author")
	}
	if strings.TrimSpace(s.Location.Address) == "" {
		verr.Add("location.address", "you must supply an address")
	}
	if s.Location.Type != PointType {
		verr.Add("location.type", "location must be a Point")
	}
	lng, lat := s.Location.Longitude(), s.Location.Latitude()
	if !finite(lng) || !finite(lat) || !ValidCoordinates(lng, lat) {
		verr.Add("location.coordinates", "coordinates must be finite and in range")
	}
	return verr.OrNil()
}

// TagCount is one row of the tag histogram.
type TagCount struct {
	Tag   string
	Count int
}

// StoreSummary is one row of the rating leaderboard.
type StoreSummary struct {
	ID            string
	Slug          string
	Name          string
	PhotoRef      string
	AverageRating float64
	ReviewCount   int
}

// StorePage is one page of the newest-first store listing.
type StorePage struct {
	Stores []Store
	Page   int
	Pages  int
	Count  int64
}

// TagView combines the tag histogram with the stores for the selected tag.
type TagView struct {
	Tag    string
	Tags   []TagCount
	Stores []Store
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
