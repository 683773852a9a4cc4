package domain

import (
	"strings"
	"time"
)

const (
	// MinRating and MaxRating bound a review rating, inclusive.
	MinRating = 1
	MaxRating = 5
)

// Review is an immutable user review of a store. Author is filled by population.
type Review struct {
	ID        string
	Text      string
	Rating    int
	CreatedAt time.Time
	AuthorID  string
	StoreID   string

	Author *User
}

// ReviewInput is a review as submitted by a user.
type ReviewInput struct {
	Text   string
	Rating int
}

// Normalize trims the review text.
func (in ReviewInput) Normalize() ReviewInput {
	return ReviewInput{Text: strings.TrimSpace(in.Text), Rating: in.Rating}
}

// Validate checks text presence and rating range.
func (in ReviewInput) Validate() error {
	verr := &ValidationError{}
	if in.Text == "" {
		verr.Add("text", "please write a review")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		verr.Add("rating", "rating must be between 1 and 5")
	}
	return verr.OrNil()
}
