package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Cafe Luna", "cafe-luna"},
		{"  Café   Luna!! ", "cafe-luna"},
		{"Wes's Big Burgers & Fries", "wes-s-big-burgers-fries"},
		{"crème brûlée 24/7", "creme-brulee-24-7"},
		{"---", "store"},
		{"喫茶店", "store"},
		{"ALL CAPS", "all-caps"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.name))
		})
	}
}

func TestMatchesSlugBase(t *testing.T) {
	assert.True(t, MatchesSlugBase("cafe-luna", "cafe-luna"))
	assert.True(t, MatchesSlugBase("cafe-luna-12", "cafe-luna"))
	assert.True(t, MatchesSlugBase("CAFE-LUNA-2", "cafe-luna"))
	assert.False(t, MatchesSlugBase("cafe-luna-bar", "cafe-luna"))
	assert.False(t, MatchesSlugBase("cafe-lunatic", "cafe-luna"))
	assert.False(t, MatchesSlugBase("the-cafe-luna", "cafe-luna"))
}

func TestSlugPatternQuotesMeta(t *testing.T) {
	assert.Equal(t, `^a\.b(-[0-9]+)?$`, SlugPattern("a.b"))
}

func TestNextSlug(t *testing.T) {
	assert.Equal(t, "cafe", NextSlug("cafe", nil))
	assert.Equal(t, "cafe-2", NextSlug("cafe", []string{"cafe"}))
	assert.Equal(t, "cafe-4", NextSlug("cafe", []string{"cafe", "cafe-2", "cafe-3"}))
	// a rename left a gap; the counted suffix is taken so it advances
	assert.Equal(t, "cafe-4", NextSlug("cafe", []string{"cafe", "cafe-3"}))
	assert.Equal(t, "cafe-3", NextSlug("cafe", []string{"cafe-2"}))
}

func TestGenerateSlug_SequenceIsPairwiseDistinct(t *testing.T) {
	var existing []string
	lookup := func(_ context.Context, pattern string) ([]string, error) {
		assert.Equal(t, SlugPattern("cafe-luna"), pattern)
		return append([]string(nil), existing...), nil
	}

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		slug, err := GenerateSlug(context.Background(), "Cafe Luna", lookup)
		require.NoError(t, err)
		require.False(t, seen[slug], "duplicate slug %s", slug)
		seen[slug] = true
		existing = append(existing, slug)
	}

	assert.Equal(t, []string{"cafe-luna", "cafe-luna-2", "cafe-luna-3", "cafe-luna-4", "cafe-luna-5"}, existing)
}

func TestGenerateSlug_LookupError(t *testing.T) {
	boom := errors.New("boom")
	_, err := GenerateSlug(context.Background(), "x", func(context.Context, string) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
