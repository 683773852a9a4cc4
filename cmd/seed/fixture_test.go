package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/infrastructure/memory"
	"github.com/sngm3741/storecatalog/api/internal/server"
)

func TestSeedDefaultFixture(t *testing.T) {
	fx, err := readFixture("")
	require.NoError(t, err)

	backend := server.NewBackendFromMemory(memory.New(), nil)
	svc := backend.Services()
	ctx := context.Background()

	result, err := seed(ctx, svc, fx, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, seedResult{Users: 3, Stores: 4, Reviews: 5}, result)

	second, err := svc.Stores.GetBySlug(ctx, "cafe-luna-2")
	require.NoError(t, err)
	assert.Equal(t, "Cafe Luna", second.Name)

	top, err := svc.Catalog.TopStores(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "moon-bar", top[0].Slug)
	assert.Equal(t, "cafe-luna", top[1].Slug)
}

func TestSeedUnknownReferences(t *testing.T) {
	ctx := context.Background()

	fx, err := parseFixture([]byte(`
stores:
  - name: Orphan
    author: nobody@example.com
    address: 1 Main St
    coordinates: [0, 0]
`))
	require.NoError(t, err)
	_, err = seed(ctx, server.NewBackendFromMemory(memory.New(), nil).Services(), fx, zap.NewNop())
	assert.ErrorContains(t, err, "unknown author")

	fx, err = parseFixture([]byte(`
reviews:
  - store: missing
    author: wes@example.com
    rating: 3
`))
	require.NoError(t, err)
	_, err = seed(ctx, server.NewBackendFromMemory(memory.New(), nil).Services(), fx, zap.NewNop())
	assert.ErrorContains(t, err, "unknown store")

	_, err = parseFixture([]byte("users: [unterminated"))
	assert.Error(t, err)
}
