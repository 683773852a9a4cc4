package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

func TestWriteError_StatusMapping(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("name", "please enter a store name")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", verr, http.StatusBadRequest},
		{"not found", fmt.Errorf("find store: %w", domain.ErrNotFound), http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"conflict", fmt.Errorf("insert: %w", domain.ErrConflict), http.StatusConflict},
		{"adapter", &domain.AdapterError{Op: "stores.find", Err: errors.New("reset")}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(nil, rr, tc.err, "failed")
			assert.Equal(t, tc.want, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("rating", "rating must be between 1 and 5")

	rr := httptest.NewRecorder()
	WriteError(nil, rr, verr, "failed")

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "rating", body.Fields[0].Field)
}

func TestParsePositiveInt(t *testing.T) {
	v, ok := ParsePositiveInt("3", 1)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	for _, raw := range []string{"", "0", "-2", "abc"} {
		v, ok := ParsePositiveInt(raw, 7)
		assert.False(t, ok, raw)
		assert.Equal(t, 7, v, raw)
	}
}

func TestParseFloat(t *testing.T) {
	assert.Equal(t, -79.38, ParseFloat(" -79.38 "))
	assert.True(t, math.IsNaN(ParseFloat("east")))
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserFromContext(ContextWithUser(context.Background(), AuthenticatedUser{}))
	assert.False(t, ok)

	user, ok := UserFromContext(ContextWithUser(context.Background(), AuthenticatedUser{ID: "u1"}))
	assert.True(t, ok)
	assert.Equal(t, "u1", user.ID)
}
