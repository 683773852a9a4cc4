package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/storecatalog/api/internal/config"
	"github.com/sngm3741/storecatalog/api/internal/infrastructure/memory"
)

const testSecret = "test-secret"

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Driver:         config.DriverMemory,
		JWTSecret:      testSecret,
		JWTIssuer:      "storecatalog-auth",
		JWTAudience:    "catalog",
		AllowedOrigins: []string{"https://app.example.com"},
		MediaDir:       t.TempDir(),
	}
}

func signToken(t *testing.T, claims authClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() authClaims {
	return authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "66a000000000000000000001",
			Issuer:    "storecatalog-auth",
			Audience:  jwt.ClaimStrings{"catalog"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: "wes",
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	srv := New(testConfig(t), NewBackendFromMemory(memory.New(), nil), nil)
	return srv.Router()
}

func TestParseAuthToken(t *testing.T) {
	cfg := testConfig(t)
	now := time.Now()

	claims, err := parseAuthToken(signToken(t, validClaims(), testSecret), cfg.JWTConfigs(), cfg.JWTAudience, now)
	require.NoError(t, err)
	assert.Equal(t, "66a000000000000000000001", claims.Subject)
	assert.Equal(t, "wes", claims.Name)

	tests := []struct {
		name   string
		mutate func(*authClaims)
		secret string
	}{
		{name: "wrong secret", secret: "other"},
		{name: "wrong issuer", mutate: func(c *authClaims) { c.Issuer = "someone-else" }},
		{name: "wrong audience", mutate: func(c *authClaims) { c.Audience = jwt.ClaimStrings{"admin"} }},
		{name: "missing subject", mutate: func(c *authClaims) { c.Subject = "" }},
		{name: "expired", mutate: func(c *authClaims) { c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClaims()
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			secret := testSecret
			if tt.secret != "" {
				secret = tt.secret
			}
			_, err := parseAuthToken(signToken(t, c, secret), cfg.JWTConfigs(), cfg.JWTAudience, now)
			assert.Error(t, err)
		})
	}

	_, err = parseAuthToken("anything", nil, "", now)
	assert.Error(t, err)
}

func TestRouter_AuthMiddleware(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(), testSecret))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "66a000000000000000000001")
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog_http_requests_total")
}

func TestWithCORS(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/stores", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/stores", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/stores", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET,POST,PATCH,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}
