package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/stores/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/stores/cafe-luna", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/stores/{slug}", "404"))
	if got < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestStatusWriter_DefaultsToOK(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &statusWriter{ResponseWriter: rr, status: http.StatusOK}
	_, _ = w.Write([]byte("x"))
	w.WriteHeader(http.StatusTeapot)
	if w.status != http.StatusOK {
		t.Errorf("status after implicit write = %d, want 200", w.status)
	}
}

func TestObserveQuery_Outcome(t *testing.T) {
	before := testutil.CollectAndCount(QueryDuration)
	ObserveQuery("test_view_ok", time.Now(), nil)
	ObserveQuery("test_view_err", time.Now(), errors.New("boom"))
	if after := testutil.CollectAndCount(QueryDuration); after < before+2 {
		t.Errorf("expected two new series, before=%d after=%d", before, after)
	}

	CacheResult("tags", "hit")
	if got := testutil.ToFloat64(ViewCacheTotal.WithLabelValues("tags", "hit")); got < 1 {
		t.Errorf("expected cache hit counter >= 1, got %f", got)
	}
}
