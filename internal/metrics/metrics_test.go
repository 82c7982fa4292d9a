package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("list", "ok", 10*time.Millisecond)
	m.ObserveRequest("list", "ok", 20*time.Millisecond)
	m.ObserveRequest("get", "not_found", time.Millisecond)

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("list", "ok")); got != 2 {
		t.Errorf("list ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("get", "not_found")); got != 1 {
		t.Errorf("get not_found = %v, want 1", got)
	}
}

func TestCacheFetch(t *testing.T) {
	m := New()
	m.CacheFetch("notes-list", "hit")
	m.CacheFetch("notes-list", "miss")
	m.CacheFetch("notes-list", "hit")
	m.SetCacheEntries(3)

	if got := testutil.ToFloat64(m.cacheFetches.WithLabelValues("notes-list", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheEntries); got != 3 {
		t.Errorf("entries = %v, want 3", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("list", "ok", time.Second)
	m.CacheFetch("notes-list", "hit")
	m.SetCacheEntries(1)
	if m.Registry() != nil {
		t.Error("nil metrics should have nil registry")
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.CacheFetch("note-detail", "miss")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `notehub_cache_fetches_total{kind="note-detail",result="miss"} 1`) {
		t.Errorf("metrics output missing cache counter:\n%s", body)
	}
}
