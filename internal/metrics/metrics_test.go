package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveCrawler(CrawlerHit)
	m.ObserveCrawler(CrawlerHit)
	m.ObserveCrawler(CrawlerMiss)
	m.ObserveImageValidation("article", "valid")
	m.ObserveArticleWrite("create")
	m.ObserveSlugConflict()
	m.ObserveHTTPRequest("GET", "/v1/articles", 200, 20*time.Millisecond)

	if got := testutil.ToFloat64(m.crawlerRequestsTotal.WithLabelValues(CrawlerHit)); got != 2 {
		t.Errorf("Expected 2 crawler hits, got %f", got)
	}
	if got := testutil.ToFloat64(m.crawlerRequestsTotal.WithLabelValues(CrawlerMiss)); got != 1 {
		t.Errorf("Expected 1 crawler miss, got %f", got)
	}
	if got := testutil.ToFloat64(m.ogImageValidationsTotal.WithLabelValues("article", "valid")); got != 1 {
		t.Errorf("Expected 1 validation, got %f", got)
	}
	if got := testutil.ToFloat64(m.slugConflictsTotal); got != 1 {
		t.Errorf("Expected 1 conflict, got %f", got)
	}
	if got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "200")); got != 1 {
		t.Errorf("Expected 1 request, got %f", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.ObserveCrawler(CrawlerHit)
	m.ObserveImageValidation("default", "invalid")
	m.ObserveArticleWrite("delete")
	m.ObserveSlugConflict()
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)

	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveArticleWrite("create")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `article_writes_total{op="create"} 1`) {
		t.Errorf("metrics output missing counter:\n%s", rec.Body.String())
	}
}
