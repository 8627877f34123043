package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveImport(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveImport("member", 3, 1)
	m.ObserveImport("member", 2, 0)

	if got := testutil.ToFloat64(m.importRows.WithLabelValues("member", "imported")); got != 5 {
		t.Fatalf("imported=%v want 5", got)
	}
	if got := testutil.ToFloat64(m.importRows.WithLabelValues("member", "failed")); got != 1 {
		t.Fatalf("failed=%v want 1", got)
	}
	if got := testutil.ToFloat64(m.importsTotal.WithLabelValues("member")); got != 2 {
		t.Fatalf("batches=%v want 2", got)
	}
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	t.Parallel()

	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/members/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", m.Handler())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/members/abc", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status=%d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	if !strings.Contains(body, `roster_http_request_duration_seconds_count{method="GET",route="/members/{id}",status="204"} 1`) {
		t.Fatalf("metrics body missing request sample:\n%s", body)
	}
}
