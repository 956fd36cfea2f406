package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounters(t *testing.T) {
	r := New()
	r.RowAdded()
	r.RowAdded()
	r.RowRemoved()
	r.RowEdited()
	r.ValidationFailed("title")
	r.ValidationFailed("title")
	r.ValidationFailed("rating")

	if got := testutil.ToFloat64(r.added); got != 2 {
		t.Fatalf("added = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.removed); got != 1 {
		t.Fatalf("removed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.edited); got != 1 {
		t.Fatalf("edited = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.validation.WithLabelValues("title")); got != 2 {
		t.Fatalf("title failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.validation.WithLabelValues("rating")); got != 1 {
		t.Fatalf("rating failures = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.RowAdded()
	r.ObservePool(func() *pgxpool.Stat { return nil })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"movietable_rows_added_total 1", "movietable_db_pool_total_conns 0"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output missing %q", name)
		}
	}
}
