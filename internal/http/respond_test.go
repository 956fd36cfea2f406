package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-table/internal/domain"
	"github.com/Clark-Hu/movie-table/internal/edit"
)

func TestParseFormRating(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", domain.DefaultRating, false},
		{"0", 0, false},
		{"10", 10, false},
		{" 7 ", 7, false},
		{"11", 0, true},
		{"-1", 0, true},
		{"7.5", 0, true},
		{"seven", 0, true},
	}
	for _, tt := range tests {
		got, err := parseFormRating(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseFormRating(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Fatalf("parseFormRating(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func FuzzParseFormRating(f *testing.F) {
	for _, seed := range []string{"", "5", "10", "-3", "1e2", "٣"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, raw string) {
		got, err := parseFormRating(raw)
		if err != nil {
			return
		}
		if !domain.ValidateRating(got) {
			t.Fatalf("parseFormRating(%q) accepted out-of-range %d", raw, got)
		}
	})
}

func TestFormAnswers(t *testing.T) {
	answers := formAnswers(url.Values{
		"title":         {"Heat"},
		"rating":        {"4"},
		"cancel_rating": {"1"},
	})
	if got := answers[edit.FieldTitle]; got.Cancel || got.Text != "Heat" {
		t.Fatalf("title answer = %+v", got)
	}
	if got := answers[edit.FieldRating]; !got.Cancel {
		t.Fatalf("rating answer = %+v, want cancel", got)
	}

	empty := formAnswers(url.Values{})
	if len(empty) != 0 {
		t.Fatalf("answers for empty form = %+v", empty)
	}
}

func TestDecodeRowParam(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"12", 12, false},
		{"", 0, true},
		{"-1", 0, true},
		{"one", 0, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("row", tt.raw)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		got, err := decodeRowParam(req)
		if (err != nil) != tt.wantErr {
			t.Fatalf("decodeRowParam(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Fatalf("decodeRowParam(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestSessionLocksSerialize(t *testing.T) {
	locks := newSessionLocks()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("session")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
	if len(locks.locks) != 0 {
		t.Fatalf("locks not released: %d left", len(locks.locks))
	}
}
