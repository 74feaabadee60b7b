package ratelimiter_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/instasorteo/contest-stats/internal/ratelimiter"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLimiter_RejectsAfterBurst(t *testing.T) {
	// One token per second with a burst of two: the third immediate request
	// finds the bucket empty.
	h := ratelimiter.New(1, 2).Middleware(okHandler())

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
		if rec.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}
}

func TestLimiter_RejectionBody(t *testing.T) {
	h := ratelimiter.New(1, 1).Middleware(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"error\":\"rate limit exceeded\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestLimiter_DisabledWhenRateIsZero(t *testing.T) {
	l := ratelimiter.New(0, 0)
	if l != nil {
		t.Fatal("expected nil limiter for rate 0")
	}

	h := l.Middleware(okHandler())
	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 with limiting disabled, got %d", i, rec.Code)
		}
	}
}
