package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testCore(t *testing.T) *core {
	t.Helper()
	c := newCore()
	// No real waiting in tests.
	WithRateLimitPolicy(time.Millisecond, 3)(&c)
	WithTimeout(5 * time.Second)(&c)
	return &c
}

func TestFetchPage_RateLimitThenSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := testCore(t)
	body, err := c.fetchPage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetchPage() error = %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q, want success payload", body)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2 (one 429, one success)", got)
	}
}

func TestFetchPage_RetryBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := testCore(t)
	_, err := c.fetchPage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("fetchPage() error = nil, want retries-exhausted error")
	}
	if !strings.Contains(err.Error(), "retries exhausted") {
		t.Errorf("error = %v, want retries exhausted", err)
	}
	// maxRateRetries=3 means 1 initial request plus 3 retries.
	if got := calls.Load(); got != 4 {
		t.Errorf("server calls = %d, want 4", got)
	}
}

func TestFetchPage_NonRetryableAbortsImmediately(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := testCore(t)
	_, err := c.fetchPage(context.Background(), server.URL)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Fatalf("error = %v, want APIError 404", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1 (no retry on 404)", got)
	}
}

func TestFetchPage_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newCore()
	WithRateLimitPolicy(time.Hour, 3)(&c)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.fetchPage(ctx, server.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context deadline", err)
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 429, Message: "Too Many Requests"}
	if !err.IsRateLimit() {
		t.Error("IsRateLimit() = false for 429")
	}
	if got, want := err.Error(), "upstream api error 429: Too Many Requests"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if (&APIError{StatusCode: 500}).IsRateLimit() {
		t.Error("IsRateLimit() = true for 500")
	}
}
