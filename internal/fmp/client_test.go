package fmp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestClient(baseURL string) *Client {
	c := NewClient(Options{APIKey: "test-key", BaseURL: baseURL, Timeout: time.Second}, noopLogger())
	c.statusBackoff = 5 * time.Millisecond
	return c
}

func TestClientRequiresAPIKey(t *testing.T) {
	c := NewClient(Options{}, noopLogger())
	if _, err := c.getJSON(context.Background(), "/api/v3/quote/AAPL", nil); err == nil {
		t.Fatal("missing api key should error")
	}
}

func TestClientRetriesAfterTooManyRequests(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"marketCap": 42.0}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	quote, err := c.FetchQuote(context.Background(), "AAPL", 0)
	if err != nil {
		t.Fatalf("FetchQuote returned error: %v", err)
	}

	if got := calls.Load(); got != 3 {
		t.Fatalf("server saw %d requests, expected 3 (two rate-limited, one success)", got)
	}
	if quote.MarketCap != 42.0 {
		t.Fatalf("MarketCap = %v, expected 42", quote.MarketCap)
	}
}

func TestClientHonorsRateLimitHintBody(t *testing.T) {
	hinted := 30 * time.Millisecond
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"X-Rate-Limit-Retry-After-Milliseconds": hinted.Milliseconds(),
			})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"marketCap": 1.0}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	start := time.Now()
	if _, err := c.FetchQuote(context.Background(), "AAPL", 0); err != nil {
		t.Fatalf("FetchQuote returned error: %v", err)
	}

	if elapsed := time.Since(start); elapsed < hinted {
		t.Fatalf("elapsed %v, expected at least the hinted backoff %v", elapsed, hinted)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server saw %d requests, expected 2", got)
	}
}

func TestClientPropagatesHTTPError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"Error Message": "invalid key"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.FetchQuote(context.Background(), "AAPL", 0); err == nil {
		t.Fatal("non-rate-limit failure should propagate")
	}

	// No retry on anything but a rate-limit signal.
	if got := calls.Load(); got != 1 {
		t.Fatalf("server saw %d requests, expected 1", got)
	}
}

func TestClientSendsAPIKey(t *testing.T) {
	var apikey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apikey = r.URL.Query().Get("apikey")
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.FetchQuote(context.Background(), "AAPL", 0); err != nil {
		t.Fatalf("FetchQuote returned error: %v", err)
	}
	if apikey != "test-key" {
		t.Fatalf("apikey query parameter = %q, expected test-key", apikey)
	}
}
