package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stockdice/internal/config"
	"stockdice/internal/storage"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	symbolsFile := filepath.Join(dir, "allsymbols.txt")
	if err := os.WriteFile(symbolsFile, []byte("AAPL\nIBM\nMSFT\n"), 0o644); err != nil {
		t.Fatalf("write symbols file: %v", err)
	}

	return &config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "stockdice.sqlite")},
		FMP: config.FMPConfig{
			APIKey:         "test-key",
			BaseURL:        baseURL,
			RequestTimeout: time.Second,
		},
		Pacing: config.PacingConfig{BatchSize: 10, BatchWait: time.Millisecond},
		Data:   config.DataConfig{SymbolsFile: symbolsFile},
		Forex:  config.ForexConfig{SnapshotFile: filepath.Join(dir, "forex.csv")},
		Picker: config.PickerConfig{BookWeight: 1, ProfitWeight: 1, RevenueWeight: 3, MarketCapWeight: 5},
	}
}

func quoteServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/api/v3/quote/")
		mu.Lock()
		requested = append(requested, symbol)
		mu.Unlock()
		_ = json.NewEncoder(w).Encode([]map[string]any{{"symbol": symbol, "marketCap": 7.0}})
	}))
	t.Cleanup(srv.Close)

	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), requested...)
	}
}

func TestDownloadFetchesOnlyStaleAndMissingSymbols(t *testing.T) {
	ctx := context.Background()
	srv, requested := quoteServer(t)
	cfg := testConfig(t, srv.URL)

	// Seed one fresh row (AAPL) and one stale row (IBM); MSFT is absent.
	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	freshTS := time.Now().UnixMicro()
	staleTS := time.Now().Add(-48 * time.Hour).UnixMicro()
	if err := store.UpsertQuote(ctx, storage.QuoteRow{Symbol: "AAPL", MarketCapUSD: 123, LastUpdatedUS: &freshTS}); err != nil {
		t.Fatalf("seed AAPL: %v", err)
	}
	if err := store.UpsertQuote(ctx, storage.QuoteRow{Symbol: "IBM", MarketCapUSD: 456, LastUpdatedUS: &staleTS}); err != nil {
		t.Fatalf("seed IBM: %v", err)
	}
	store.Close()

	a := NewApp(cfg, zerolog.Nop())
	if err := a.Download(ctx, DownloadOptions{Kind: storage.KindQuote, MaxAge: 24 * time.Hour}); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	got := requested()
	if len(got) != 2 || got[0] != "IBM" || got[1] != "MSFT" {
		t.Fatalf("fetched %v, expected only the stale and missing symbols [IBM MSFT]", got)
	}

	// The fresh row must be untouched, the others overwritten.
	store, err = storage.Open(cfg.Database.Path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()

	screen, err := store.Screen(ctx)
	if err != nil {
		t.Fatalf("Screen returned error: %v", err)
	}
	caps := make(map[string]float64, len(screen))
	for _, row := range screen {
		caps[row.Symbol] = row.MarketCapUSD
	}
	if caps["AAPL"] != 123 {
		t.Fatalf("fresh AAPL row was overwritten: %v", caps["AAPL"])
	}
	if caps["IBM"] != 7 || caps["MSFT"] != 7 {
		t.Fatalf("stale/missing rows not refreshed: %v", caps)
	}
}

func TestDownloadResumesFromStartSymbol(t *testing.T) {
	ctx := context.Background()
	srv, requested := quoteServer(t)
	cfg := testConfig(t, srv.URL)

	a := NewApp(cfg, zerolog.Nop())
	opts := DownloadOptions{Kind: storage.KindQuote, Start: "IBM", MaxAge: 24 * time.Hour}
	if err := a.Download(ctx, opts); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	got := requested()
	if len(got) != 2 || got[0] != "IBM" || got[1] != "MSFT" {
		t.Fatalf("fetched %v, expected resume from IBM", got)
	}
}
