package fmp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchQuoteEmptyResponseUsesSentinel(t *testing.T) {
	srv := jsonServer(t, `[]`)

	c := newTestClient(srv.URL)
	quote, err := c.FetchQuote(context.Background(), "GHOST", 1)
	if err != nil {
		t.Fatalf("empty response should degrade, not error: %v", err)
	}
	if quote.MarketCap != 1 {
		t.Fatalf("MarketCap = %v, expected sentinel 1", quote.MarketCap)
	}
}

func TestFetchQuoteNullFieldUsesSentinel(t *testing.T) {
	srv := jsonServer(t, `[{"symbol": "AAPL", "marketCap": null}]`)

	c := newTestClient(srv.URL)
	quote, err := c.FetchQuote(context.Background(), "AAPL", 0)
	if err != nil {
		t.Fatalf("FetchQuote returned error: %v", err)
	}
	if quote.MarketCap != 0 {
		t.Fatalf("MarketCap = %v, expected sentinel 0", quote.MarketCap)
	}
}

func TestFetchIncomeStatementFields(t *testing.T) {
	srv := jsonServer(t, `[{"grossProfit": 10.5, "revenue": 99, "reportedCurrency": "EUR"}]`)

	c := newTestClient(srv.URL)
	income, err := c.FetchIncomeStatement(context.Background(), "SAP")
	if err != nil {
		t.Fatalf("FetchIncomeStatement returned error: %v", err)
	}
	if income.GrossProfit != 10.5 || income.Revenue != 99 || income.Currency != "EUR" {
		t.Fatalf("unexpected income statement: %+v", income)
	}
}

func TestFetchIncomeStatementPartialFields(t *testing.T) {
	srv := jsonServer(t, `[{"revenue": 99}]`)

	c := newTestClient(srv.URL)
	income, err := c.FetchIncomeStatement(context.Background(), "SAP")
	if err != nil {
		t.Fatalf("FetchIncomeStatement returned error: %v", err)
	}
	if income.GrossProfit != 0 {
		t.Fatalf("missing profit should default to 0, got %v", income.GrossProfit)
	}
	if income.Revenue != 99 {
		t.Fatalf("Revenue = %v, expected 99", income.Revenue)
	}
	if income.Currency != "" {
		t.Fatalf("missing currency should stay empty, got %q", income.Currency)
	}
}

func TestFetchBalanceSheetFields(t *testing.T) {
	srv := jsonServer(t, `[{"totalStockholdersEquity": "12345.5", "reportedCurrency": "JPY"}]`)

	c := newTestClient(srv.URL)
	sheet, err := c.FetchBalanceSheet(context.Background(), "TM", 0)
	if err != nil {
		t.Fatalf("FetchBalanceSheet returned error: %v", err)
	}
	if sheet.Book != 12345.5 || sheet.Currency != "JPY" {
		t.Fatalf("unexpected balance sheet: %+v", sheet)
	}
}

func TestFetchForexQuotes(t *testing.T) {
	srv := jsonServer(t, `[
		{"ticker": "EUR/USD", "bid": "1.10", "ask": 1.20},
		{"ticker": "USD/JPY", "bid": null, "ask": 150.5}
	]`)

	c := newTestClient(srv.URL)
	quotes, err := c.FetchForexQuotes(context.Background())
	if err != nil {
		t.Fatalf("FetchForexQuotes returned error: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("decoded %d quotes, expected 2", len(quotes))
	}
	if quotes[0].Bid == nil || *quotes[0].Bid != 1.10 {
		t.Fatalf("string bid should decode: %+v", quotes[0])
	}
	if quotes[1].Bid != nil {
		t.Fatalf("null bid should decode to nil: %+v", quotes[1])
	}
}
