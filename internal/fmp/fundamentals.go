package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Quote carries the market-cap portion of the quote endpoint. The figure is
// already expressed in USD upstream.
type Quote struct {
	MarketCap float64
}

// IncomeStatement carries the latest quarterly income figures in their
// reported currency. An empty Currency means the filing reported none.
type IncomeStatement struct {
	GrossProfit float64
	Revenue     float64
	Currency    string
}

// BalanceSheet carries the latest quarterly book value in its reported
// currency.
type BalanceSheet struct {
	Book     float64
	Currency string
}

// FetchQuote retrieves the market cap for a symbol. When the endpoint has no
// data the sentinel is substituted and a warning logged; only genuine
// request failures error.
func (c *Client) FetchQuote(ctx context.Context, symbol string, sentinel float64) (Quote, error) {
	doc, err := c.firstElement(ctx, "/api/v3/quote/"+url.PathEscape(symbol), nil)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		MarketCap: c.numberField(doc, symbol, "marketCap", sentinel),
	}, nil
}

// FetchIncomeStatement retrieves the latest quarterly income statement for a
// symbol. Missing profit or revenue individually degrade to zero with a
// warning; a missing currency is permitted.
func (c *Client) FetchIncomeStatement(ctx context.Context, symbol string) (IncomeStatement, error) {
	doc, err := c.firstElement(ctx, "/api/v3/income-statement/"+url.PathEscape(symbol), quarterlyQuery())
	if err != nil {
		return IncomeStatement{}, err
	}

	return IncomeStatement{
		GrossProfit: c.numberField(doc, symbol, "grossProfit", 0),
		Revenue:     c.numberField(doc, symbol, "revenue", 0),
		Currency:    stringField(doc, "reportedCurrency"),
	}, nil
}

// FetchBalanceSheet retrieves the latest quarterly book value for a symbol,
// with the same missing-value policy as FetchQuote.
func (c *Client) FetchBalanceSheet(ctx context.Context, symbol string, sentinel float64) (BalanceSheet, error) {
	doc, err := c.firstElement(ctx, "/api/v3/balance-sheet-statement/"+url.PathEscape(symbol), quarterlyQuery())
	if err != nil {
		return BalanceSheet{}, err
	}

	return BalanceSheet{
		Book:     c.numberField(doc, symbol, "totalStockholdersEquity", sentinel),
		Currency: stringField(doc, "reportedCurrency"),
	}, nil
}

func quarterlyQuery() url.Values {
	q := url.Values{}
	q.Set("period", "quarter")
	q.Set("limit", "1")
	return q
}

// firstElement fetches an endpoint whose response is an array of documents
// and returns the first one, or nil when the array is empty.
func (c *Client) firstElement(ctx context.Context, path string, query url.Values) (map[string]json.RawMessage, error) {
	raw, err := c.getJSON(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var elements []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if len(elements) == 0 {
		return nil, nil
	}
	return elements[0], nil
}

// numberField extracts a numeric field from a document, substituting the
// sentinel when the document or field is absent.
func (c *Client) numberField(doc map[string]json.RawMessage, symbol, field string, sentinel float64) float64 {
	if raw, ok := doc[field]; ok && string(raw) != "null" {
		var value flexFloat64
		if err := json.Unmarshal(raw, &value); err == nil {
			return float64(value)
		}
	}

	c.logger.Warn().Str("symbol", symbol).Str("field", field).Float64("sentinel", sentinel).Msg("no value reported")
	return sentinel
}

func stringField(doc map[string]json.RawMessage, field string) string {
	raw, ok := doc[field]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}
