package fmp

import (
	"context"
	"encoding/json"
	"fmt"
)

// ForexQuote is one currency-pair quote from the fx endpoint. Bid and ask
// are nil when the feed has no price for the pair.
type ForexQuote struct {
	Ticker string
	Bid    *float64
	Ask    *float64
}

func (q *ForexQuote) UnmarshalJSON(data []byte) error {
	var raw struct {
		Ticker string       `json:"ticker"`
		Bid    *flexFloat64 `json:"bid"`
		Ask    *flexFloat64 `json:"ask"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	q.Ticker = raw.Ticker
	q.Bid = toFloatPtr(raw.Bid)
	q.Ask = toFloatPtr(raw.Ask)
	return nil
}

func toFloatPtr(f *flexFloat64) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

// FetchForexQuotes retrieves the full currency-pair list.
func (c *Client) FetchForexQuotes(ctx context.Context) ([]ForexQuote, error) {
	raw, err := c.getJSON(ctx, "/api/v3/fx", nil)
	if err != nil {
		return nil, err
	}

	var quotes []ForexQuote
	if err := json.Unmarshal(raw, &quotes); err != nil {
		return nil, fmt.Errorf("decode fx response: %w", err)
	}
	return quotes, nil
}
