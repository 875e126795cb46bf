// Package forex converts reported monetary figures to USD using a snapshot
// of currency-pair quotes.
package forex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency indicates a currency code with no conversion rate.
// Conversion never falls back silently; an unmapped code is a data-quality
// problem the caller must see.
var ErrUnknownCurrency = errors.New("forex: unknown currency")

// DefaultProxies substitutes rates for currencies the pair feed lacks.
// CNY is reported on some income statements but absent from the feed;
// offshore CNH tracks it closely enough for screening purposes.
var DefaultProxies = map[string]string{"CNY": "CNH"}

var two = decimal.NewFromInt(2)

// Pair is one bid/ask quote for a "XXX/YYY" currency pair. A nil bid or ask
// marks the quote as unusable.
type Pair struct {
	Ticker string
	Bid    *float64
	Ask    *float64
}

// Table maps ISO-4217 currency codes to their USD conversion rate.
type Table struct {
	rates map[string]decimal.Decimal
}

// Build constructs a Table from pair quotes. For "XXX/USD" the rate is the
// bid/ask midpoint; for "USD/XXX" its reciprocal. Pairs missing a bid or ask
// are skipped. After the primary pass, each proxies entry copies the proxy's
// rate to the missing currency. USD itself always maps to 1.
func Build(pairs []Pair, proxies map[string]string) *Table {
	rates := map[string]decimal.Decimal{"USD": decimal.NewFromInt(1)}

	for _, pair := range pairs {
		if pair.Bid == nil || pair.Ask == nil {
			continue
		}
		from, to, ok := strings.Cut(pair.Ticker, "/")
		if !ok {
			continue
		}

		mid := decimal.NewFromFloat(*pair.Bid).Add(decimal.NewFromFloat(*pair.Ask)).Div(two)
		if mid.IsZero() {
			continue
		}

		switch {
		case to == "USD":
			rates[from] = mid
		case from == "USD":
			rates[to] = decimal.NewFromInt(1).Div(mid)
		}
	}

	for missing, proxy := range proxies {
		if _, ok := rates[missing]; ok {
			continue
		}
		if rate, ok := rates[proxy]; ok {
			rates[missing] = rate
		}
	}

	return &Table{rates: rates}
}

// Rate returns the USD conversion rate for a currency code.
func (t *Table) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.rates[code]
	return rate, ok
}

// Len reports the number of mapped currencies.
func (t *Table) Len() int {
	return len(t.rates)
}

// ToUSD converts value from the given currency to USD. An empty, "None", or
// "unknown" code returns the value unchanged: upstream reports no currency
// exactly when it reported no value, so the figure is already the sentinel
// and must not be scaled.
func (t *Table) ToUSD(code string, value float64) (float64, error) {
	if code == "" || code == "None" || code == "unknown" {
		return value, nil
	}

	rate, ok := t.rates[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	return rate.Mul(decimal.NewFromFloat(value)).InexactFloat64(), nil
}
