package storage

// QuoteRow is one persisted market-cap observation. Market cap is already
// quoted in USD by the upstream API. A nil LastUpdatedUS marks a row loaded
// from a legacy CSV snapshot; the freshness gate treats it as stale.
type QuoteRow struct {
	Symbol        string
	MarketCapUSD  float64
	LastUpdatedUS *int64
}

// BalanceSheetRow is one persisted book-value observation in its reported
// currency.
type BalanceSheetRow struct {
	Symbol        string
	Book          float64
	Currency      string
	LastUpdatedUS *int64
}

// IncomeRow is one persisted income-statement observation in its reported
// currency.
type IncomeRow struct {
	Symbol        string
	Profit        float64
	Revenue       float64
	Currency      string
	LastUpdatedUS *int64
}

// ScreenRow joins the three fundamentals tables for one symbol. Sides the
// symbol never appeared on read as zero values.
type ScreenRow struct {
	Symbol               string
	MarketCapUSD         float64
	Book                 float64
	BalanceSheetCurrency string
	Profit               float64
	Revenue              float64
	IncomeCurrency       string
}
