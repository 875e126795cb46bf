package app

import (
	"context"

	"stockdice/internal/forex"
)

// DownloadForex captures the current currency-pair quotes as the forex
// snapshot used by later USD conversions. The snapshot is overwritten whole;
// there is no freshness gate because the feed is one request.
func (a *App) DownloadForex(ctx context.Context) error {
	quotes, err := a.newClient().FetchForexQuotes(ctx)
	if err != nil {
		return err
	}

	pairs := make([]forex.Pair, 0, len(quotes))
	for _, quote := range quotes {
		pairs = append(pairs, forex.Pair{Ticker: quote.Ticker, Bid: quote.Bid, Ask: quote.Ask})
	}

	if err := forex.WriteSnapshot(a.Config.Forex.SnapshotFile, pairs); err != nil {
		return err
	}

	a.Logger.Info().
		Int("pairs", len(pairs)).
		Str("path", a.Config.Forex.SnapshotFile).
		Msg("forex snapshot written")
	return nil
}
