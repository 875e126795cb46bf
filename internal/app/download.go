package app

import (
	"context"
	"fmt"
	"time"

	"stockdice/internal/storage"
	"stockdice/internal/symbols"
)

// Download refreshes one fundamentals table. Symbols with a row newer than
// now-MaxAge are skipped without touching the network, which keeps reruns
// after an aborted batch cheap.
func (a *App) Download(ctx context.Context, opts DownloadOptions) error {
	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	list, err := symbols.LoadList(a.Config.Data.SymbolsFile)
	if err != nil {
		return fmt.Errorf("load symbol list: %w", err)
	}
	if opts.Start != "" {
		list = resumeFrom(list, opts.Start)
	}

	// One cutoff per run keeps freshness decisions consistent across the
	// whole batch.
	cutoff := time.Now().Add(-opts.MaxAge).UnixMicro()

	client := a.newClient()
	var fetched, skipped int

	runErr := a.newPacer().Run(ctx, list, func(ctx context.Context, symbol string) error {
		fresh, err := store.IsFresh(ctx, opts.Kind, symbol, cutoff)
		if err != nil {
			return err
		}
		if fresh {
			skipped++
			a.Logger.Debug().Str("symbol", symbol).Msg("still fresh; skipping")
			return nil
		}

		now := time.Now().UnixMicro()
		switch opts.Kind {
		case storage.KindQuote:
			quote, err := client.FetchQuote(ctx, symbol, 0)
			if err != nil {
				return fmt.Errorf("fetch quote for %s: %w", symbol, err)
			}
			if err := store.UpsertQuote(ctx, storage.QuoteRow{
				Symbol:        symbol,
				MarketCapUSD:  quote.MarketCap,
				LastUpdatedUS: &now,
			}); err != nil {
				return err
			}
		case storage.KindBalanceSheet:
			sheet, err := client.FetchBalanceSheet(ctx, symbol, 0)
			if err != nil {
				return fmt.Errorf("fetch balance sheet for %s: %w", symbol, err)
			}
			if err := store.UpsertBalanceSheet(ctx, storage.BalanceSheetRow{
				Symbol:        symbol,
				Book:          sheet.Book,
				Currency:      sheet.Currency,
				LastUpdatedUS: &now,
			}); err != nil {
				return err
			}
		case storage.KindIncome:
			income, err := client.FetchIncomeStatement(ctx, symbol)
			if err != nil {
				return fmt.Errorf("fetch income statement for %s: %w", symbol, err)
			}
			if err := store.UpsertIncome(ctx, storage.IncomeRow{
				Symbol:        symbol,
				Profit:        income.GrossProfit,
				Revenue:       income.Revenue,
				Currency:      income.Currency,
				LastUpdatedUS: &now,
			}); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown table %q", opts.Kind)
		}

		fetched++
		return nil
	})

	a.Logger.Info().
		Str("table", string(opts.Kind)).
		Int("fetched", fetched).
		Int("skipped", skipped).
		Msg("download finished")

	return runErr
}

func resumeFrom(list []string, start string) []string {
	resumed := make([]string, 0, len(list))
	for _, symbol := range list {
		if symbol >= start {
			resumed = append(resumed, symbol)
		}
	}
	return resumed
}
