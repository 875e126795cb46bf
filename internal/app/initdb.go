package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"stockdice/internal/storage"
)

// InitTable drops and recreates one fundamentals table, optionally
// bulk-loading a legacy CSV snapshot. Loaded rows carry no update timestamp,
// so the next download refreshes them all.
func (a *App) InitTable(ctx context.Context, opts InitOptions) error {
	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Reset(ctx, opts.Kind); err != nil {
		return err
	}
	a.Logger.Info().Str("table", string(opts.Kind)).Msg("table reinitialised")

	if opts.CSVPath == "" {
		return nil
	}
	return a.loadTableCSV(ctx, store, opts.Kind, opts.CSVPath)
}

// loadTableCSV upserts CSV records in file order; duplicate symbols resolve
// last-write-wins, matching the upsert contract.
func (a *App) loadTableCSV(ctx context.Context, store *storage.Store, kind storage.Kind, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for i, record := range records {
		if err := a.upsertCSVRecord(ctx, store, kind, record); err != nil {
			return fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
	}

	a.Logger.Info().Str("table", string(kind)).Int("rows", len(records)).Str("path", path).Msg("csv snapshot loaded")
	return nil
}

func (a *App) upsertCSVRecord(ctx context.Context, store *storage.Store, kind storage.Kind, record []string) error {
	switch kind {
	case storage.KindQuote:
		if len(record) != 2 {
			return fmt.Errorf("expected symbol,market_cap_usd, got %d fields", len(record))
		}
		marketCap, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return err
		}
		return store.UpsertQuote(ctx, storage.QuoteRow{Symbol: record[0], MarketCapUSD: marketCap})

	case storage.KindBalanceSheet:
		if len(record) != 3 {
			return fmt.Errorf("expected symbol,book,currency, got %d fields", len(record))
		}
		book, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return err
		}
		return store.UpsertBalanceSheet(ctx, storage.BalanceSheetRow{Symbol: record[0], Book: book, Currency: record[2]})

	case storage.KindIncome:
		if len(record) != 4 {
			return fmt.Errorf("expected symbol,profit,revenue,currency, got %d fields", len(record))
		}
		profit, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return err
		}
		revenue, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return err
		}
		return store.UpsertIncome(ctx, storage.IncomeRow{Symbol: record[0], Profit: profit, Revenue: revenue, Currency: record[3]})
	}

	return fmt.Errorf("unknown table %q", kind)
}
