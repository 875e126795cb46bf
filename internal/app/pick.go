package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"stockdice/internal/storage"
)

// screenEntry is one symbol's USD-normalized fundamentals and its sampling
// weight.
type screenEntry struct {
	Symbol     string
	MarketCap  float64
	USDBook    float64
	USDProfit  float64
	USDRevenue float64
	Weight     float64
}

// Pick draws one symbol at random with probability proportional to its
// blended valuation weight and prints it.
func (a *App) Pick(ctx context.Context) error {
	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	entries, err := a.weightedScreen(ctx, store)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no fundamentals stored; run the download commands first")
	}

	var total float64
	for _, entry := range entries {
		total += entry.Weight
	}

	chosen := entries[len(entries)-1]
	draw := rand.Float64() * total
	for _, entry := range entries {
		draw -= entry.Weight
		if draw <= 0 {
			chosen = entry
			break
		}
	}

	fmt.Fprintf(os.Stdout, "%s\n", chosen.Symbol)
	a.Logger.Info().
		Str("symbol", chosen.Symbol).
		Float64("weight", chosen.Weight).
		Float64("probability", chosen.Weight/total).
		Msg("symbol drawn")
	return nil
}

// weightedScreen joins the fundamentals tables, converts reported figures to
// USD, and computes each symbol's sampling weight. An unmapped currency
// aborts the screen: silently defaulting would corrupt the draw.
func (a *App) weightedScreen(ctx context.Context, store *storage.Store) ([]screenEntry, error) {
	screen, err := store.Screen(ctx)
	if err != nil {
		return nil, err
	}
	if len(screen) == 0 {
		return nil, nil
	}

	table, err := a.loadCurrencyTable()
	if err != nil {
		return nil, err
	}

	weights := a.Config.Picker
	totalWeight := weights.BookWeight + weights.ProfitWeight + weights.RevenueWeight + weights.MarketCapWeight

	entries := make([]screenEntry, 0, len(screen))
	for _, row := range screen {
		book, err := table.ToUSD(row.BalanceSheetCurrency, row.Book)
		if err != nil {
			return nil, fmt.Errorf("convert book value for %s: %w", row.Symbol, err)
		}
		profit, err := table.ToUSD(row.IncomeCurrency, row.Profit)
		if err != nil {
			return nil, fmt.Errorf("convert profit for %s: %w", row.Symbol, err)
		}
		revenue, err := table.ToUSD(row.IncomeCurrency, row.Revenue)
		if err != nil {
			return nil, fmt.Errorf("convert revenue for %s: %w", row.Symbol, err)
		}

		weight := math.Exp((weights.BookWeight*math.Log(math.Max(1, book)) +
			weights.ProfitWeight*math.Log(math.Max(1, profit)) +
			weights.RevenueWeight*math.Log(math.Max(1, revenue)) +
			weights.MarketCapWeight*math.Log(math.Max(1, row.MarketCapUSD))) / totalWeight)

		entries = append(entries, screenEntry{
			Symbol:     row.Symbol,
			MarketCap:  row.MarketCapUSD,
			USDBook:    book,
			USDProfit:  profit,
			USDRevenue: revenue,
			Weight:     weight,
		})
	}

	return entries, nil
}

func sortByWeight(entries []screenEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Symbol < entries[j].Symbol
	})
}
