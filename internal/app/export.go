package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Export renders the weighted screen as CSV and/or a PNG bar chart of the
// heaviest symbols.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

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
		a.Logger.Info().Msg("nothing to export; screen is empty")
		return nil
	}

	sortByWeight(entries)
	a.Logger.Info().Int("symbols", len(entries)).Msg("exporting screen")

	if opts.CSVPath != "" {
		if err := writeScreenCSV(opts.CSVPath, entries); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		top := entries
		if opts.TopN > 0 && len(top) > opts.TopN {
			top = top[:opts.TopN]
		}
		if err := writeScreenPNG(opts.PNGPath, top); err != nil {
			return err
		}
	}

	return nil
}

func writeScreenCSV(path string, entries []screenEntry) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"symbol", "market_cap_usd", "usd_book", "usd_profit", "usd_revenue", "weight"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, entry := range entries {
		record := []string{
			entry.Symbol,
			formatFloat(entry.MarketCap),
			formatFloat(entry.USDBook),
			formatFloat(entry.USDProfit),
			formatFloat(entry.USDRevenue),
			formatFloat(entry.Weight),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeScreenPNG(path string, entries []screenEntry) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	bars := make([]chart.Value, 0, len(entries))
	for _, entry := range entries {
		bars = append(bars, chart.Value{Label: entry.Symbol, Value: entry.Weight})
	}

	graph := chart.BarChart{
		Title:    "Sampling weight by symbol",
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		Bars:     bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}
