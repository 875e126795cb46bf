package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"stockdice/internal/symbols"
)

// DownloadValues writes the one-shot CSV variant: book value, market cap,
// and their geometric mean per symbol, overwriting the output each run. The
// sentinel here is 1, not 0, because the figures feed a geometric mean.
func (a *App) DownloadValues(ctx context.Context) error {
	list, err := symbols.LoadList(a.Config.Data.SymbolsFile)
	if err != nil {
		return fmt.Errorf("load symbol list: %w", err)
	}

	path := a.Config.Data.ValuesFile
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

	client := a.newClient()
	runErr := a.newPacer().Run(ctx, list, func(ctx context.Context, symbol string) error {
		sheet, err := client.FetchBalanceSheet(ctx, symbol, 1)
		if err != nil {
			return fmt.Errorf("fetch balance sheet for %s: %w", symbol, err)
		}
		quote, err := client.FetchQuote(ctx, symbol, 1)
		if err != nil {
			return fmt.Errorf("fetch quote for %s: %w", symbol, err)
		}

		average := geometricMean(math.Max(1, sheet.Book), math.Max(1, quote.MarketCap))
		return writer.Write([]string{
			symbol,
			formatFloat(sheet.Book),
			formatFloat(quote.MarketCap),
			formatFloat(average),
		})
	})
	if runErr != nil {
		return runErr
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	a.Logger.Info().Int("symbols", len(list)).Str("path", path).Msg("values written")
	return nil
}

func geometricMean(a, b float64) float64 {
	return math.Exp(0.5 * (math.Log(a) + math.Log(b)))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
