package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// Show prints the highest-weighted symbols of the current screen.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
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
		fmt.Fprintln(os.Stdout, "no fundamentals stored")
		return nil
	}

	sortByWeight(entries)
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Symbol\tMarketCap\tBook(USD)\tProfit(USD)\tRevenue(USD)\tWeight")
	for _, entry := range entries {
		fmt.Fprintf(
			writer,
			"%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			entry.Symbol,
			entry.MarketCap,
			entry.USDBook,
			entry.USDProfit,
			entry.USDRevenue,
			entry.Weight,
		)
	}

	writer.Flush()
	return nil
}
