package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockdice/internal/app"
	"stockdice/internal/storage"
	"stockdice/internal/timespan"
)

var (
	quoteCmd        = newDownloadCmd("quote", "Download market capitalizations", storage.KindQuote)
	balanceSheetCmd = newDownloadCmd("balance-sheet", "Download balance sheets", storage.KindBalanceSheet)
	incomeCmd       = newDownloadCmd("income", "Download income statements", storage.KindIncome)
)

// newDownloadCmd builds one fundamentals download subcommand. The three
// commands share flags and behaviour and differ only in the target table.
func newDownloadCmd(use, short string, kind storage.Kind) *cobra.Command {
	var (
		start  string
		maxAge string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := timespan.Parse(maxAge)
			if err != nil {
				return fmt.Errorf("invalid --max-age value: %w", err)
			}

			opts := app.DownloadOptions{
				Kind:   kind,
				Start:  start,
				MaxAge: age,
			}

			return getApp().Download(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Resume the symbol list from this ticker")
	cmd.Flags().StringVar(&maxAge, "max-age", "1d", "Skip rows newer than this age (e.g. 12h, 1d, 1w)")

	return cmd
}
