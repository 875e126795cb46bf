package app

import (
	"context"

	"stockdice/internal/symbols"
)

// BuildSymbolList merges the NASDAQ symbol-directory files into the single
// ticker list the download commands iterate. The directory files themselves
// come from ftp.nasdaqtrader.com; fetching them is out of scope here.
func (a *App) BuildSymbolList(ctx context.Context) error {
	merged, err := symbols.MergeDirectory(a.Config.Data.NasdaqListedFile, a.Config.Data.OtherListedFile)
	if err != nil {
		return err
	}

	if err := symbols.WriteList(a.Config.Data.SymbolsFile, merged); err != nil {
		return err
	}

	a.Logger.Info().
		Int("symbols", len(merged)).
		Str("path", a.Config.Data.SymbolsFile).
		Msg("symbol list written")
	return nil
}
