package cli

import (
	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Merge the NASDAQ directory files into the symbol list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().BuildSymbolList(cmd.Context())
	},
}
