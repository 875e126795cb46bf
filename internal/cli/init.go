package cli

import (
	"github.com/spf13/cobra"

	"stockdice/internal/app"
	"stockdice/internal/storage"
)

var initCSVPath string

var initCmd = &cobra.Command{
	Use:   "init-db <table>",
	Short: "Drop and recreate one fundamentals table (quote, balance-sheet, or income)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := storage.ParseKind(args[0])
		if err != nil {
			return err
		}

		opts := app.InitOptions{
			Kind:    kind,
			CSVPath: initCSVPath,
		}

		return getApp().InitTable(cmd.Context(), opts)
	},
}

func init() {
	initCmd.Flags().StringVar(&initCSVPath, "csv", "", "Bulk-load this CSV snapshot after the reset")
}
