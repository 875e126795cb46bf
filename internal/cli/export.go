package cli

import (
	"github.com/spf13/cobra"

	"stockdice/internal/app"
)

var (
	exportPNGPath string
	exportCSVPath string
	exportTopN    int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the weighted screen as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			PNGPath: exportPNGPath,
			CSVPath: exportCSVPath,
			TopN:    exportTopN,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportTopN, "top", 25, "Number of symbols to chart")
}
