package cli

import (
	"github.com/spf13/cobra"
)

var valuesCmd = &cobra.Command{
	Use:   "values",
	Short: "Write book value, market cap, and their geometric mean as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().DownloadValues(cmd.Context())
	},
}
