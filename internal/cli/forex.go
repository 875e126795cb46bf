package cli

import (
	"github.com/spf13/cobra"
)

var forexCmd = &cobra.Command{
	Use:   "forex",
	Short: "Download current forex pairs to the local snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().DownloadForex(cmd.Context())
	},
}
