package cli

import (
	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Draw one symbol at random, weighted by fundamentals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Pick(cmd.Context())
	},
}
