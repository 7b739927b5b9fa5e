package command

import (
	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Lab orders",
	Long:  "The orders command is used to inspect lab orders",
}

func init() {
	rootCmd.AddCommand(ordersCmd)
}
