package command

import (
	"github.com/spf13/cobra"
)

var escalationsCmd = &cobra.Command{
	Use:   "escalations",
	Short: "Escalated tests",
	Long:  "The escalations command is used to inspect tests awaiting supervisor review",
}

func init() {
	rootCmd.AddCommand(escalationsCmd)
}
