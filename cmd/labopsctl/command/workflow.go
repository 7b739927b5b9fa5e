package command

import (
	"github.com/spf13/cobra"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Workflow metrics",
	Long:  "The workflow command is used to inspect daily workflow metrics",
}

func init() {
	rootCmd.AddCommand(workflowCmd)
}
