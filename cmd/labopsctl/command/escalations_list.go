package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openlabs-org/labops/rejection"
)

var escalationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tests awaiting supervisor review",
	Long:  "The list command is used to retrieve the escalation review queue",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listEscalations) },
}

func init() {
	escalationsCmd.AddCommand(escalationsListCmd)
}

func listEscalations(resolver rejection.Resolver) error {
	queue, err := resolver.Queue(context.TODO())
	if err != nil {
		return err
	}

	for _, escalated := range queue {
		name := "(empty)"
		if escalated.TestName != nil {
			name = *escalated.TestName
		}

		fmt.Printf("%s %s %s retests=%v recollects=%v %s\n",
			escalated.OrderId, escalated.TestCode, name,
			escalated.Retests, escalated.Recollects, escalated.Reason)
	}
	fmt.Printf("Found %v escalated tests\n", len(queue))

	return nil
}
