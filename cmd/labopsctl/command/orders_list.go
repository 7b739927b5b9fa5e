package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/store"
)

var ordersListParams = struct {
	PatientId  string
	TestStatus string
	BatchSize  int
}{}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lab orders",
	Long:  "The list command is used to retrieve a list of lab orders",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listOrders) },
}

func init() {
	ordersListCmd.Flags().StringVar(&ordersListParams.PatientId, "patient", "", "Only list orders of this patient")
	ordersListCmd.Flags().StringVar(&ordersListParams.TestStatus, "status", "", "Only list orders with a test in this status")
	ordersListCmd.Flags().IntVar(&ordersListParams.BatchSize, "batch-size", 100, "Batch size to use when fetching orders")

	ordersCmd.AddCommand(ordersListCmd)
}

func listOrders(service orders.Service) error {
	filter := &orders.Filter{}
	if ordersListParams.PatientId != "" {
		filter.PatientIds = []string{ordersListParams.PatientId}
	}
	if ordersListParams.TestStatus != "" {
		status := orders.TestStatus(ordersListParams.TestStatus)
		filter.TestStatus = &status
	}

	total := 0
	page := store.DefaultPagination().WithLimit(ordersListParams.BatchSize)
	for {
		list, err := service.List(context.TODO(), filter, page)
		if err != nil {
			return err
		}

		for _, order := range list {
			id := ""
			if order.Id != nil {
				id = order.Id.Hex()
			}
			orderedAt := "(empty)"
			if order.OrderedAt != nil {
				orderedAt = order.OrderedAt.Format("2006-01-02 15:04")
			}

			fmt.Printf("%s %s %s\n", id, order.Priority, orderedAt)
			for _, test := range order.Tests {
				fmt.Printf("  %s %s\n", test.TestCode, test.Status)
			}
			total++
		}

		if len(list) < page.Limit {
			break
		}
		page = page.WithOffset(page.Offset + page.Limit)
	}

	fmt.Printf("Found %v orders\n", total)
	return nil
}
