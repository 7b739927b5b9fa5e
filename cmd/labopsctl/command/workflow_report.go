package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openlabs-org/labops/workflow"
)

var workflowReportParams = struct {
	Out  string
	Date string
	Tz   string
	Days int
}{}

var workflowReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the workflow metrics workbook",
	Long:  "The report command generates the daily workflow metrics workbook as an xlsx file",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(generateWorkflowReport) },
}

func init() {
	workflowReportCmd.Flags().StringVar(&workflowReportParams.Out, "out", "workflow.xlsx", "Path of the workbook to write")
	workflowReportCmd.Flags().StringVar(&workflowReportParams.Date, "date", "", "Reference date formatted as 2006-01-02, defaults to today")
	workflowReportCmd.Flags().StringVar(&workflowReportParams.Tz, "tz", "UTC", "Timezone of the lab day")
	workflowReportCmd.Flags().IntVar(&workflowReportParams.Days, "days", workflow.DefaultTrendDays, "Number of days in the trend window")

	workflowCmd.AddCommand(workflowReportCmd)
}

func generateWorkflowReport(service workflow.Service) error {
	location, err := time.LoadLocation(workflowReportParams.Tz)
	if err != nil {
		return fmt.Errorf("unknown timezone %q", workflowReportParams.Tz)
	}

	day := workflow.Today(location)
	if workflowReportParams.Date != "" {
		reference, err := time.ParseInLocation("2006-01-02", workflowReportParams.Date, location)
		if err != nil {
			return fmt.Errorf("date must be formatted as 2006-01-02")
		}
		day = workflow.NewDay(reference, location)
	}

	file, err := service.Report(context.TODO(), day, workflowReportParams.Days)
	if err != nil {
		return err
	}
	if err := file.Save(workflowReportParams.Out); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", workflowReportParams.Out)
	return nil
}
