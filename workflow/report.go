package workflow

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/openlabs-org/labops/alerts"
	"github.com/openlabs-org/labops/pointer"
)

const (
	ReportSheetNameSummary        = "Summary"
	ReportSheetNameFunnel         = "Pipeline Funnel"
	ReportSheetNameTrend          = "Trend"
	ReportSheetNameCriticalAlerts = "Critical Alerts"
)

type ReportData struct {
	GeneratedAt time.Time
	Day         Day
	Counts      Counts
	Trend       []TrendPoint
	Alerts      []alerts.CriticalAlert
}

type Report struct {
	data ReportData
}

func NewReport(data ReportData) Report {
	return Report{data: data}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addSummarySheet,
		r.addFunnelSheet,
		r.addTrendSheet,
		r.addCriticalAlertsSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addSummarySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameSummary)
	if err != nil {
		return err
	}

	sh.AddRow().AddCell().SetValue("Command Center Summary")
	sh.AddRow()

	var currentRow *xlsx.Row
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Report Generated")
	currentRow.AddCell().SetValue(r.data.GeneratedAt.Format(time.RFC3339))
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Reporting Day")
	currentRow.AddCell().SetValue(r.data.Day.Key())
	sh.AddRow()

	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Partially Validated Orders")
	currentRow.AddCell().SetValue(r.data.Counts.PartiallyValidated)
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Escalations Awaiting Review")
	currentRow.AddCell().SetValue(r.data.Counts.EscalationQueue)
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Unnotified Critical Values")
	currentRow.AddCell().SetValue(len(r.data.Alerts))

	return nil
}

func (r Report) addFunnelSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameFunnel)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Stage")
	currentRow.AddCell().SetValue("Completed Today")
	currentRow.AddCell().SetValue("Pending")
	currentRow.AddCell().SetValue("Total")
	currentRow.AddCell().SetValue("% Complete")

	stages := []struct {
		name   string
		counts StageCounts
	}{
		{"Sampling", r.data.Counts.Sampling},
		{"Result Entry", r.data.Counts.Entry},
		{"Validation", r.data.Counts.Validation},
	}
	for _, stage := range stages {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(stage.name)
		currentRow.AddCell().SetValue(stage.counts.CompletedToday)
		currentRow.AddCell().SetValue(stage.counts.Pending)
		currentRow.AddCell().SetValue(stage.counts.Total)
		currentRow.AddCell().SetValue(fmt.Sprintf("%.1f%%", stage.counts.PercentComplete()))
	}

	return nil
}

func (r Report) addTrendSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameTrend)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Date")
	currentRow.AddCell().SetValue("Collected")
	currentRow.AddCell().SetValue("Entered")
	currentRow.AddCell().SetValue("Validated")

	for _, point := range r.data.Trend {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(point.Date)
		currentRow.AddCell().SetValue(point.Collected)
		currentRow.AddCell().SetValue(point.Entered)
		currentRow.AddCell().SetValue(point.Validated)
	}

	return nil
}

func (r Report) addCriticalAlertsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameCriticalAlerts)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Order")
	currentRow.AddCell().SetValue("Test")
	currentRow.AddCell().SetValue("Parameter")
	currentRow.AddCell().SetValue("Value")
	currentRow.AddCell().SetValue("Unit")
	currentRow.AddCell().SetValue("Kind")
	currentRow.AddCell().SetValue("Reference Range")
	currentRow.AddCell().SetValue("Entered At")

	for _, alert := range r.data.Alerts {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(alert.OrderId)
		currentRow.AddCell().SetValue(alert.TestCode)
		currentRow.AddCell().SetValue(alert.Parameter)
		currentRow.AddCell().SetValue(alert.Value)
		currentRow.AddCell().SetValue(pointer.ToString(alert.Unit))
		currentRow.AddCell().SetValue(string(alert.Kind))
		currentRow.AddCell().SetValue(pointer.ToString(alert.ReferenceRange))
		if alert.ResultEnteredAt != nil {
			currentRow.AddCell().SetValue(alert.ResultEnteredAt.Format(time.RFC3339))
		} else {
			currentRow.AddCell()
		}
	}

	return nil
}
