package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/workflow"
)

const reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) GetWorkflowCounts(c echo.Context) error {
	ctx := c.Request().Context()

	day, err := dayFromRequest(c)
	if err != nil {
		return err
	}

	counts, err := h.workflow.Counts(ctx, day)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, counts)
}

func (h *Handler) GetWorkflowTrends(c echo.Context) error {
	ctx := c.Request().Context()

	day, err := dayFromRequest(c)
	if err != nil {
		return err
	}
	days := workflow.DefaultTrendDays
	if raw := c.QueryParam("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return fmt.Errorf("%w: days must be a positive integer", errs.BadRequest)
		}
	}

	trend, err := h.workflow.Trends(ctx, day, days)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trend)
}

func (h *Handler) GetWorkflowReport(c echo.Context) error {
	ctx := c.Request().Context()

	day, err := dayFromRequest(c)
	if err != nil {
		return err
	}

	file, err := h.workflow.Report(ctx, day, workflow.DefaultTrendDays)
	if err != nil {
		return err
	}

	response := c.Response()
	response.Header().Set(echo.HeaderContentType, reportContentType)
	response.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="workflow-%s.xlsx"`, day.Key()))
	response.WriteHeader(http.StatusOK)

	return file.Write(response)
}

func dayFromRequest(c echo.Context) (workflow.Day, error) {
	location := time.UTC
	if tz := c.QueryParam("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return workflow.Day{}, fmt.Errorf("%w: unknown timezone %q", errs.BadRequest, tz)
		}
		location = loc
	}

	if date := c.QueryParam("date"); date != "" {
		reference, err := time.ParseInLocation("2006-01-02", date, location)
		if err != nil {
			return workflow.Day{}, fmt.Errorf("%w: date must be formatted as 2006-01-02", errs.BadRequest)
		}
		return workflow.NewDay(reference, location), nil
	}

	return workflow.Today(location), nil
}
