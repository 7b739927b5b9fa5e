package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlabs-org/labops/alerts"
)

type CriticalAlertActionDto struct {
	OrderId  string `json:"orderId"`
	TestCode string `json:"testCode"`
}

func (h *Handler) ListCriticalAlerts(c echo.Context) error {
	ctx := c.Request().Context()

	pending, err := h.alerts.Pending(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pending)
}

func (h *Handler) NotifyCriticalAlert(c echo.Context) error {
	ctx := c.Request().Context()

	dto := alerts.CriticalAlert{}
	if err := c.Bind(&dto); err != nil {
		return err
	}

	notified, err := h.alerts.Notify(ctx, dto)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"notified": notified})
}

func (h *Handler) AcknowledgeCriticalAlert(c echo.Context) error {
	ctx := c.Request().Context()

	dto := CriticalAlertActionDto{}
	if err := c.Bind(&dto); err != nil {
		return err
	}

	acknowledged, err := h.alerts.Acknowledge(ctx, dto.OrderId, dto.TestCode)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"acknowledged": acknowledged})
}
