package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlabs-org/labops/auth"
	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/rejection"
)

type RejectTestResultDto struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type ResolveEscalationDto struct {
	Resolution string  `json:"resolution"`
	Reason     string  `json:"reason"`
	Notes      *string `json:"notes,omitempty"`
}

func (h *Handler) RejectTestResult(c echo.Context) error {
	ctx := c.Request().Context()

	dto := RejectTestResultDto{}
	if err := c.Bind(&dto); err != nil {
		return err
	}

	order, err := h.rejection.Reject(ctx, rejection.Rejection{
		OrderId:  c.Param("orderId"),
		TestCode: c.Param("testCode"),
		Action:   orders.RejectionType(dto.Action),
		Reason:   dto.Reason,
		Actor:    actor(ctx),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewOrderDto(order))
}

func (h *Handler) GetRejectionOptions(c echo.Context) error {
	ctx := c.Request().Context()

	evaluation, err := h.rejection.Options(ctx, c.Param("orderId"), c.Param("testCode"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, evaluation)
}

func (h *Handler) ResolveEscalation(c echo.Context) error {
	ctx := c.Request().Context()

	dto := ResolveEscalationDto{}
	if err := c.Bind(&dto); err != nil {
		return err
	}

	orderId := c.Param("orderId")
	testCode := c.Param("testCode")

	var order *orders.Order
	var err error
	switch dto.Resolution {
	case rejection.ResolutionValidated:
		order, err = h.resolver.ForceValidate(ctx, orderId, testCode, actor(ctx), dto.Notes)
	case rejection.ResolutionRetestAuthorized:
		order, err = h.resolver.AuthorizeRetest(ctx, orderId, testCode, actor(ctx), dto.Reason)
	case rejection.ResolutionFinalRejected:
		order, err = h.resolver.FinalReject(ctx, orderId, testCode, actor(ctx), dto.Reason)
	default:
		return fmt.Errorf("%w: unknown escalation resolution %q", errs.BadRequest, dto.Resolution)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewOrderDto(order))
}

func (h *Handler) ListEscalations(c echo.Context) error {
	ctx := c.Request().Context()

	queue, err := h.resolver.Queue(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, queue)
}

func actor(ctx context.Context) string {
	if authData := auth.GetAuthData(ctx); authData != nil {
		return authData.SubjectId
	}

	return ""
}
