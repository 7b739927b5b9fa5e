package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/orders"
)

func (h *Handler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &orders.Filter{}
	if patientId := c.QueryParam("patientId"); patientId != "" {
		filter.PatientIds = []string{patientId}
	}
	if priority := c.QueryParam("priority"); priority != "" {
		p := orders.Priority(priority)
		filter.Priority = &p
	}
	if status := c.QueryParam("testStatus"); status != "" {
		s := orders.TestStatus(status)
		filter.TestStatus = &s
	}

	list, err := h.orders.List(ctx, filter, pagination(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewOrderDtos(list))
}

func (h *Handler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orders.Get(ctx, c.Param("orderId"))
	if err != nil {
		return mapOrderError(err)
	}

	return c.JSON(http.StatusOK, NewOrderDto(order))
}

func (h *Handler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	dto := CreateOrderDto{}
	if err := c.Bind(&dto); err != nil {
		return err
	}
	if len(dto.Tests) == 0 {
		return fmt.Errorf("%w: an order requires at least one test", errs.BadRequest)
	}
	patientId, err := primitive.ObjectIDFromHex(dto.PatientId)
	if err != nil {
		return fmt.Errorf("%w: invalid patient id", errs.BadRequest)
	}

	order := dto.Order()
	order.PatientId = &patientId

	created, err := h.orders.Create(ctx, order)
	if err != nil {
		return mapOrderError(err)
	}

	return c.JSON(http.StatusCreated, NewOrderDto(created))
}

func (h *Handler) RemoveOrder(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orders.Remove(ctx, c.Param("orderId")); err != nil {
		return mapOrderError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListOrderSamples(c echo.Context) error {
	ctx := c.Request().Context()

	samples, err := h.samples.ListSamples(ctx, c.Param("orderId"))
	if err != nil {
		return mapOrderError(err)
	}

	flattened := make([]orders.Sample, 0, len(samples))
	for _, sample := range samples {
		flattened = append(flattened, *sample)
	}
	lineages, err := orders.SampleLineages(flattened)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, lineages)
}

func mapOrderError(err error) error {
	switch {
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, orders.ErrTestNotFound), errors.Is(err, orders.ErrSampleNotFound):
		return fmt.Errorf("%w: %s", errs.NotFound, err)
	case errors.Is(err, orders.ErrStale):
		return fmt.Errorf("%w: %s", errs.StaleState, err)
	default:
		return err
	}
}
