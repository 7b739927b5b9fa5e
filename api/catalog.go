package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlabs-org/labops/catalog"
	errs "github.com/openlabs-org/labops/errors"
)

func (h *Handler) ListTestDefinitions(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &catalog.Filter{}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}
	if search := c.QueryParam("search"); search != "" {
		filter.Search = &search
	}
	if c.QueryParam("includeDisabled") == "true" {
		filter.IncludeDisabled = true
	}

	list, err := h.catalog.List(ctx, filter, pagination(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewTestDefinitionDtos(list))
}

func (h *Handler) GetTestDefinition(c echo.Context) error {
	ctx := c.Request().Context()

	definition, err := h.catalog.Get(ctx, c.Param("testCode"))
	if err != nil {
		return mapCatalogError(err)
	}

	return c.JSON(http.StatusOK, NewTestDefinitionDto(definition))
}

func (h *Handler) CreateTestDefinition(c echo.Context) error {
	ctx := c.Request().Context()

	dto := TestDefinitionDto{}
	if err := c.Bind(&dto); err != nil {
		return err
	}
	if dto.Code == nil || *dto.Code == "" {
		return fmt.Errorf("%w: test code is required", errs.BadRequest)
	}

	created, err := h.catalog.Create(ctx, dto.TestDefinition())
	if err != nil {
		return mapCatalogError(err)
	}

	return c.JSON(http.StatusCreated, NewTestDefinitionDto(created))
}

func (h *Handler) UpdateTestDefinition(c echo.Context) error {
	ctx := c.Request().Context()

	dto := TestDefinitionDto{}
	if err := c.Bind(&dto); err != nil {
		return err
	}

	updated, err := h.catalog.Update(ctx, c.Param("testCode"), dto.TestDefinition())
	if err != nil {
		return mapCatalogError(err)
	}

	return c.JSON(http.StatusOK, NewTestDefinitionDto(updated))
}

func (h *Handler) DisableTestDefinition(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.catalog.Disable(ctx, c.Param("testCode")); err != nil {
		return mapCatalogError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func mapCatalogError(err error) error {
	switch err {
	case catalog.ErrNotFound:
		return fmt.Errorf("%w: %s", errs.NotFound, err)
	case catalog.ErrDuplicate:
		return fmt.Errorf("%w: %s", errs.Duplicate, err)
	default:
		return err
	}
}
