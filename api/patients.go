package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/patients"
)

func (h *Handler) ListPatients(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &patients.Filter{}
	if mrn := c.QueryParam("mrn"); mrn != "" {
		filter.Mrn = &mrn
	}
	if search := c.QueryParam("search"); search != "" {
		filter.Search = &search
	}

	list, err := h.patients.List(ctx, filter, pagination(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewPatientDtos(list))
}

func (h *Handler) GetPatient(c echo.Context) error {
	ctx := c.Request().Context()

	patient, err := h.patients.Get(ctx, c.Param("patientId"))
	if err != nil {
		return mapPatientError(err)
	}

	return c.JSON(http.StatusOK, NewPatientDto(patient))
}

func (h *Handler) CreatePatient(c echo.Context) error {
	ctx := c.Request().Context()

	dto := PatientDto{}
	if err := c.Bind(&dto); err != nil {
		return err
	}
	if dto.Mrn == nil || *dto.Mrn == "" {
		return fmt.Errorf("%w: mrn is required", errs.BadRequest)
	}

	created, err := h.patients.Create(ctx, dto.Patient())
	if err != nil {
		return mapPatientError(err)
	}

	return c.JSON(http.StatusCreated, NewPatientDto(created))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	ctx := c.Request().Context()

	dto := PatientDto{}
	if err := c.Bind(&dto); err != nil {
		return err
	}

	updated, err := h.patients.Update(ctx, c.Param("patientId"), dto.Patient())
	if err != nil {
		return mapPatientError(err)
	}

	return c.JSON(http.StatusOK, NewPatientDto(updated))
}

func (h *Handler) RemovePatient(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.patients.Remove(ctx, c.Param("patientId")); err != nil {
		return mapPatientError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func mapPatientError(err error) error {
	switch err {
	case patients.ErrNotFound:
		return fmt.Errorf("%w: %s", errs.NotFound, err)
	case patients.ErrDuplicate:
		return fmt.Errorf("%w: %s", errs.Duplicate, err)
	default:
		return err
	}
}
