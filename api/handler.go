package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/openlabs-org/labops/alerts"
	"github.com/openlabs-org/labops/catalog"
	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/patients"
	"github.com/openlabs-org/labops/rejection"
	"github.com/openlabs-org/labops/store"
	"github.com/openlabs-org/labops/workflow"
)

type Handler struct {
	patients  patients.Service
	catalog   catalog.Service
	orders    orders.Service
	samples   orders.SampleService
	rejection rejection.Service
	resolver  rejection.Resolver
	workflow  workflow.Service
	alerts    alerts.Service
}

type Params struct {
	fx.In

	Patients  patients.Service
	Catalog   catalog.Service
	Orders    orders.Service
	Samples   orders.SampleService
	Rejection rejection.Service
	Resolver  rejection.Resolver
	Workflow  workflow.Service
	Alerts    alerts.Service
}

func NewHandler(p Params) *Handler {
	return &Handler{
		patients:  p.Patients,
		catalog:   p.Catalog,
		orders:    p.Orders,
		samples:   p.Samples,
		rejection: p.Rejection,
		resolver:  p.Resolver,
		workflow:  p.Workflow,
		alerts:    p.Alerts,
	}
}

func pagination(c echo.Context) store.Pagination {
	page := store.DefaultPagination()
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset >= 0 {
		page.Offset = offset
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		page.Limit = limit
	}
	return page
}
