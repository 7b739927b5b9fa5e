package api_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/openlabs-org/labops/api"
	"github.com/openlabs-org/labops/catalog"
	catalogTest "github.com/openlabs-org/labops/catalog/test"
	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/store"
)

var _ = Describe("Catalog handlers", func() {
	var ctrl *gomock.Controller
	var repo *catalogTest.MockRepository
	var handler *api.Handler

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = catalogTest.NewMockRepository(ctrl)
		handler = api.NewHandler(api.Params{
			Catalog: repo,
		})
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Describe("CreateTestDefinition", func() {
		It("requires a code", func() {
			definition := catalogTest.RandomTestDefinition()
			definition.Code = nil

			c, _ := newContext(http.MethodPost, "/v1/catalog/tests", api.NewTestDefinitionDto(&definition))
			err := handler.CreateTestDefinition(c)
			Expect(errors.Is(err, errs.BadRequest)).To(BeTrue())
		})

		It("returns the created definition", func() {
			definition := catalogTest.RandomTestDefinition()
			repo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				Return(&definition, nil)

			c, rec := newContext(http.MethodPost, "/v1/catalog/tests", api.NewTestDefinitionDto(&definition))
			Expect(handler.CreateTestDefinition(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(rec.Body.String()).To(ContainSubstring(*definition.Code))
		})
	})

	Describe("ListTestDefinitions", func() {
		It("passes filters to the service", func() {
			repo.EXPECT().
				List(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter *catalog.Filter, _ store.Pagination) ([]*catalog.TestDefinition, error) {
					Expect(filter.Category).To(HaveValue(Equal("hematology")))
					Expect(filter.IncludeDisabled).To(BeTrue())
					return nil, nil
				})

			c, rec := newContext(http.MethodGet, "/v1/catalog/tests?category=hematology&includeDisabled=true", nil)
			Expect(handler.ListTestDefinitions(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("DisableTestDefinition", func() {
		It("maps unknown codes to not found", func() {
			repo.EXPECT().
				Disable(gomock.Any(), "NOPE").
				Return(catalog.ErrNotFound)

			c, _ := newContext(http.MethodDelete, "/v1/catalog/tests/NOPE", nil)
			c.SetParamNames("testCode")
			c.SetParamValues("NOPE")

			err := handler.DisableTestDefinition(c)
			Expect(errors.Is(err, errs.NotFound)).To(BeTrue())
		})
	})
})
