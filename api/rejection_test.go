package api_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/openlabs-org/labops/api"
	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/orders"
	ordersTest "github.com/openlabs-org/labops/orders/test"
	"github.com/openlabs-org/labops/pointer"
	"github.com/openlabs-org/labops/rejection"
	rejectionTest "github.com/openlabs-org/labops/rejection/test"
)

var _ = Describe("Rejection handlers", func() {
	var ctrl *gomock.Controller
	var executor *rejectionTest.MockService
	var resolver *rejectionTest.MockResolver
	var handler *api.Handler

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		executor = rejectionTest.NewMockService(ctrl)
		resolver = rejectionTest.NewMockResolver(ctrl)
		handler = api.NewHandler(api.Params{
			Rejection: executor,
			Resolver:  resolver,
		})
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	rejectionContext := func(body interface{}) echo.Context {
		c, _ := newContext(http.MethodPost, "/v1/orders/order-1/tests/CBC/rejection", body)
		c.SetParamNames("orderId", "testCode")
		c.SetParamValues("order-1", "CBC")
		return c
	}

	Describe("RejectTestResult", func() {
		It("attributes the rejection to the authenticated user", func() {
			order := ordersTest.RandomOrder()
			executor.EXPECT().
				Reject(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, r rejection.Rejection) (*orders.Order, error) {
					Expect(r.OrderId).To(Equal("order-1"))
					Expect(r.TestCode).To(Equal("CBC"))
					Expect(r.Action).To(Equal(orders.RejectionTypeRetest))
					Expect(r.Reason).To(Equal("hemolyzed sample"))
					Expect(r.Actor).To(Equal("tech-7"))
					return &order, nil
				})

			c := rejectionContext(api.RejectTestResultDto{
				Action: "re-test",
				Reason: "hemolyzed sample",
			})
			authenticate(c, "tech-7", "OPERATOR")

			Expect(handler.RejectTestResult(c)).To(Succeed())
		})

		It("propagates policy violations", func() {
			executor.EXPECT().
				Reject(gomock.Any(), gomock.Any()).
				Return(nil, errs.PolicyViolation)

			c := rejectionContext(api.RejectTestResultDto{
				Action: "re-test",
				Reason: "clotted",
			})
			authenticate(c, "tech-7", "OPERATOR")

			err := handler.RejectTestResult(c)
			Expect(errors.Is(err, errs.PolicyViolation)).To(BeTrue())
		})
	})

	Describe("GetRejectionOptions", func() {
		It("returns the evaluation", func() {
			executor.EXPECT().
				Options(gomock.Any(), "order-1", "CBC").
				Return(&rejection.Evaluation{RetestRemaining: 1}, nil)

			c, rec := newContext(http.MethodGet, "/v1/orders/order-1/tests/CBC/rejection/options", nil)
			c.SetParamNames("orderId", "testCode")
			c.SetParamValues("order-1", "CBC")

			Expect(handler.GetRejectionOptions(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("retestRemaining"))
		})
	})

	Describe("ResolveEscalation", func() {
		It("dispatches force validation", func() {
			order := ordersTest.RandomOrder()
			resolver.EXPECT().
				ForceValidate(gomock.Any(), "order-1", "CBC", "supervisor-1", gomock.Any()).
				Return(&order, nil)

			c := rejectionContext(api.ResolveEscalationDto{
				Resolution: rejection.ResolutionValidated,
				Notes:      pointer.FromAny("reviewed against history"),
			})
			authenticate(c, "supervisor-1", "SUPERVISOR")

			Expect(handler.ResolveEscalation(c)).To(Succeed())
		})

		It("dispatches retest authorization", func() {
			order := ordersTest.RandomOrder()
			resolver.EXPECT().
				AuthorizeRetest(gomock.Any(), "order-1", "CBC", "supervisor-1", "analyzer drift").
				Return(&order, nil)

			c := rejectionContext(api.ResolveEscalationDto{
				Resolution: rejection.ResolutionRetestAuthorized,
				Reason:     "analyzer drift",
			})
			authenticate(c, "supervisor-1", "SUPERVISOR")

			Expect(handler.ResolveEscalation(c)).To(Succeed())
		})

		It("dispatches final rejection", func() {
			order := ordersTest.RandomOrder()
			resolver.EXPECT().
				FinalReject(gomock.Any(), "order-1", "CBC", "supervisor-1", "sample integrity lost").
				Return(&order, nil)

			c := rejectionContext(api.ResolveEscalationDto{
				Resolution: rejection.ResolutionFinalRejected,
				Reason:     "sample integrity lost",
			})
			authenticate(c, "supervisor-1", "SUPERVISOR")

			Expect(handler.ResolveEscalation(c)).To(Succeed())
		})

		It("rejects unknown resolutions", func() {
			c := rejectionContext(api.ResolveEscalationDto{
				Resolution: "shrug",
			})
			authenticate(c, "supervisor-1", "SUPERVISOR")

			err := handler.ResolveEscalation(c)
			Expect(errors.Is(err, errs.BadRequest)).To(BeTrue())
		})
	})

	Describe("ListEscalations", func() {
		It("returns the review queue", func() {
			resolver.EXPECT().
				Queue(gomock.Any()).
				Return([]rejection.EscalatedTest{{OrderId: "order-1", TestCode: "CBC"}}, nil)

			c, rec := newContext(http.MethodGet, "/v1/escalations", nil)
			Expect(handler.ListEscalations(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("order-1"))
		})
	})
})
