package api_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/openlabs-org/labops/alerts"
	alertsTest "github.com/openlabs-org/labops/alerts/test"
	"github.com/openlabs-org/labops/api"
)

var _ = Describe("Alerts handlers", func() {
	var ctrl *gomock.Controller
	var service *alertsTest.MockService
	var handler *api.Handler

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		service = alertsTest.NewMockService(ctrl)
		handler = api.NewHandler(api.Params{
			Alerts: service,
		})
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Describe("ListCriticalAlerts", func() {
		It("returns the pending alerts", func() {
			service.EXPECT().
				Pending(gomock.Any()).
				Return([]alerts.CriticalAlert{{OrderId: "order-1", TestCode: "K", Parameter: "potassium"}}, nil)

			c, rec := newContext(http.MethodGet, "/v1/alerts/critical", nil)
			Expect(handler.ListCriticalAlerts(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("potassium"))
		})
	})

	Describe("NotifyCriticalAlert", func() {
		It("reports whether the notification was recorded", func() {
			service.EXPECT().
				Notify(gomock.Any(), gomock.Any()).
				Return(true, nil)

			c, rec := newContext(http.MethodPost, "/v1/alerts/critical/notify", alerts.CriticalAlert{
				OrderId:  "order-1",
				TestCode: "K",
			})
			Expect(handler.NotifyCriticalAlert(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"notified":true`))
		})
	})

	Describe("AcknowledgeCriticalAlert", func() {
		It("acknowledges by order and test", func() {
			service.EXPECT().
				Acknowledge(gomock.Any(), "order-1", "K").
				Return(true, nil)

			c, rec := newContext(http.MethodPost, "/v1/alerts/critical/acknowledge", api.CriticalAlertActionDto{
				OrderId:  "order-1",
				TestCode: "K",
			})
			Expect(handler.AcknowledgeCriticalAlert(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"acknowledged":true`))
		})
	})
})
