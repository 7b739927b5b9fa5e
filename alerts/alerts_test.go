package alerts_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openlabs-org/labops/alerts"
	"github.com/openlabs-org/labops/orders"
	ordersTest "github.com/openlabs-org/labops/orders/test"
	"github.com/openlabs-org/labops/pointer"
)

var _ = Describe("Detect", func() {
	criticalOrder := func(kind orders.ResultStatus) orders.Order {
		order := ordersTest.RandomOrder()
		orderTest := ordersTest.RandomOrderTest(orders.TestStatusResulted)
		orderTest.Results = map[string]orders.Result{
			"potassium": {
				Value:          "6.8",
				Unit:           pointer.FromAny("mmol/L"),
				ReferenceRange: pointer.FromAny("3.5 - 5.1"),
				Status:         kind,
			},
		}
		order.Tests = []orders.OrderTest{orderTest}
		return order
	}

	It("emits an alert for each unnotified critical parameter", func() {
		order := criticalOrder(orders.ResultStatusCriticalHigh)
		snapshot := &orders.Snapshot{Orders: []orders.Order{order}}

		detected := alerts.Detect(snapshot)
		Expect(detected).To(HaveLen(1))
		Expect(detected[0].OrderId).To(Equal(order.Id.Hex()))
		Expect(detected[0].Parameter).To(Equal("potassium"))
		Expect(detected[0].Value).To(Equal("6.8"))
		Expect(detected[0].Kind).To(Equal(orders.ResultStatusCriticalHigh))
		Expect(detected[0].Threshold).To(Equal(3.5))
	})

	It("ignores non-critical parameters", func() {
		order := criticalOrder(orders.ResultStatusHigh)
		snapshot := &orders.Snapshot{Orders: []orders.Order{order}}

		Expect(alerts.Detect(snapshot)).To(BeEmpty())
	})

	It("suppresses tests that were already notified", func() {
		order := criticalOrder(orders.ResultStatusCritical)
		notifiedAt := time.Now().Add(-time.Minute)
		order.Tests[0].CriticalNotifiedAt = &notifiedAt
		snapshot := &orders.Snapshot{Orders: []orders.Order{order}}

		Expect(alerts.Detect(snapshot)).To(BeEmpty())
	})

	It("skips superseded and removed tests", func() {
		order := criticalOrder(orders.ResultStatusCritical)
		order.Tests[0].Status = orders.TestStatusSuperseded
		snapshot := &orders.Snapshot{Orders: []orders.Order{order}}

		Expect(alerts.Detect(snapshot)).To(BeEmpty())
	})
})

var _ = Describe("Threshold", func() {
	It("parses the first numeric token of the reference range", func() {
		result := orders.Result{
			Value:          "180",
			ReferenceRange: pointer.FromAny("70 - 110 mg/dL"),
			Status:         orders.ResultStatusCriticalHigh,
		}
		Expect(alerts.Threshold(result)).To(Equal(70.0))
	})

	It("handles negative and decimal tokens", func() {
		result := orders.Result{
			Value:          "1.2",
			ReferenceRange: pointer.FromAny("-2.5 to 2.5"),
			Status:         orders.ResultStatusCriticalLow,
		}
		Expect(alerts.Threshold(result)).To(Equal(-2.5))
	})

	It("falls back to the result value when the range is unparseable", func() {
		result := orders.Result{
			Value:          "6.8",
			ReferenceRange: pointer.FromAny("see lab manual"),
			Status:         orders.ResultStatusCritical,
		}
		Expect(alerts.Threshold(result)).To(Equal(6.8))
	})

	It("falls back to the result value when the range is missing", func() {
		result := orders.Result{
			Value:  "42",
			Status: orders.ResultStatusCritical,
		}
		Expect(alerts.Threshold(result)).To(Equal(42.0))
	})
})
