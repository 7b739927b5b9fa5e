package rejection_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openlabs-org/labops/orders"
	ordersTest "github.com/openlabs-org/labops/orders/test"
	"github.com/openlabs-org/labops/rejection"
)

var _ = Describe("Policy", func() {
	limits := rejection.Limits{MaxRetest: 3, MaxRecollect: 3}

	history := func(kinds ...orders.RejectionType) []orders.RejectionRecord {
		records := make([]orders.RejectionRecord, 0, len(kinds))
		for _, kind := range kinds {
			records = append(records, ordersTest.RandomRejectionRecord(kind))
		}
		return records
	}

	Describe("Evaluate", func() {
		It("grants the full budgets for an empty history", func() {
			evaluation := rejection.Evaluate(nil, limits)
			Expect(evaluation.RetestRemaining).To(Equal(3))
			Expect(evaluation.RecollectRemaining).To(Equal(3))
			Expect(evaluation.EscalationRequired).To(BeFalse())
		})

		It("counts retests and recollects independently", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest,
				orders.RejectionTypeRetest,
				orders.RejectionTypeRecollect,
			), limits)
			Expect(evaluation.RetestRemaining).To(Equal(1))
			Expect(evaluation.RecollectRemaining).To(Equal(2))
			Expect(evaluation.EscalationRequired).To(BeFalse())
		})

		It("does not require escalation when only one budget is spent", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest,
				orders.RejectionTypeRetest,
				orders.RejectionTypeRetest,
			), limits)
			Expect(evaluation.RetestRemaining).To(Equal(0))
			Expect(evaluation.RecollectRemaining).To(Equal(3))
			Expect(evaluation.EscalationRequired).To(BeFalse())
		})

		It("requires escalation once both budgets are spent", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest, orders.RejectionTypeRetest, orders.RejectionTypeRetest,
				orders.RejectionTypeRecollect, orders.RejectionTypeRecollect, orders.RejectionTypeRecollect,
			), limits)
			Expect(evaluation.RetestRemaining).To(Equal(0))
			Expect(evaluation.RecollectRemaining).To(Equal(0))
			Expect(evaluation.EscalationRequired).To(BeTrue())
		})

		It("never reports a negative remainder", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest, orders.RejectionTypeRetest,
				orders.RejectionTypeRetest, orders.RejectionTypeRetest,
				orders.RejectionTypeRetest,
			), limits)
			Expect(evaluation.RetestRemaining).To(Equal(0))
		})

		It("ignores escalate records when counting budgets", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest,
				orders.RejectionTypeEscalate,
			), limits)
			Expect(evaluation.RetestRemaining).To(Equal(2))
			Expect(evaluation.RecollectRemaining).To(Equal(3))
		})
	})

	Describe("EvaluateForOrder", func() {
		It("blocks re-collect when a sibling test is validated", func() {
			order := ordersTest.RandomOrder()
			order.Tests = []orders.OrderTest{
				ordersTest.RandomOrderTest(orders.TestStatusValidated),
				ordersTest.RandomOrderTest(orders.TestStatusResulted),
			}

			evaluation := rejection.EvaluateForOrder(&order, &order.Tests[1], limits)
			Expect(evaluation.RecollectBlocked).To(BeTrue())
			Expect(evaluation.RecollectRemaining).To(Equal(3))
			Expect(evaluation.Permits(orders.RejectionTypeRecollect)).To(BeFalse())
		})

		It("permits re-collect when no sibling is validated", func() {
			order := ordersTest.RandomOrder()
			order.Tests = []orders.OrderTest{
				ordersTest.RandomOrderTest(orders.TestStatusResulted),
				ordersTest.RandomOrderTest(orders.TestStatusInProgress),
			}

			evaluation := rejection.EvaluateForOrder(&order, &order.Tests[0], limits)
			Expect(evaluation.RecollectBlocked).To(BeFalse())
			Expect(evaluation.Permits(orders.RejectionTypeRecollect)).To(BeTrue())
		})
	})

	Describe("Permits", func() {
		It("always permits escalation", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest, orders.RejectionTypeRetest, orders.RejectionTypeRetest,
				orders.RejectionTypeRecollect, orders.RejectionTypeRecollect, orders.RejectionTypeRecollect,
			), limits)
			Expect(evaluation.Permits(orders.RejectionTypeEscalate)).To(BeTrue())
		})

		It("rejects unknown actions", func() {
			evaluation := rejection.Evaluate(nil, limits)
			Expect(evaluation.Permits(orders.RejectionType("discard"))).To(BeFalse())
		})
	})

	Describe("DefaultAction", func() {
		It("prefers re-test while available", func() {
			evaluation := rejection.Evaluate(nil, limits)
			Expect(evaluation.DefaultAction()).To(Equal(orders.RejectionTypeRetest))
		})

		It("falls back to re-collect when retests are spent", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest, orders.RejectionTypeRetest, orders.RejectionTypeRetest,
			), limits)
			Expect(evaluation.DefaultAction()).To(Equal(orders.RejectionTypeRecollect))
		})

		It("forces escalation when both budgets are spent", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest, orders.RejectionTypeRetest, orders.RejectionTypeRetest,
				orders.RejectionTypeRecollect, orders.RejectionTypeRecollect, orders.RejectionTypeRecollect,
			), limits)
			Expect(evaluation.DefaultAction()).To(Equal(orders.RejectionTypeEscalate))
		})

		It("skips a blocked re-collect and escalates instead", func() {
			evaluation := rejection.Evaluate(history(
				orders.RejectionTypeRetest, orders.RejectionTypeRetest, orders.RejectionTypeRetest,
			), limits)
			evaluation.RecollectBlocked = true
			Expect(evaluation.DefaultAction()).To(Equal(orders.RejectionTypeEscalate))
		})
	})
})
