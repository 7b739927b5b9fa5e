package workflow_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openlabs-org/labops/orders"
	ordersTest "github.com/openlabs-org/labops/orders/test"
	"github.com/openlabs-org/labops/workflow"
)

var _ = Describe("Aggregate", func() {
	location := time.UTC
	noon := time.Date(2024, 5, 14, 12, 0, 0, 0, location)
	day := workflow.NewDay(noon, location)

	It("classifies active tests into pipeline stages", func() {
		snapshot := &orders.Snapshot{
			Orders: []orders.Order{
				orderWithTests(
					ordersTest.RandomOrderTest(orders.TestStatusPending),
					ordersTest.RandomOrderTest(orders.TestStatusSampleCollected),
					ordersTest.RandomOrderTest(orders.TestStatusInProgress),
					ordersTest.RandomOrderTest(orders.TestStatusResulted),
				),
			},
		}

		counts := workflow.Aggregate(snapshot, day)
		Expect(counts.Sampling.Pending).To(Equal(1))
		Expect(counts.Entry.Pending).To(Equal(2))
		Expect(counts.Validation.Pending).To(Equal(1))
	})

	It("excludes superseded and removed tests from every count", func() {
		snapshot := &orders.Snapshot{
			Orders: []orders.Order{
				orderWithTests(
					ordersTest.RandomOrderTest(orders.TestStatusSuperseded),
					ordersTest.RandomOrderTest(orders.TestStatusRemoved),
				),
			},
		}

		counts := workflow.Aggregate(snapshot, day)
		Expect(counts.Sampling.Total).To(Equal(0))
		Expect(counts.Entry.Total).To(Equal(0))
		Expect(counts.Validation.Total).To(Equal(0))
	})

	It("counts samples collected within the caller's day", func() {
		today := ordersTest.RandomSample(orders.SampleStatusCollected)
		collectedToday := noon.Add(-2 * time.Hour)
		today.CollectedAt = &collectedToday

		yesterday := ordersTest.RandomSample(orders.SampleStatusCollected)
		collectedYesterday := noon.AddDate(0, 0, -1)
		yesterday.CollectedAt = &collectedYesterday

		uncollected := ordersTest.RandomSample(orders.SampleStatusPending)

		snapshot := &orders.Snapshot{Samples: []orders.Sample{today, yesterday, uncollected}}

		counts := workflow.Aggregate(snapshot, day)
		Expect(counts.Sampling.CompletedToday).To(Equal(1))
	})

	It("sums card totals from today's completions and pending work", func() {
		pending := ordersTest.RandomOrderTest(orders.TestStatusSampleCollected)

		entered := ordersTest.RandomOrderTest(orders.TestStatusResulted)
		enteredAt := noon.Add(-1 * time.Hour)
		entered.ResultEnteredAt = &enteredAt

		snapshot := &orders.Snapshot{
			Orders: []orders.Order{orderWithTests(pending, entered)},
		}

		counts := workflow.Aggregate(snapshot, day)
		Expect(counts.Entry.CompletedToday).To(Equal(1))
		Expect(counts.Entry.Pending).To(Equal(1))
		Expect(counts.Entry.Total).To(Equal(2))
	})

	It("counts partially validated orders", func() {
		partial := orderWithTests(
			ordersTest.RandomOrderTest(orders.TestStatusValidated),
			ordersTest.RandomOrderTest(orders.TestStatusResulted),
		)
		complete := orderWithTests(
			ordersTest.RandomOrderTest(orders.TestStatusValidated),
			ordersTest.RandomOrderTest(orders.TestStatusValidated),
		)
		untouched := orderWithTests(
			ordersTest.RandomOrderTest(orders.TestStatusPending),
		)

		snapshot := &orders.Snapshot{Orders: []orders.Order{partial, complete, untouched}}

		counts := workflow.Aggregate(snapshot, day)
		Expect(counts.PartiallyValidated).To(Equal(1))
	})

	It("counts tests awaiting escalation review", func() {
		escalated := ordersTest.RandomOrderTest(orders.TestStatusRejected)
		escalated.RejectionHistory = []orders.RejectionRecord{
			ordersTest.RandomRejectionRecord(orders.RejectionTypeEscalate),
		}

		snapshot := &orders.Snapshot{Orders: []orders.Order{orderWithTests(escalated)}}

		counts := workflow.Aggregate(snapshot, day)
		Expect(counts.EscalationQueue).To(Equal(1))
	})
})

var _ = Describe("Percentage", func() {
	It("returns 0 when the denominator is 0", func() {
		Expect(workflow.Percentage(5, 0)).To(Equal(0.0))
	})

	It("computes the share of the total", func() {
		Expect(workflow.Percentage(1, 4)).To(Equal(25.0))
	})
})

var _ = Describe("Trend", func() {
	location := time.UTC
	noon := time.Date(2024, 5, 14, 12, 0, 0, 0, location)
	day := workflow.NewDay(noon, location)

	It("pre-seeds every day of the window with zero points", func() {
		series := workflow.Trend(&orders.Snapshot{}, day, 15)
		Expect(series).To(HaveLen(15))
		Expect(series[0].Date).To(Equal("2024-04-30"))
		Expect(series[14].Date).To(Equal("2024-05-14"))
		for _, point := range series {
			Expect(point.Collected).To(Equal(0))
			Expect(point.Entered).To(Equal(0))
			Expect(point.Validated).To(Equal(0))
		}
	})

	It("accumulates activity into calendar-day buckets", func() {
		entered := ordersTest.RandomOrderTest(orders.TestStatusResulted)
		enteredAt := noon.AddDate(0, 0, -2)
		entered.ResultEnteredAt = &enteredAt

		validated := ordersTest.RandomOrderTest(orders.TestStatusValidated)
		validatedAt := noon
		validated.ResultValidatedAt = &validatedAt

		sample := ordersTest.RandomSample(orders.SampleStatusCollected)
		collectedAt := noon.AddDate(0, 0, -2)
		sample.CollectedAt = &collectedAt

		snapshot := &orders.Snapshot{
			Orders:  []orders.Order{orderWithTests(entered, validated)},
			Samples: []orders.Sample{sample},
		}

		series := workflow.Trend(snapshot, day, 5)
		Expect(series).To(HaveLen(5))
		Expect(series[2].Date).To(Equal("2024-05-12"))
		Expect(series[2].Entered).To(Equal(1))
		Expect(series[2].Collected).To(Equal(1))
		Expect(series[4].Validated).To(Equal(1))
	})

	It("drops activity outside the window", func() {
		entered := ordersTest.RandomOrderTest(orders.TestStatusResulted)
		enteredAt := noon.AddDate(0, 0, -30)
		entered.ResultEnteredAt = &enteredAt

		snapshot := &orders.Snapshot{Orders: []orders.Order{orderWithTests(entered)}}

		series := workflow.Trend(snapshot, day, 5)
		for _, point := range series {
			Expect(point.Entered).To(Equal(0))
		}
	})
})

var _ = Describe("Day", func() {
	location := time.UTC

	It("contains timestamps of the same local calendar day only", func() {
		day := workflow.NewDay(time.Date(2024, 5, 14, 12, 0, 0, 0, location), location)

		within := time.Date(2024, 5, 14, 0, 0, 0, 0, location)
		Expect(day.Contains(&within)).To(BeTrue())

		lastNight := time.Date(2024, 5, 13, 23, 59, 59, 0, location)
		Expect(day.Contains(&lastNight)).To(BeFalse())

		tomorrow := time.Date(2024, 5, 15, 0, 0, 0, 0, location)
		Expect(day.Contains(&tomorrow)).To(BeFalse())

		Expect(day.Contains(nil)).To(BeFalse())
	})

	It("respects the caller's timezone when bucketing", func() {
		eastern := time.FixedZone("UTC-5", -5*60*60)
		day := workflow.NewDay(time.Date(2024, 5, 14, 12, 0, 0, 0, eastern), eastern)

		// 02:00 UTC on the 15th is still the evening of the 14th in the
		// caller's zone.
		evening := time.Date(2024, 5, 15, 2, 0, 0, 0, time.UTC)
		Expect(day.Contains(&evening)).To(BeTrue())
	})
})

func orderWithTests(tests ...orders.OrderTest) orders.Order {
	order := ordersTest.RandomOrder()
	order.Tests = tests
	return order
}
