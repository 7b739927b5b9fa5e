package orders_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openlabs-org/labops/orders"
	ordersTest "github.com/openlabs-org/labops/orders/test"
)

var _ = Describe("Sample lineages", func() {
	It("returns a single-sample chain for an unlinked sample", func() {
		sample := ordersTest.RandomSample(orders.SampleStatusCollected)

		lineages, err := orders.SampleLineages([]orders.Sample{sample})
		Expect(err).ToNot(HaveOccurred())
		Expect(lineages).To(HaveLen(1))
		Expect(lineages[0].Depth()).To(Equal(1))
		Expect(lineages[0].Current().Id).To(Equal(sample.Id))
	})

	It("chains recollections in order", func() {
		original := ordersTest.RandomSample(orders.SampleStatusRejected)
		first := ordersTest.RandomSample(orders.SampleStatusRejected)
		first.OrderId = original.OrderId
		first.OriginalSampleId = original.Id
		second := ordersTest.RandomSample(orders.SampleStatusPending)
		second.OrderId = original.OrderId
		second.OriginalSampleId = first.Id

		lineages, err := orders.SampleLineages([]orders.Sample{second, original, first})
		Expect(err).ToNot(HaveOccurred())
		Expect(lineages).To(HaveLen(1))
		Expect(lineages[0].Depth()).To(Equal(3))
		Expect(lineages[0].Samples[0].Id).To(Equal(original.Id))
		Expect(lineages[0].Samples[1].Id).To(Equal(first.Id))
		Expect(lineages[0].Samples[2].Id).To(Equal(second.Id))
		Expect(lineages[0].Current().Id).To(Equal(second.Id))
	})

	It("keeps unrelated samples in separate chains", func() {
		a := ordersTest.RandomSample(orders.SampleStatusCollected)
		b := ordersTest.RandomSample(orders.SampleStatusPending)

		lineages, err := orders.SampleLineages([]orders.Sample{a, b})
		Expect(err).ToNot(HaveOccurred())
		Expect(lineages).To(HaveLen(2))
	})

	It("starts a new chain when the original sample is outside the snapshot", func() {
		missing := primitive.NewObjectID()
		orphan := ordersTest.RandomSample(orders.SampleStatusPending)
		orphan.OriginalSampleId = &missing

		lineages, err := orders.SampleLineages([]orders.Sample{orphan})
		Expect(err).ToNot(HaveOccurred())
		Expect(lineages).To(HaveLen(1))
		Expect(lineages[0].Depth()).To(Equal(1))
	})
})
