package workflow_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/openlabs-org/labops/orders"
	ordersTest "github.com/openlabs-org/labops/orders/test"
	"github.com/openlabs-org/labops/workflow"
)

var _ = Describe("Workflow Service", func() {
	var service workflow.Service
	var snapshots *ordersTest.MockSnapshotService
	var ctrl *gomock.Controller

	day := workflow.NewDay(time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC), time.UTC)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		snapshots = ordersTest.NewMockSnapshotService(ctrl)

		var err error
		service, err = workflow.NewService(snapshots, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("aggregates counts over the current snapshot", func() {
		order := ordersTest.RandomOrder()
		order.Tests = []orders.OrderTest{
			ordersTest.RandomOrderTest(orders.TestStatusPending),
		}
		snapshots.EXPECT().Snapshot(gomock.Any()).Return(&orders.Snapshot{
			Orders: []orders.Order{order},
		}, nil)

		counts, err := service.Counts(context.Background(), day)
		Expect(err).ToNot(HaveOccurred())
		Expect(counts.Sampling.Pending).To(Equal(1))
	})

	It("defaults the trend window when none is given", func() {
		snapshots.EXPECT().Snapshot(gomock.Any()).Return(&orders.Snapshot{}, nil)

		series, err := service.Trends(context.Background(), day, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(series).To(HaveLen(workflow.DefaultTrendDays))
	})

	It("builds the command-center report", func() {
		snapshots.EXPECT().Snapshot(gomock.Any()).Return(&orders.Snapshot{}, nil)

		file, err := service.Report(context.Background(), day, 7)
		Expect(err).ToNot(HaveOccurred())
		Expect(file.Sheets).To(HaveLen(4))
	})
})
