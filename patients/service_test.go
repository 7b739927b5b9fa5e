package patients_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/openlabs-org/labops/patients"
	patientsTest "github.com/openlabs-org/labops/patients/test"
	"github.com/openlabs-org/labops/store"
)

var _ = Describe("Patients Service", func() {
	var service patients.Service
	var repo *patientsTest.MockRepository
	var repoCtrl *gomock.Controller

	BeforeEach(func() {
		repoCtrl = gomock.NewController(GinkgoT())
		repo = patientsTest.NewMockRepository(repoCtrl)

		var err error
		service, err = patients.NewService(repo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		repoCtrl.Finish()
	})

	Describe("Create", func() {
		It("delegates to the repository", func() {
			patient := patientsTest.RandomPatient()
			created := patient
			id := primitive.NewObjectID()
			created.Id = &id

			repo.EXPECT().
				Create(gomock.Any(), gomock.Eq(patient)).
				Return(&created, nil)

			result, err := service.Create(context.Background(), patient)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(&created))
		})

		It("returns duplicate errors from the repository unchanged", func() {
			patient := patientsTest.RandomPatient()
			repo.EXPECT().
				Create(gomock.Any(), gomock.Eq(patient)).
				Return(nil, patients.ErrDuplicate)

			result, err := service.Create(context.Background(), patient)
			Expect(err).To(MatchError(patients.ErrDuplicate))
			Expect(result).To(BeNil())
		})
	})

	Describe("List", func() {
		It("passes the filter and pagination through", func() {
			filter := &patients.Filter{}
			page := store.DefaultPagination().WithLimit(50)

			repo.EXPECT().
				List(gomock.Any(), gomock.Eq(filter), gomock.Eq(page)).
				Return([]*patients.Patient{}, nil)

			result, err := service.List(context.Background(), filter, page)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
	})
})
