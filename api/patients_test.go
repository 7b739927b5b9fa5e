package api_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"github.com/openlabs-org/labops/api"
	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/patients"
	patientsTest "github.com/openlabs-org/labops/patients/test"
	"github.com/openlabs-org/labops/store"
)

var _ = Describe("Patients handlers", func() {
	var ctrl *gomock.Controller
	var repo *patientsTest.MockRepository
	var handler *api.Handler

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = patientsTest.NewMockRepository(ctrl)
		handler = api.NewHandler(api.Params{
			Patients: repo,
		})
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Describe("CreatePatient", func() {
		It("requires an mrn", func() {
			patient := patientsTest.RandomPatient()
			patient.Mrn = nil

			c, _ := newContext(http.MethodPost, "/v1/patients", api.NewPatientDto(&patient))
			err := handler.CreatePatient(c)
			Expect(errors.Is(err, errs.BadRequest)).To(BeTrue())
		})

		It("returns the created patient", func() {
			patient := patientsTest.RandomPatient()
			created := patient
			created.Id = &primitive.ObjectID{1, 2, 3}
			repo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				Return(&created, nil)

			c, rec := newContext(http.MethodPost, "/v1/patients", api.NewPatientDto(&patient))
			Expect(handler.CreatePatient(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(rec.Body.String()).To(ContainSubstring(created.Id.Hex()))
		})

		It("maps duplicate mrns to a conflict", func() {
			patient := patientsTest.RandomPatient()
			repo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				Return(nil, patients.ErrDuplicate)

			c, _ := newContext(http.MethodPost, "/v1/patients", api.NewPatientDto(&patient))
			err := handler.CreatePatient(c)
			Expect(errors.Is(err, errs.Duplicate)).To(BeTrue())
		})
	})

	Describe("GetPatient", func() {
		It("maps missing patients to not found", func() {
			repo.EXPECT().
				Get(gomock.Any(), "012345678901234567890123").
				Return(nil, patients.ErrNotFound)

			c, _ := newContext(http.MethodGet, "/v1/patients/012345678901234567890123", nil)
			c.SetParamNames("patientId")
			c.SetParamValues("012345678901234567890123")

			err := handler.GetPatient(c)
			Expect(errors.Is(err, errs.NotFound)).To(BeTrue())
		})
	})

	Describe("ListPatients", func() {
		It("passes filters and pagination to the service", func() {
			repo.EXPECT().
				List(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter *patients.Filter, page store.Pagination) ([]*patients.Patient, error) {
					Expect(filter.Mrn).To(HaveValue(Equal("MRN-1")))
					Expect(page.Offset).To(Equal(20))
					Expect(page.Limit).To(Equal(5))
					return nil, nil
				})

			c, rec := newContext(http.MethodGet, "/v1/patients?mrn=MRN-1&offset=20&limit=5", nil)
			Expect(handler.ListPatients(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("RemovePatient", func() {
		It("returns no content", func() {
			repo.EXPECT().
				Remove(gomock.Any(), "012345678901234567890123").
				Return(nil)

			c, rec := newContext(http.MethodDelete, "/v1/patients/012345678901234567890123", nil)
			c.SetParamNames("patientId")
			c.SetParamValues("012345678901234567890123")

			Expect(handler.RemovePatient(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})
	})
})
