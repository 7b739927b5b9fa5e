package test

import (
	"time"

	"github.com/openlabs-org/labops/patients"
	"github.com/openlabs-org/labops/test"
)

func strp(s string) *string {
	return &s
}

func RandomPatient() patients.Patient {
	sex := []string{"female", "male", "other"}[test.Rand.Intn(3)]
	return patients.Patient{
		Mrn:       strp(test.Faker.UUID().V4()),
		FullName:  strp(test.Faker.Person().Name()),
		BirthDate: strp(test.Faker.Time().ISO8601(time.Now())[:10]),
		Sex:       &sex,
		Email:     strp(test.Faker.Internet().Email()),
		Phone:     strp(test.Faker.Phone().Number()),
	}
}
