package test

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/pointer"
	"github.com/openlabs-org/labops/test"
)

var priorities = []orders.Priority{
	orders.PriorityRoutine, orders.PriorityUrgent, orders.PriorityStat,
}

func RandomOrder() orders.Order {
	id := primitive.NewObjectID()
	patientId := primitive.NewObjectID()
	orderedAt := test.Faker.Time().TimeBetween(time.Now().Add(-30*24*time.Hour), time.Now())
	return orders.Order{
		Id:        &id,
		PatientId: &patientId,
		Priority:  priorities[test.Rand.Intn(len(priorities))],
		OrderedAt: &orderedAt,
		Tests: []orders.OrderTest{
			RandomOrderTest(orders.TestStatusPending),
			RandomOrderTest(orders.TestStatusResulted),
		},
	}
}

func RandomOrderTest(status orders.TestStatus) orders.OrderTest {
	orderTest := orders.OrderTest{
		TestCode:         RandomTestCode(),
		TestName:         pointer.FromAny(fmt.Sprintf("%s panel", randomWord())),
		Status:           status,
		RejectionHistory: []orders.RejectionRecord{},
	}

	switch status {
	case orders.TestStatusSampleCollected, orders.TestStatusInProgress:
		orderTest.SampleId = pointer.FromAny(primitive.NewObjectID().Hex())
	case orders.TestStatusResulted, orders.TestStatusValidated, orders.TestStatusRejected:
		orderTest.SampleId = pointer.FromAny(primitive.NewObjectID().Hex())
		orderTest.Results = map[string]orders.Result{
			randomWord(): RandomResult(orders.ResultStatusNormal),
		}
		enteredAt := time.Now().Add(-2 * time.Hour)
		orderTest.ResultEnteredAt = &enteredAt
		if status == orders.TestStatusValidated {
			validatedAt := time.Now().Add(-1 * time.Hour)
			orderTest.ResultValidatedAt = &validatedAt
		}
	}

	return orderTest
}

func RandomResult(status orders.ResultStatus) orders.Result {
	return orders.Result{
		Value:          fmt.Sprintf("%.1f", test.Faker.Float64(1, 1, 30)),
		Unit:           pointer.FromAny("mmol/L"),
		ReferenceRange: pointer.FromAny("4.0 - 11.0"),
		Status:         status,
	}
}

func RandomRejectionRecord(kind orders.RejectionType) orders.RejectionRecord {
	return orders.RejectionRecord{
		Type:       kind,
		Reason:     test.Faker.Lorem().Sentence(4),
		RejectedAt: time.Now().Add(-time.Duration(test.Rand.Intn(48)) * time.Hour),
		RejectedBy: test.Faker.Person().Name(),
	}
}

func RandomSample(status orders.SampleStatus) orders.Sample {
	id := primitive.NewObjectID()
	orderId := primitive.NewObjectID()
	sample := orders.Sample{
		Id:      &id,
		Barcode: pointer.FromAny(test.Faker.UUID().V4()),
		OrderId: &orderId,
		Status:  status,
	}
	if status == orders.SampleStatusCollected {
		collectedAt := time.Now().Add(-3 * time.Hour)
		sample.CollectedAt = &collectedAt
		sample.CollectedBy = pointer.FromAny(test.Faker.Person().Name())
	}
	return sample
}

func RandomTestCode() string {
	return strings.ToUpper(test.Faker.RandomLetter() + test.Faker.RandomLetter() + test.Faker.RandomLetter())
}

func randomWord() string {
	return test.Faker.Lorem().Word()
}
