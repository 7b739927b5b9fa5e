package test

import (
	"fmt"
	"strings"

	"github.com/openlabs-org/labops/catalog"
	"github.com/openlabs-org/labops/pointer"
	"github.com/openlabs-org/labops/test"
)

var categories = []string{"hematology", "biochemistry", "microbiology", "immunology"}

func RandomTestDefinition() catalog.TestDefinition {
	code := strings.ToUpper(test.Faker.RandomLetter() + test.Faker.RandomLetter() + test.Faker.RandomLetter())
	return catalog.TestDefinition{
		Code:       pointer.FromAny(code),
		Name:       pointer.FromAny(test.Faker.Lorem().Sentence(3)),
		Category:   pointer.FromAny(categories[test.Rand.Intn(len(categories))]),
		SampleType: pointer.FromAny("whole-blood"),
		Price:      pointer.FromAny(test.Faker.Float64(2, 5, 200)),
		Parameters: []catalog.Parameter{
			RandomParameter(),
			RandomParameter(),
		},
	}
}

func RandomParameter() catalog.Parameter {
	low := test.Faker.Float64(1, 1, 10)
	high := low + test.Faker.Float64(1, 1, 10)
	return catalog.Parameter{
		Name:           test.Faker.Lorem().Word(),
		Unit:           pointer.FromAny("mmol/L"),
		ReferenceRange: pointer.FromAny(fmt.Sprintf("%.1f - %.1f", low, high)),
		CriticalLow:    pointer.FromAny(low / 2),
		CriticalHigh:   pointer.FromAny(high * 2),
	}
}
