package api

import (
	"time"

	"github.com/openlabs-org/labops/catalog"
	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/patients"
	"github.com/openlabs-org/labops/pointer"
)

type PatientDto struct {
	Id        string  `json:"id,omitempty"`
	Mrn       *string `json:"mrn,omitempty"`
	FullName  *string `json:"fullName,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Sex       *string `json:"sex,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func NewPatientDto(patient *patients.Patient) PatientDto {
	dto := PatientDto{
		Mrn:       patient.Mrn,
		FullName:  patient.FullName,
		BirthDate: patient.BirthDate,
		Sex:       patient.Sex,
		Email:     patient.Email,
		Phone:     patient.Phone,
	}
	if patient.Id != nil {
		dto.Id = patient.Id.Hex()
	}
	return dto
}

func NewPatientDtos(list []*patients.Patient) []PatientDto {
	dtos := make([]PatientDto, 0, len(list))
	for _, patient := range list {
		dtos = append(dtos, NewPatientDto(patient))
	}
	return dtos
}

func (d PatientDto) Patient() patients.Patient {
	return patients.Patient{
		Mrn:       d.Mrn,
		FullName:  d.FullName,
		BirthDate: d.BirthDate,
		Sex:       d.Sex,
		Email:     d.Email,
		Phone:     d.Phone,
	}
}

type ParameterDto struct {
	Name           string   `json:"name"`
	Unit           *string  `json:"unit,omitempty"`
	ReferenceRange *string  `json:"referenceRange,omitempty"`
	CriticalLow    *float64 `json:"criticalLow,omitempty"`
	CriticalHigh   *float64 `json:"criticalHigh,omitempty"`
}

type TestDefinitionDto struct {
	Code       *string        `json:"code,omitempty"`
	Name       *string        `json:"name,omitempty"`
	Category   *string        `json:"category,omitempty"`
	SampleType *string        `json:"sampleType,omitempty"`
	Price      *float64       `json:"price,omitempty"`
	Disabled   *bool          `json:"disabled,omitempty"`
	Parameters []ParameterDto `json:"parameters,omitempty"`
}

func NewTestDefinitionDto(definition *catalog.TestDefinition) TestDefinitionDto {
	dto := TestDefinitionDto{
		Code:       definition.Code,
		Name:       definition.Name,
		Category:   definition.Category,
		SampleType: definition.SampleType,
		Price:      definition.Price,
		Disabled:   definition.Disabled,
	}
	for _, parameter := range definition.Parameters {
		dto.Parameters = append(dto.Parameters, ParameterDto(parameter))
	}
	return dto
}

func NewTestDefinitionDtos(list []*catalog.TestDefinition) []TestDefinitionDto {
	dtos := make([]TestDefinitionDto, 0, len(list))
	for _, definition := range list {
		dtos = append(dtos, NewTestDefinitionDto(definition))
	}
	return dtos
}

func (d TestDefinitionDto) TestDefinition() catalog.TestDefinition {
	definition := catalog.TestDefinition{
		Code:       d.Code,
		Name:       d.Name,
		Category:   d.Category,
		SampleType: d.SampleType,
		Price:      d.Price,
		Disabled:   d.Disabled,
	}
	for _, parameter := range d.Parameters {
		definition.Parameters = append(definition.Parameters, catalog.Parameter(parameter))
	}
	return definition
}

type ResultDto struct {
	Value          string  `json:"value"`
	Unit           *string `json:"unit,omitempty"`
	ReferenceRange *string `json:"referenceRange,omitempty"`
	Status         string  `json:"status"`
}

type RejectionRecordDto struct {
	RejectionType string    `json:"rejectionType"`
	Reason        string    `json:"reason"`
	RejectedAt    time.Time `json:"rejectedAt"`
	RejectedBy    string    `json:"rejectedBy"`
}

type OrderTestDto struct {
	TestCode               string               `json:"testCode"`
	TestName               *string              `json:"testName,omitempty"`
	Status                 string               `json:"status"`
	SampleId               *string              `json:"sampleId,omitempty"`
	Results                map[string]ResultDto `json:"results,omitempty"`
	ResultEnteredAt        *time.Time           `json:"resultEnteredAt,omitempty"`
	ResultValidatedAt      *time.Time           `json:"resultValidatedAt,omitempty"`
	IsRetest               bool                 `json:"isRetest,omitempty"`
	RetestNumber           int                  `json:"retestNumber,omitempty"`
	RejectionHistory       []RejectionRecordDto `json:"rejectionHistory"`
	HasCriticalValues      bool                 `json:"hasCriticalValues,omitempty"`
	CriticalNotifiedAt     *time.Time           `json:"criticalNotifiedAt,omitempty"`
	CriticalAcknowledgedAt *time.Time           `json:"criticalAcknowledgedAt,omitempty"`
	EscalationResolution   *string              `json:"escalationResolution,omitempty"`
	EscalationResolvedAt   *time.Time           `json:"escalationResolvedAt,omitempty"`
	EscalationResolvedBy   *string              `json:"escalationResolvedBy,omitempty"`
	EscalationNotes        *string              `json:"escalationNotes,omitempty"`
}

type OrderDto struct {
	Id        string         `json:"id,omitempty"`
	PatientId string         `json:"patientId,omitempty"`
	Priority  string         `json:"priority,omitempty"`
	OrderedAt *time.Time     `json:"orderedAt,omitempty"`
	Tests     []OrderTestDto `json:"tests"`
}

func NewOrderDto(order *orders.Order) OrderDto {
	dto := OrderDto{
		Priority:  string(order.Priority),
		OrderedAt: order.OrderedAt,
		Tests:     make([]OrderTestDto, 0, len(order.Tests)),
	}
	if order.Id != nil {
		dto.Id = order.Id.Hex()
	}
	if order.PatientId != nil {
		dto.PatientId = order.PatientId.Hex()
	}
	for i := range order.Tests {
		dto.Tests = append(dto.Tests, NewOrderTestDto(&order.Tests[i]))
	}
	return dto
}

func NewOrderDtos(list []*orders.Order) []OrderDto {
	dtos := make([]OrderDto, 0, len(list))
	for _, order := range list {
		dtos = append(dtos, NewOrderDto(order))
	}
	return dtos
}

func NewOrderTestDto(test *orders.OrderTest) OrderTestDto {
	dto := OrderTestDto{
		TestCode:               test.TestCode,
		TestName:               test.TestName,
		Status:                 string(test.Status),
		SampleId:               test.SampleId,
		ResultEnteredAt:        test.ResultEnteredAt,
		ResultValidatedAt:      test.ResultValidatedAt,
		IsRetest:               test.IsRetest,
		RetestNumber:           test.RetestNumber,
		RejectionHistory:       make([]RejectionRecordDto, 0, len(test.RejectionHistory)),
		HasCriticalValues:      test.HasCriticalValues,
		CriticalNotifiedAt:     test.CriticalNotifiedAt,
		CriticalAcknowledgedAt: test.CriticalAcknowledgedAt,
		EscalationResolution:   test.EscalationResolution,
		EscalationResolvedAt:   test.EscalationResolvedAt,
		EscalationResolvedBy:   test.EscalationResolvedBy,
		EscalationNotes:        test.EscalationNotes,
	}
	if len(test.Results) > 0 {
		dto.Results = make(map[string]ResultDto, len(test.Results))
		for name, result := range test.Results {
			dto.Results[name] = ResultDto{
				Value:          result.Value,
				Unit:           result.Unit,
				ReferenceRange: result.ReferenceRange,
				Status:         string(result.Status),
			}
		}
	}
	for _, record := range test.RejectionHistory {
		dto.RejectionHistory = append(dto.RejectionHistory, RejectionRecordDto{
			RejectionType: string(record.Type),
			Reason:        record.Reason,
			RejectedAt:    record.RejectedAt,
			RejectedBy:    record.RejectedBy,
		})
	}
	return dto
}

type CreateOrderDto struct {
	PatientId string               `json:"patientId"`
	Priority  *string              `json:"priority,omitempty"`
	OrderedAt *time.Time           `json:"orderedAt,omitempty"`
	Tests     []CreateOrderTestDto `json:"tests"`
}

type CreateOrderTestDto struct {
	TestCode string  `json:"testCode"`
	TestName *string `json:"testName,omitempty"`
}

func (d CreateOrderDto) Order() orders.Order {
	order := orders.Order{
		Priority:  orders.PriorityRoutine,
		OrderedAt: d.OrderedAt,
	}
	if d.Priority != nil {
		order.Priority = orders.Priority(*d.Priority)
	}
	if order.OrderedAt == nil {
		order.OrderedAt = pointer.FromAny(time.Now())
	}
	for _, test := range d.Tests {
		order.Tests = append(order.Tests, orders.OrderTest{
			TestCode:         test.TestCode,
			TestName:         test.TestName,
			Status:           orders.TestStatusPending,
			RejectionHistory: []orders.RejectionRecord{},
		})
	}
	return order
}
