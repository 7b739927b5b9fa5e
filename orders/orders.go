package orders

import (
	"context"
	"errors"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openlabs-org/labops/store"
)

var ErrNotFound = errors.New("order not found")
var ErrTestNotFound = errors.New("test not found in order")

// ErrStale is returned by conditional mutations when the stored test no
// longer matches the state the caller evaluated against, i.e. another
// actor acted first. Callers refetch and re-present options.
var ErrStale = errors.New("test state has changed since evaluation")

type TestStatus string

const (
	TestStatusPending         TestStatus = "pending"
	TestStatusSampleCollected TestStatus = "sample-collected"
	TestStatusInProgress      TestStatus = "in-progress"
	TestStatusResulted        TestStatus = "resulted"
	TestStatusValidated       TestStatus = "validated"
	TestStatusRejected        TestStatus = "rejected"
	TestStatusSuperseded      TestStatus = "superseded"
	TestStatusRemoved         TestStatus = "removed"
)

type RejectionType string

const (
	RejectionTypeRetest    RejectionType = "re-test"
	RejectionTypeRecollect RejectionType = "re-collect"
	RejectionTypeEscalate  RejectionType = "escalate"
)

type ResultStatus string

const (
	ResultStatusNormal       ResultStatus = "normal"
	ResultStatusHigh         ResultStatus = "high"
	ResultStatusLow          ResultStatus = "low"
	ResultStatusCritical     ResultStatus = "critical"
	ResultStatusCriticalHigh ResultStatus = "critical-high"
	ResultStatusCriticalLow  ResultStatus = "critical-low"
)

type Priority string

const (
	PriorityRoutine Priority = "routine"
	PriorityUrgent  Priority = "urgent"
	PriorityStat    Priority = "stat"
)

var (
	// ActiveStatuses are the statuses that participate in workflow counts.
	// Superseded and removed tests are invisible to every derivation.
	ActiveStatuses = mapset.NewSet(
		TestStatusPending, TestStatusSampleCollected, TestStatusInProgress,
		TestStatusResulted, TestStatusValidated, TestStatusRejected,
	)

	// RejectableStatuses are the statuses a result rejection may act on.
	RejectableStatuses = mapset.NewSet(
		TestStatusSampleCollected, TestStatusInProgress, TestStatusResulted,
	)

	CriticalResultStatuses = mapset.NewSet(
		ResultStatusCritical, ResultStatusCriticalHigh, ResultStatusCriticalLow,
	)
)

//go:generate go tool mockgen -source=./orders.go -destination=./test/mock_repository.go -package test MockRepository

type Service interface {
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Order, error)
	Create(ctx context.Context, order Order) (*Order, error)
	Remove(ctx context.Context, id string) error

	// ApplyRejection appends a rejection record and moves the test into
	// its post-rejection state in a single conditional write. Returns
	// ErrStale when the stored test no longer matches the precondition.
	ApplyRejection(ctx context.Context, update RejectionUpdate) (*Order, error)

	// ResolveEscalation terminates an escalated test. The precondition is
	// that the test is rejected and its last rejection is an escalation.
	ResolveEscalation(ctx context.Context, update EscalationUpdate) (*Order, error)

	// SetCriticalNotified stamps criticalNotifiedAt if and only if it is
	// unset. Returns false without error when already notified.
	SetCriticalNotified(ctx context.Context, orderId, testCode string, at time.Time) (bool, error)
	SetCriticalAcknowledged(ctx context.Context, orderId, testCode string, at time.Time) (bool, error)
}

type Order struct {
	Id        *primitive.ObjectID `bson:"_id,omitempty" mapstructure:"_id"`
	PatientId *primitive.ObjectID `bson:"patientId,omitempty" mapstructure:"patientId"`
	Priority  Priority            `bson:"priority,omitempty" mapstructure:"priority"`
	OrderedAt *time.Time          `bson:"orderedAt,omitempty" mapstructure:"orderedAt"`
	Tests     []OrderTest         `bson:"tests,omitempty" mapstructure:"tests"`
}

type OrderTest struct {
	TestCode          string            `bson:"testCode" mapstructure:"testCode"`
	TestName          *string           `bson:"testName,omitempty" mapstructure:"testName"`
	Status            TestStatus        `bson:"status" mapstructure:"status"`
	SampleId          *string           `bson:"sampleId,omitempty" mapstructure:"sampleId"`
	Results           map[string]Result `bson:"results,omitempty" mapstructure:"results"`
	ResultEnteredAt   *time.Time        `bson:"resultEnteredAt,omitempty" mapstructure:"resultEnteredAt"`
	ResultValidatedAt *time.Time        `bson:"resultValidatedAt,omitempty" mapstructure:"resultValidatedAt"`
	IsRetest          bool              `bson:"isRetest,omitempty" mapstructure:"isRetest"`
	RetestNumber      int               `bson:"retestNumber,omitempty" mapstructure:"retestNumber"`

	// RejectionHistory is always persisted, empty array included, so
	// conditional writes can match on its size.
	RejectionHistory []RejectionRecord `bson:"resultRejectionHistory" mapstructure:"resultRejectionHistory"`

	HasCriticalValues      bool       `bson:"hasCriticalValues,omitempty" mapstructure:"hasCriticalValues"`
	CriticalNotifiedAt     *time.Time `bson:"criticalNotifiedAt,omitempty" mapstructure:"criticalNotifiedAt"`
	CriticalAcknowledgedAt *time.Time `bson:"criticalAcknowledgedAt,omitempty" mapstructure:"criticalAcknowledgedAt"`

	// Set when a supervisor resolves an escalation; a resolved escalation
	// never reappears in the escalation queue.
	EscalationResolution *string    `bson:"escalationResolution,omitempty" mapstructure:"escalationResolution"`
	EscalationResolvedAt *time.Time `bson:"escalationResolvedAt,omitempty" mapstructure:"escalationResolvedAt"`
	EscalationResolvedBy *string    `bson:"escalationResolvedBy,omitempty" mapstructure:"escalationResolvedBy"`
	EscalationNotes      *string    `bson:"escalationNotes,omitempty" mapstructure:"escalationNotes"`
}

type Result struct {
	Value          string       `bson:"value" mapstructure:"value"`
	Unit           *string      `bson:"unit,omitempty" mapstructure:"unit"`
	ReferenceRange *string      `bson:"referenceRange,omitempty" mapstructure:"referenceRange"`
	Status         ResultStatus `bson:"status" mapstructure:"status"`
}

type RejectionRecord struct {
	Type       RejectionType `bson:"rejectionType" mapstructure:"rejectionType"`
	Reason     string        `bson:"reason" mapstructure:"reason"`
	RejectedAt time.Time     `bson:"rejectedAt" mapstructure:"rejectedAt"`
	RejectedBy string        `bson:"rejectedBy" mapstructure:"rejectedBy"`
}

type Filter struct {
	PatientIds []string
	Priority   *Priority
	TestStatus *TestStatus
}

// RejectionUpdate captures everything a rejection write needs, including
// the preconditions the write is guarded by.
type RejectionUpdate struct {
	OrderId  string
	TestCode string
	Record   RejectionRecord

	NewStatus    TestStatus
	NewSampleId  *string
	ClearResults bool
	RetestNumber *int

	// Preconditions; the write matches nothing when they no longer hold.
	ExpectedStatus     TestStatus
	ExpectedRejections int
}

// EscalationUpdate captures a terminal escalation resolution.
type EscalationUpdate struct {
	OrderId  string
	TestCode string

	Resolution   string
	NewStatus    TestStatus
	NewSampleId  *string
	ClearResults bool
	RetestNumber *int
	ValidatedAt  *time.Time
	ResolvedAt   time.Time
	ResolvedBy   string
	Notes        *string
}

// Test returns the order's test with the given code.
func (o *Order) Test(testCode string) (*OrderTest, error) {
	for i := range o.Tests {
		if o.Tests[i].TestCode == testCode {
			return &o.Tests[i], nil
		}
	}
	return nil, ErrTestNotFound
}

// HasValidatedTest reports whether any test of the order has already been
// validated. Recollecting a shared sample would invalidate the delivered
// result, so the rejection policy blocks re-collect on such orders.
func (o *Order) HasValidatedTest() bool {
	for i := range o.Tests {
		if o.Tests[i].Status == TestStatusValidated {
			return true
		}
	}
	return false
}

// RetestCount is the number of re-test records in the test's history.
func (t *OrderTest) RetestCount() int {
	return t.countRejections(RejectionTypeRetest)
}

// RecollectCount is the number of re-collect records in the test's history.
func (t *OrderTest) RecollectCount() int {
	return t.countRejections(RejectionTypeRecollect)
}

func (t *OrderTest) countRejections(kind RejectionType) int {
	count := 0
	for _, record := range t.RejectionHistory {
		if record.Type == kind {
			count++
		}
	}
	return count
}

// LastRejection returns the most recent rejection record, or nil.
func (t *OrderTest) LastRejection() *RejectionRecord {
	if len(t.RejectionHistory) == 0 {
		return nil
	}
	return &t.RejectionHistory[len(t.RejectionHistory)-1]
}

// IsEscalated reports whether the test is waiting on supervisor review.
func (t *OrderTest) IsEscalated() bool {
	last := t.LastRejection()
	return t.Status == TestStatusRejected && last != nil && last.Type == RejectionTypeEscalate
}

// NeedsEscalationReview reports whether the test sits in the escalation
// queue: escalated and not yet resolved by a supervisor.
func (t *OrderTest) NeedsEscalationReview() bool {
	return t.IsEscalated() && t.EscalationResolvedAt == nil
}

func (t *OrderTest) IsActive() bool {
	return ActiveStatuses.Contains(t.Status)
}
