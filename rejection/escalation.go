package rejection

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/outbox"
	"github.com/openlabs-org/labops/store"
)

const (
	ResolutionValidated        = "validated"
	ResolutionRetestAuthorized = "retest-authorized"
	ResolutionFinalRejected    = "final-rejected"
)

// DefaultRetestAuthorizationReason is recorded when a supervisor
// authorizes a retest without giving one.
const DefaultRetestAuthorizationReason = "retest authorized by supervisor"

// EscalatedTest is a queue entry awaiting supervisor review.
type EscalatedTest struct {
	OrderId     string     `json:"orderId"`
	PatientId   string     `json:"patientId,omitempty"`
	TestCode    string     `json:"testCode"`
	TestName    *string    `json:"testName,omitempty"`
	Reason      string     `json:"reason"`
	EscalatedAt time.Time  `json:"escalatedAt"`
	EscalatedBy string     `json:"escalatedBy"`
	Retests     int        `json:"retests"`
	Recollects  int        `json:"recollects"`
	OrderedAt   *time.Time `json:"orderedAt,omitempty"`
}

//go:generate go tool mockgen -source=./escalation.go -destination=./test/mock_resolver.go -package test MockResolver

// Resolver terminates escalated tests. Every transition is terminal:
// once resolved, an escalation never reappears in the queue, which the
// store enforces with a conditional write on the resolution marker.
type Resolver interface {
	Queue(ctx context.Context) ([]EscalatedTest, error)

	// ForceValidate moves the test to validated regardless of
	// outstanding flags. Notes are optional advisory text.
	ForceValidate(ctx context.Context, orderId, testCode, actor string, notes *string) (*orders.Order, error)

	// AuthorizeRetest grants a retest outside the normal counters. No
	// rejection record is appended, so the budgets stay untouched. A
	// blank reason is replaced with a fixed placeholder.
	AuthorizeRetest(ctx context.Context, orderId, testCode, actor, reason string) (*orders.Order, error)

	// FinalReject keeps the test rejected and requests a fresh sample.
	// The reason is mandatory.
	FinalReject(ctx context.Context, orderId, testCode, actor, reason string) (*orders.Order, error)
}

type resolver struct {
	orders      orders.Repository
	samples     orders.SampleRepository
	snapshots   orders.SnapshotService
	outbox      outbox.Repository
	transaction store.TransactionRunner
	logger      *zap.SugaredLogger
}

var _ Resolver = &resolver{}

func NewResolver(
	ordersRepo orders.Repository,
	samples orders.SampleRepository,
	snapshots orders.SnapshotService,
	outboxRepo outbox.Repository,
	transaction store.TransactionRunner,
	logger *zap.SugaredLogger,
) (Resolver, error) {
	return &resolver{
		orders:      ordersRepo,
		samples:     samples,
		snapshots:   snapshots,
		outbox:      outboxRepo,
		transaction: transaction,
		logger:      logger,
	}, nil
}

func (r *resolver) Queue(ctx context.Context) ([]EscalatedTest, error) {
	snapshot, err := r.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.Transport, err)
	}

	queue := make([]EscalatedTest, 0)
	for i := range snapshot.Orders {
		order := &snapshot.Orders[i]
		for j := range order.Tests {
			test := &order.Tests[j]
			if !test.NeedsEscalationReview() {
				continue
			}

			entry := EscalatedTest{
				TestCode:   test.TestCode,
				TestName:   test.TestName,
				Retests:    test.RetestCount(),
				Recollects: test.RecollectCount(),
				OrderedAt:  order.OrderedAt,
			}
			if order.Id != nil {
				entry.OrderId = order.Id.Hex()
			}
			if order.PatientId != nil {
				entry.PatientId = order.PatientId.Hex()
			}
			if last := test.LastRejection(); last != nil {
				entry.Reason = last.Reason
				entry.EscalatedAt = last.RejectedAt
				entry.EscalatedBy = last.RejectedBy
			}
			queue = append(queue, entry)
		}
	}

	return queue, nil
}

func (r *resolver) ForceValidate(ctx context.Context, orderId, testCode, actor string, notes *string) (*orders.Order, error) {
	now := time.Now()
	update := orders.EscalationUpdate{
		OrderId:     orderId,
		TestCode:    testCode,
		Resolution:  ResolutionValidated,
		NewStatus:   orders.TestStatusValidated,
		ValidatedAt: &now,
		ResolvedAt:  now,
		ResolvedBy:  actor,
		Notes:       notes,
	}

	return r.resolve(ctx, update)
}

func (r *resolver) AuthorizeRetest(ctx context.Context, orderId, testCode, actor, reason string) (*orders.Order, error) {
	if reason == "" {
		reason = DefaultRetestAuthorizationReason
	}

	test, err := r.getEscalated(ctx, orderId, testCode)
	if err != nil {
		return nil, err
	}
	retestNumber := test.RetestCount() + 1

	update := orders.EscalationUpdate{
		OrderId:      orderId,
		TestCode:     testCode,
		Resolution:   ResolutionRetestAuthorized,
		NewStatus:    orders.TestStatusSampleCollected,
		ClearResults: true,
		RetestNumber: &retestNumber,
		ResolvedAt:   time.Now(),
		ResolvedBy:   actor,
		Notes:        &reason,
	}

	return r.resolve(ctx, update)
}

func (r *resolver) FinalReject(ctx context.Context, orderId, testCode, actor, reason string) (*orders.Order, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required to finally reject a test", errs.Validation)
	}

	test, err := r.getEscalated(ctx, orderId, testCode)
	if err != nil {
		return nil, err
	}
	if test.SampleId == nil {
		return nil, fmt.Errorf("%w: test %s has no sample to recollect", errs.PolicyViolation, testCode)
	}
	originalSampleId := *test.SampleId

	record := orders.RejectionRecord{
		Type:       orders.RejectionTypeRecollect,
		Reason:     reason,
		RejectedAt: time.Now(),
		RejectedBy: actor,
	}

	result, err := r.transaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		replacement, err := r.samples.CreateRecollection(sessCtx, originalSampleId, record)
		if err != nil {
			return nil, err
		}

		newSampleId := replacement.Id.Hex()
		update := orders.EscalationUpdate{
			OrderId:      orderId,
			TestCode:     testCode,
			Resolution:   ResolutionFinalRejected,
			NewStatus:    orders.TestStatusRejected,
			NewSampleId:  &newSampleId,
			ClearResults: true,
			ResolvedAt:   record.RejectedAt,
			ResolvedBy:   actor,
			Notes:        &reason,
		}

		return r.resolveInTxn(sessCtx, update)
	})
	if err != nil {
		return nil, mapStorageError(err)
	}

	r.logger.Infow("resolved escalation",
		"orderId", orderId,
		"testCode", testCode,
		"resolution", ResolutionFinalRejected,
		"actor", actor,
	)
	return result.(*orders.Order), nil
}

func (r *resolver) resolve(ctx context.Context, update orders.EscalationUpdate) (*orders.Order, error) {
	updated, err := r.resolveInTxn(ctx, update)
	if err != nil {
		return nil, mapStorageError(err)
	}

	r.logger.Infow("resolved escalation",
		"orderId", update.OrderId,
		"testCode", update.TestCode,
		"resolution", update.Resolution,
		"actor", update.ResolvedBy,
	)
	return updated, nil
}

func (r *resolver) resolveInTxn(ctx context.Context, update orders.EscalationUpdate) (*orders.Order, error) {
	updated, err := r.orders.ResolveEscalation(ctx, update)
	if err != nil {
		return nil, err
	}

	event, err := outbox.NewEvent(outbox.EventTypeEscalationResolutionNotice, outbox.EscalationResolutionNoticePayload{
		OrderId:    update.OrderId,
		TestCode:   update.TestCode,
		Resolution: update.Resolution,
		ResolvedBy: update.ResolvedBy,
	})
	if err != nil {
		return nil, err
	}
	if err := r.outbox.Create(ctx, event); err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *resolver) getEscalated(ctx context.Context, orderId, testCode string) (*orders.OrderTest, error) {
	order, err := r.orders.Get(ctx, orderId)
	if err != nil {
		return nil, mapStorageError(err)
	}
	test, err := order.Test(testCode)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if !test.NeedsEscalationReview() {
		return nil, fmt.Errorf("%w: test %s is not awaiting escalation review", errs.StaleState, testCode)
	}
	return test, nil
}
