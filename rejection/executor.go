package rejection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/outbox"
	"github.com/openlabs-org/labops/store"
)

// Rejection is an operator's request to act on a rejected result.
type Rejection struct {
	OrderId  string
	TestCode string
	Action   orders.RejectionType
	Reason   string
	Actor    string
}

//go:generate go tool mockgen -source=./executor.go -destination=./test/mock_executor.go -package test MockService

type Service interface {
	// Options returns the actions currently permitted for the test,
	// evaluated against the stored order. The result is a pre-flight
	// hint; Reject re-evaluates before writing.
	Options(ctx context.Context, orderId, testCode string) (*Evaluation, error)

	// Reject validates the request against the policy and applies it as
	// a single conditional write. Re-collect additionally creates a
	// replacement sample linked to the rejected one, atomically.
	Reject(ctx context.Context, rejection Rejection) (*orders.Order, error)
}

type executor struct {
	orders      orders.Repository
	samples     orders.SampleRepository
	outbox      outbox.Repository
	transaction store.TransactionRunner
	limits      Limits
	logger      *zap.SugaredLogger
}

var _ Service = &executor{}

func NewExecutor(
	ordersRepo orders.Repository,
	samples orders.SampleRepository,
	outboxRepo outbox.Repository,
	transaction store.TransactionRunner,
	limits Limits,
	logger *zap.SugaredLogger,
) (Service, error) {
	return &executor{
		orders:      ordersRepo,
		samples:     samples,
		outbox:      outboxRepo,
		transaction: transaction,
		limits:      limits,
		logger:      logger,
	}, nil
}

func (e *executor) Options(ctx context.Context, orderId, testCode string) (*Evaluation, error) {
	order, test, err := e.getRejectable(ctx, orderId, testCode)
	if err != nil {
		return nil, err
	}

	evaluation := EvaluateForOrder(order, test, e.limits)
	return &evaluation, nil
}

func (e *executor) Reject(ctx context.Context, rejection Rejection) (*orders.Order, error) {
	if rejection.Reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", errs.Validation)
	}

	switch rejection.Action {
	case orders.RejectionTypeRetest, orders.RejectionTypeRecollect, orders.RejectionTypeEscalate:
	default:
		return nil, fmt.Errorf("%w: unknown rejection action %q", errs.Validation, rejection.Action)
	}

	order, test, err := e.getRejectable(ctx, rejection.OrderId, rejection.TestCode)
	if err != nil {
		return nil, err
	}

	// The evaluation here is authoritative: the subsequent write carries
	// the evaluated state as its precondition, so a concurrent actor
	// turns into ErrStale rather than a double-spent budget.
	evaluation := EvaluateForOrder(order, test, e.limits)
	if !evaluation.Permits(rejection.Action) {
		return nil, fmt.Errorf("%w: %s is not permitted for test %s", errs.PolicyViolation, rejection.Action, rejection.TestCode)
	}

	record := orders.RejectionRecord{
		Type:       rejection.Action,
		Reason:     rejection.Reason,
		RejectedAt: time.Now(),
		RejectedBy: rejection.Actor,
	}

	update := orders.RejectionUpdate{
		OrderId:            rejection.OrderId,
		TestCode:           rejection.TestCode,
		Record:             record,
		ExpectedStatus:     test.Status,
		ExpectedRejections: len(test.RejectionHistory),
	}

	var updated *orders.Order
	switch rejection.Action {
	case orders.RejectionTypeRetest:
		retestNumber := test.RetestCount() + 1
		update.NewStatus = orders.TestStatusSampleCollected
		update.ClearResults = true
		update.RetestNumber = &retestNumber
		updated, err = e.orders.ApplyRejection(ctx, update)
	case orders.RejectionTypeEscalate:
		update.NewStatus = orders.TestStatusRejected
		updated, err = e.orders.ApplyRejection(ctx, update)
	case orders.RejectionTypeRecollect:
		updated, err = e.recollect(ctx, test, update, record)
	}
	if err != nil {
		return nil, mapStorageError(err)
	}

	e.logger.Infow("applied result rejection",
		"orderId", rejection.OrderId,
		"testCode", rejection.TestCode,
		"action", rejection.Action,
		"actor", rejection.Actor,
	)
	return updated, nil
}

// recollect rejects the current sample, inserts a linked replacement,
// resets the test to await collection and records the recollection
// request in the outbox, all in one transaction.
func (e *executor) recollect(ctx context.Context, test *orders.OrderTest, update orders.RejectionUpdate, record orders.RejectionRecord) (*orders.Order, error) {
	if test.SampleId == nil {
		return nil, fmt.Errorf("%w: test %s has no sample to recollect", errs.PolicyViolation, test.TestCode)
	}
	originalSampleId := *test.SampleId

	result, err := e.transaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		replacement, err := e.samples.CreateRecollection(sessCtx, originalSampleId, record)
		if err != nil {
			return nil, err
		}

		newSampleId := replacement.Id.Hex()
		update.NewStatus = orders.TestStatusPending
		update.NewSampleId = &newSampleId
		update.ClearResults = true

		updated, err := e.orders.ApplyRejection(sessCtx, update)
		if err != nil {
			return nil, err
		}

		event, err := outbox.NewEvent(outbox.EventTypeSampleRecollectionRequest, outbox.SampleRecollectionRequestPayload{
			OrderId:          update.OrderId,
			TestCode:         update.TestCode,
			OriginalSampleId: originalSampleId,
			NewSampleId:      newSampleId,
			RequestedBy:      record.RejectedBy,
		})
		if err != nil {
			return nil, err
		}
		if err := e.outbox.Create(sessCtx, event); err != nil {
			return nil, err
		}

		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*orders.Order), nil
}

func (e *executor) getRejectable(ctx context.Context, orderId, testCode string) (*orders.Order, *orders.OrderTest, error) {
	order, err := e.orders.Get(ctx, orderId)
	if err != nil {
		return nil, nil, mapStorageError(err)
	}
	test, err := order.Test(testCode)
	if err != nil {
		return nil, nil, mapStorageError(err)
	}
	if !orders.RejectableStatuses.Contains(test.Status) {
		return nil, nil, fmt.Errorf("%w: test %s is %s and cannot be rejected", errs.PolicyViolation, testCode, test.Status)
	}
	return order, test, nil
}

// mapStorageError turns repository sentinels into the error taxonomy the
// handlers expose. Anything unrecognized is a transport failure and safe
// to retry.
func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, orders.ErrStale):
		return fmt.Errorf("%w: %s", errs.StaleState, err)
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, orders.ErrTestNotFound), errors.Is(err, orders.ErrSampleNotFound):
		return fmt.Errorf("%w: %s", errs.NotFound, err)
	case errors.Is(err, errs.Validation), errors.Is(err, errs.PolicyViolation),
		errors.Is(err, errs.NotFound), errors.Is(err, errs.StaleState), errors.Is(err, errs.Transport):
		return err
	default:
		return fmt.Errorf("%w: %s", errs.Transport, err)
	}
}
