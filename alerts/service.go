package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/outbox"
)

//go:generate go tool mockgen -source=./service.go -destination=./test/mock_service.go -package test MockService

type Service interface {
	// Pending returns the critical alerts that still require notification.
	Pending(ctx context.Context) ([]CriticalAlert, error)

	// Notify stamps the test as notified and records an outbox event.
	// Returns false when the test was already notified; repeated calls
	// are no-ops.
	Notify(ctx context.Context, alert CriticalAlert) (bool, error)

	// Acknowledge records that the care team has acted on the
	// notification.
	Acknowledge(ctx context.Context, orderId, testCode string) (bool, error)
}

type service struct {
	orders    orders.Repository
	snapshots orders.SnapshotService
	outbox    outbox.Repository
	logger    *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(
	ordersRepo orders.Repository,
	snapshots orders.SnapshotService,
	outboxRepo outbox.Repository,
	logger *zap.SugaredLogger,
) (Service, error) {
	return &service{
		orders:    ordersRepo,
		snapshots: snapshots,
		outbox:    outboxRepo,
		logger:    logger,
	}, nil
}

func (s *service) Pending(ctx context.Context) ([]CriticalAlert, error) {
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.Transport, err)
	}
	return Detect(snapshot), nil
}

func (s *service) Notify(ctx context.Context, alert CriticalAlert) (bool, error) {
	stamped, err := s.orders.SetCriticalNotified(ctx, alert.OrderId, alert.TestCode, time.Now())
	if err != nil {
		return false, mapStorageError(err)
	}
	if !stamped {
		return false, nil
	}

	event, err := outbox.NewEvent(outbox.EventTypeCriticalValueNotification, outbox.CriticalValueNotificationPayload{
		OrderId:   alert.OrderId,
		PatientId: alert.PatientId,
		TestCode:  alert.TestCode,
		Parameter: alert.Parameter,
		Value:     alert.Value,
		Kind:      string(alert.Kind),
	})
	if err != nil {
		return false, err
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		return false, mapStorageError(err)
	}

	s.logger.Infow("critical value notified",
		"orderId", alert.OrderId,
		"testCode", alert.TestCode,
		"parameter", alert.Parameter,
		"kind", alert.Kind,
	)
	return true, nil
}

func (s *service) Acknowledge(ctx context.Context, orderId, testCode string) (bool, error) {
	stamped, err := s.orders.SetCriticalAcknowledged(ctx, orderId, testCode, time.Now())
	if err != nil {
		return false, mapStorageError(err)
	}
	return stamped, nil
}

func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, orders.ErrTestNotFound):
		return fmt.Errorf("%w: %s", errs.NotFound, err)
	default:
		return fmt.Errorf("%w: %s", errs.Transport, err)
	}
}
