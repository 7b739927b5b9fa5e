package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/tealeg/xlsx/v3"
	"go.uber.org/zap"

	"github.com/openlabs-org/labops/alerts"
	errs "github.com/openlabs-org/labops/errors"
	"github.com/openlabs-org/labops/orders"
)

// DefaultTrendDays is the trailing window used when the caller does not
// ask for a specific one.
const DefaultTrendDays = 15

//go:generate go tool mockgen -source=./service.go -destination=./test/mock_service.go -package test MockService

type Service interface {
	Counts(ctx context.Context, day Day) (*Counts, error)
	Trends(ctx context.Context, day Day, days int) ([]TrendPoint, error)
	Report(ctx context.Context, day Day, days int) (*xlsx.File, error)
}

type service struct {
	snapshots orders.SnapshotService
	logger    *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(snapshots orders.SnapshotService, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		snapshots: snapshots,
		logger:    logger,
	}, nil
}

func (s *service) Counts(ctx context.Context, day Day) (*Counts, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	counts := Aggregate(snapshot, day)
	return &counts, nil
}

func (s *service) Trends(ctx context.Context, day Day, days int) ([]TrendPoint, error) {
	if days < 1 {
		days = DefaultTrendDays
	}
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Trend(snapshot, day, days), nil
}

func (s *service) Report(ctx context.Context, day Day, days int) (*xlsx.File, error) {
	if days < 1 {
		days = DefaultTrendDays
	}
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	report := NewReport(ReportData{
		GeneratedAt: time.Now(),
		Day:         day,
		Counts:      Aggregate(snapshot, day),
		Trend:       Trend(snapshot, day, days),
		Alerts:      alerts.Detect(snapshot),
	})

	file, err := report.Generate()
	if err != nil {
		return nil, fmt.Errorf("error generating workflow report: %w", err)
	}

	s.logger.Infow("generated workflow report", "day", day.Key(), "trendDays", days)
	return file, nil
}

func (s *service) snapshot(ctx context.Context) (*orders.Snapshot, error) {
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.Transport, err)
	}
	return snapshot, nil
}
