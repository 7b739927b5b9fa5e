package patients

import (
	"context"

	"go.uber.org/zap"

	"github.com/openlabs-org/labops/store"
)

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:   repo,
		logger: logger,
	}, nil
}

func (s *service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Patient, error) {
	return s.repo.List(ctx, filter, pagination)
}

func (s *service) Create(ctx context.Context, patient Patient) (*Patient, error) {
	created, err := s.repo.Create(ctx, patient)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("created patient", "id", created.Id.Hex())
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, patient Patient) (*Patient, error) {
	return s.repo.Update(ctx, id, patient)
}

func (s *service) Remove(ctx context.Context, id string) error {
	return s.repo.Remove(ctx, id)
}
