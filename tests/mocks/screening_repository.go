package mocks

import (
	"context"

	"talentvet/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ScreeningRepository struct {
	mock.Mock
}

func (m *ScreeningRepository) Create(ctx context.Context, screening *domain.Screening) error {
	args := m.Called(ctx, screening)
	return args.Error(0)
}

func (m *ScreeningRepository) Complete(ctx context.Context, screening *domain.Screening) error {
	args := m.Called(ctx, screening)
	return args.Error(0)
}

func (m *ScreeningRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Screening, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Screening), args.Error(1)
}

func (m *ScreeningRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Screening, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Screening), args.Error(1)
}

func (m *ScreeningRepository) LatestCompletedByCandidate(ctx context.Context, candidateID uuid.UUID) (*domain.Screening, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Screening), args.Error(1)
}

func (m *ScreeningRepository) ListEscalations(ctx context.Context) ([]domain.Escalation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Escalation), args.Error(1)
}
