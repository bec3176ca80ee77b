package mocks

import (
	"context"
	"time"

	"talentvet/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CandidateRepository struct {
	mock.Mock
}

func (m *CandidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}

func (m *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *CandidateRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, params domain.PaginationParams) ([]domain.Candidate, int64, error) {
	args := m.Called(ctx, companyID, params)
	return args.Get(0).([]domain.Candidate), args.Get(1).(int64), args.Error(2)
}

func (m *CandidateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CandidateStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *CandidateRepository) ListPendingForScreening(ctx context.Context, createdAfter time.Time) ([]domain.Candidate, error) {
	args := m.Called(ctx, createdAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *CandidateRepository) ListArchivable(ctx context.Context, updatedBefore time.Time) ([]domain.Candidate, error) {
	args := m.Called(ctx, updatedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}
