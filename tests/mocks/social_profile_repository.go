package mocks

import (
	"context"
	"time"

	"talentvet/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type SocialProfileRepository struct {
	mock.Mock
}

func (m *SocialProfileRepository) Create(ctx context.Context, profile *domain.SocialProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *SocialProfileRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.SocialProfile, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SocialProfile), args.Error(1)
}

func (m *SocialProfileRepository) ListActiveByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.SocialProfile, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SocialProfile), args.Error(1)
}

func (m *SocialProfileRepository) StampLastScanned(ctx context.Context, ids []uuid.UUID, scannedAt time.Time) error {
	args := m.Called(ctx, ids, scannedAt)
	return args.Error(0)
}
