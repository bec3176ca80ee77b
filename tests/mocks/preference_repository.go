package mocks

import (
	"context"

	"talentvet/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreference), args.Error(1)
}

func (m *PreferenceRepository) Upsert(ctx context.Context, pref *domain.NotificationPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}
