package mocks

import (
	"context"

	"talentvet/internal/domain"
	"talentvet/internal/service/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Notify(ctx context.Context, userID uuid.UUID, payload notification.Payload) error {
	args := m.Called(ctx, userID, payload)
	return args.Error(0)
}

func (m *NotificationService) NotifyMany(ctx context.Context, userIDs []uuid.UUID, payload notification.Payload) {
	m.Called(ctx, userIDs, payload)
}

func (m *NotificationService) BroadcastCompany(ctx context.Context, companyID uuid.UUID, payload notification.Payload) error {
	args := m.Called(ctx, companyID, payload)
	return args.Error(0)
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreference), args.Error(1)
}

func (m *NotificationService) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferenceInput) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreference), args.Error(1)
}
