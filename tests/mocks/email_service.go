package mocks

import (
	"context"

	"talentvet/internal/domain"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendNotificationEmail(ctx context.Context, toEmail, recipientName string, notif *domain.Notification) error {
	args := m.Called(ctx, toEmail, recipientName, notif)
	return args.Error(0)
}
