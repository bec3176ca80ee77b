package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RealtimePusher struct {
	mock.Mock
}

func (m *RealtimePusher) PushUser(ctx context.Context, userID uuid.UUID, event any) error {
	args := m.Called(ctx, userID, event)
	return args.Error(0)
}

func (m *RealtimePusher) PushCompany(ctx context.Context, companyID uuid.UUID, event any) error {
	args := m.Called(ctx, companyID, event)
	return args.Error(0)
}
