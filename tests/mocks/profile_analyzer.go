package mocks

import (
	"context"

	"talentvet/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ProfileAnalyzer struct {
	mock.Mock
}

func (m *ProfileAnalyzer) Analyze(ctx context.Context, profile domain.SocialProfile, candidate *domain.Candidate) domain.Assessment {
	args := m.Called(ctx, profile, candidate)
	return args.Get(0).(domain.Assessment)
}
