package mocks

import (
	"context"

	"talentvet/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ArchiveService struct {
	mock.Mock
}

func (m *ArchiveService) ExportCandidate(ctx context.Context, candidate *domain.Candidate, profiles []domain.SocialProfile, screenings []domain.Screening) (string, error) {
	args := m.Called(ctx, candidate, profiles, screenings)
	return args.String(0), args.Error(1)
}
