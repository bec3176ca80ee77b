package maintenance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentvet/internal/domain"
	"talentvet/internal/service/maintenance"
	"talentvet/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	candidateRetention    = 90 * 24 * time.Hour
	notificationRetention = 30 * 24 * time.Hour
)

type maintenanceFixture struct {
	candidateRepo *mocks.CandidateRepository
	profileRepo   *mocks.SocialProfileRepository
	screeningRepo *mocks.ScreeningRepository
	notifRepo     *mocks.NotificationRepository
	archiveSvc    *mocks.ArchiveService
	svc           maintenance.Service
}

func newMaintenanceFixture() *maintenanceFixture {
	f := &maintenanceFixture{
		candidateRepo: new(mocks.CandidateRepository),
		profileRepo:   new(mocks.SocialProfileRepository),
		screeningRepo: new(mocks.ScreeningRepository),
		notifRepo:     new(mocks.NotificationRepository),
		archiveSvc:    new(mocks.ArchiveService),
	}
	f.svc = maintenance.NewService(
		f.candidateRepo, f.profileRepo, f.screeningRepo, f.notifRepo,
		f.archiveSvc, candidateRetention, notificationRetention, zap.NewNop(),
	)
	return f
}

func cutoffNear(expected time.Time) any {
	return mock.MatchedBy(func(cutoff time.Time) bool {
		diff := cutoff.Sub(expected)
		if diff < 0 {
			diff = -diff
		}
		return diff < time.Minute
	})
}

func TestMaintenanceService_RunCleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("Archives And Purges", func(t *testing.T) {
		f := newMaintenanceFixture()
		candidate := domain.Candidate{ID: uuid.New(), Status: domain.CandidateRejected}

		f.candidateRepo.On("ListArchivable", ctx, cutoffNear(time.Now().UTC().Add(-candidateRetention))).
			Return([]domain.Candidate{candidate}, nil).Once()
		f.profileRepo.On("ListByCandidate", ctx, candidate.ID).Return([]domain.SocialProfile{}, nil).Once()
		f.screeningRepo.On("ListByCandidate", ctx, candidate.ID).Return([]domain.Screening{}, nil).Once()
		f.archiveSvc.On("ExportCandidate", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return("candidates/"+candidate.ID.String()+".json", nil).Once()
		f.candidateRepo.On("UpdateStatus", ctx, candidate.ID, domain.CandidateArchived).Return(nil).Once()

		f.notifRepo.On("DeleteReadBefore", ctx, cutoffNear(time.Now().UTC().Add(-notificationRetention))).
			Return(int64(7), nil).Once()

		result := f.svc.RunCleanup(ctx)

		assert.Equal(t, 1, result.CandidatesArchived)
		assert.Equal(t, 0, result.CandidatesFailed)
		assert.Equal(t, int64(7), result.NotificationsPurged)
		f.candidateRepo.AssertExpectations(t)
		f.archiveSvc.AssertExpectations(t)
	})

	t.Run("Recent Terminal Candidate Skipped", func(t *testing.T) {
		f := newMaintenanceFixture()
		candidate := domain.Candidate{
			ID:        uuid.New(),
			Status:    domain.CandidateRejected,
			UpdatedAt: time.Now().UTC().Add(-24 * time.Hour),
		}

		// Even if the repo hands back a row inside the retention window,
		// the service must not archive it.
		f.candidateRepo.On("ListArchivable", ctx, mock.Anything).
			Return([]domain.Candidate{candidate}, nil).Once()
		f.notifRepo.On("DeleteReadBefore", ctx, mock.Anything).Return(int64(0), nil).Once()

		result := f.svc.RunCleanup(ctx)

		assert.Equal(t, 0, result.CandidatesArchived)
		assert.Equal(t, 0, result.CandidatesFailed)
		f.archiveSvc.AssertNotCalled(t, "ExportCandidate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.candidateRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Export Failure Leaves Candidate", func(t *testing.T) {
		f := newMaintenanceFixture()
		candidate := domain.Candidate{ID: uuid.New(), Status: domain.CandidateHired}

		f.candidateRepo.On("ListArchivable", ctx, mock.Anything).
			Return([]domain.Candidate{candidate}, nil).Once()
		f.profileRepo.On("ListByCandidate", ctx, candidate.ID).Return([]domain.SocialProfile{}, nil).Once()
		f.screeningRepo.On("ListByCandidate", ctx, candidate.ID).Return([]domain.Screening{}, nil).Once()
		f.archiveSvc.On("ExportCandidate", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("bucket unavailable")).Once()
		f.notifRepo.On("DeleteReadBefore", ctx, mock.Anything).Return(int64(0), nil).Once()

		result := f.svc.RunCleanup(ctx)

		assert.Equal(t, 0, result.CandidatesArchived)
		assert.Equal(t, 1, result.CandidatesFailed)
		f.candidateRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Archival Failure Does Not Block Purge", func(t *testing.T) {
		f := newMaintenanceFixture()

		f.candidateRepo.On("ListArchivable", ctx, mock.Anything).
			Return(nil, errors.New("db down")).Once()
		f.notifRepo.On("DeleteReadBefore", ctx, mock.Anything).Return(int64(3), nil).Once()

		result := f.svc.RunCleanup(ctx)

		assert.Equal(t, 0, result.CandidatesArchived)
		assert.Equal(t, int64(3), result.NotificationsPurged)
	})
}
