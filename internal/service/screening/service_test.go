package screening_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"talentvet/internal/domain"
	"talentvet/internal/service/analyzer"
	"talentvet/internal/service/notification"
	"talentvet/internal/service/screening"
	"talentvet/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type flakyScorer struct {
	failPlatform string
}

func (s *flakyScorer) Score(ctx context.Context, profile domain.SocialProfile, candidate *domain.Candidate) (*domain.Assessment, error) {
	if profile.Platform == s.failPlatform {
		return nil, errors.New("upstream unavailable")
	}
	return &domain.Assessment{Score: 90, RiskLevel: domain.RiskLow, Confidence: 85}, nil
}

type screeningFixture struct {
	candidateRepo *mocks.CandidateRepository
	profileRepo   *mocks.SocialProfileRepository
	screeningRepo *mocks.ScreeningRepository
	userRepo      *mocks.UserRepository
	analyzer      *mocks.ProfileAnalyzer
	notifSvc      *mocks.NotificationService
	svc           screening.Service
}

func newScreeningFixture() *screeningFixture {
	f := &screeningFixture{
		candidateRepo: new(mocks.CandidateRepository),
		profileRepo:   new(mocks.SocialProfileRepository),
		screeningRepo: new(mocks.ScreeningRepository),
		userRepo:      new(mocks.UserRepository),
		analyzer:      new(mocks.ProfileAnalyzer),
		notifSvc:      new(mocks.NotificationService),
	}
	f.svc = screening.NewService(
		f.candidateRepo, f.profileRepo, f.screeningRepo, f.userRepo,
		f.analyzer, f.notifSvc, nil, 4, zap.NewNop(),
	)
	return f
}

func TestScreeningService_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("High Risk Forces Review", func(t *testing.T) {
		f := newScreeningFixture()
		candidateID := uuid.New()
		companyID := uuid.New()
		candidate := &domain.Candidate{
			ID:        candidateID,
			CompanyID: companyID,
			FullName:  "Ada Example",
			Status:    domain.CandidatePending,
		}
		profiles := []domain.SocialProfile{
			{ID: uuid.New(), CandidateID: candidateID, Platform: "LINKEDIN", URL: "https://linkedin.com/in/ada", IsActive: true},
			{ID: uuid.New(), CandidateID: candidateID, Platform: "TWITTER", URL: "https://twitter.com/ada", IsActive: true},
		}

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(candidate, nil).Once()
		f.profileRepo.On("ListActiveByCandidate", ctx, candidateID).Return(profiles, nil).Once()
		f.screeningRepo.On("Create", ctx, mock.MatchedBy(func(s *domain.Screening) bool {
			return s.CandidateID == candidateID && s.Status == domain.ScreeningInProgress
		})).Return(nil).Once()

		f.analyzer.On("Analyze", mock.Anything, mock.MatchedBy(func(p domain.SocialProfile) bool {
			return p.ID == profiles[0].ID
		}), candidate).Return(domain.Assessment{Score: 85, RiskLevel: domain.RiskLow, Confidence: 90}).Once()
		f.analyzer.On("Analyze", mock.Anything, mock.MatchedBy(func(p domain.SocialProfile) bool {
			return p.ID == profiles[1].ID
		}), candidate).Return(domain.Assessment{Score: 35, RiskLevel: domain.RiskHigh, Confidence: 80}).Once()

		f.screeningRepo.On("Complete", ctx, mock.MatchedBy(func(s *domain.Screening) bool {
			return s.Status == domain.ScreeningCompleted &&
				*s.RiskLevel == domain.RiskHigh &&
				*s.OverallScore == 60 &&
				s.CompletedAt != nil
		})).Return(nil).Once()
		f.profileRepo.On("StampLastScanned", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.candidateRepo.On("UpdateStatus", ctx, candidateID, domain.CandidateRequiresReview).Return(nil).Once()

		recipients := []domain.User{
			{ID: uuid.New(), CompanyID: companyID, Role: domain.RoleAdmin},
			{ID: uuid.New(), CompanyID: companyID, Role: domain.RoleRecruiter},
		}
		f.userRepo.On("ListByCompany", ctx, companyID).Return(recipients, nil).Once()
		f.notifSvc.On("NotifyMany", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool {
			return len(ids) == 2
		}), mock.MatchedBy(func(p notification.Payload) bool {
			return p.Type == domain.NotifScreeningCompleted && p.Priority == domain.PriorityHigh
		})).Return().Once()

		result, err := f.svc.Run(ctx, candidateID)

		assert.NoError(t, err)
		assert.Equal(t, domain.ScreeningCompleted, result.Status)
		assert.Equal(t, domain.RiskHigh, *result.RiskLevel)
		assert.Equal(t, 60, *result.OverallScore)

		f.candidateRepo.AssertExpectations(t)
		f.screeningRepo.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Clean Low Risk Approves", func(t *testing.T) {
		f := newScreeningFixture()
		candidateID := uuid.New()
		candidate := &domain.Candidate{
			ID:        candidateID,
			CompanyID: uuid.New(),
			FullName:  "Ben Example",
			Status:    domain.CandidatePending,
		}
		profiles := []domain.SocialProfile{
			{ID: uuid.New(), CandidateID: candidateID, Platform: "GITHUB", URL: "https://github.com/ben", IsActive: true},
		}

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(candidate, nil).Once()
		f.profileRepo.On("ListActiveByCandidate", ctx, candidateID).Return(profiles, nil).Once()
		f.screeningRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.analyzer.On("Analyze", mock.Anything, mock.Anything, candidate).
			Return(domain.Assessment{Score: 92, RiskLevel: domain.RiskLow, Confidence: 88}).Once()
		f.screeningRepo.On("Complete", ctx, mock.Anything).Return(nil).Once()
		f.profileRepo.On("StampLastScanned", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.candidateRepo.On("UpdateStatus", ctx, candidateID, domain.CandidateApproved).Return(nil).Once()
		f.userRepo.On("ListByCompany", ctx, candidate.CompanyID).Return([]domain.User{}, nil).Once()
		f.notifSvc.On("NotifyMany", ctx, mock.Anything, mock.Anything).Return().Once()

		_, err := f.svc.Run(ctx, candidateID)

		assert.NoError(t, err)
		f.candidateRepo.AssertExpectations(t)
	})

	t.Run("Medium Risk Leaves Status", func(t *testing.T) {
		f := newScreeningFixture()
		candidateID := uuid.New()
		candidate := &domain.Candidate{
			ID:        candidateID,
			CompanyID: uuid.New(),
			Status:    domain.CandidatePending,
		}
		profiles := []domain.SocialProfile{
			{ID: uuid.New(), CandidateID: candidateID, Platform: "TWITTER", URL: "https://twitter.com/cy", IsActive: true},
		}

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(candidate, nil).Once()
		f.profileRepo.On("ListActiveByCandidate", ctx, candidateID).Return(profiles, nil).Once()
		f.screeningRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.analyzer.On("Analyze", mock.Anything, mock.Anything, candidate).
			Return(domain.Assessment{Score: 85, RiskLevel: domain.RiskMedium, Confidence: 70}).Once()
		f.screeningRepo.On("Complete", ctx, mock.Anything).Return(nil).Once()
		f.profileRepo.On("StampLastScanned", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.userRepo.On("ListByCompany", ctx, candidate.CompanyID).Return([]domain.User{}, nil).Once()
		f.notifSvc.On("NotifyMany", ctx, mock.Anything, mock.Anything).Return().Once()

		_, err := f.svc.Run(ctx, candidateID)

		assert.NoError(t, err)
		f.candidateRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("One Failed Analysis Falls Back", func(t *testing.T) {
		f := newScreeningFixture()
		candidateID := uuid.New()
		candidate := &domain.Candidate{
			ID:        candidateID,
			CompanyID: uuid.New(),
			FullName:  "Dee Example",
			Status:    domain.CandidatePending,
		}
		profiles := []domain.SocialProfile{
			{ID: uuid.New(), CandidateID: candidateID, Platform: "LINKEDIN", URL: "https://linkedin.com/in/dee", IsActive: true},
			{ID: uuid.New(), CandidateID: candidateID, Platform: "TWITTER", URL: "https://twitter.com/dee", IsActive: true},
			{ID: uuid.New(), CandidateID: candidateID, Platform: "GITHUB", URL: "https://github.com/dee", IsActive: true},
		}

		// One scorer failure per run; the analyzer absorbs it into the
		// conservative fallback and the batch still completes.
		scorer := &flakyScorer{failPlatform: "TWITTER"}
		svc := screening.NewService(
			f.candidateRepo, f.profileRepo, f.screeningRepo, f.userRepo,
			analyzer.NewService(scorer, 0, zap.NewNop()), f.notifSvc, nil, 4, zap.NewNop(),
		)

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(candidate, nil).Once()
		f.profileRepo.On("ListActiveByCandidate", ctx, candidateID).Return(profiles, nil).Once()
		f.screeningRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.screeningRepo.On("Complete", ctx, mock.MatchedBy(func(s *domain.Screening) bool {
			var findings domain.ScreeningFindings
			if err := json.Unmarshal(s.Findings, &findings); err != nil {
				return false
			}
			return s.Status == domain.ScreeningCompleted &&
				len(findings.Platforms) == 3 &&
				findings.Platforms[1].RiskLevel == domain.RiskMedium &&
				findings.Platforms[1].ProfessionalScore == 75
		})).Return(nil).Once()
		f.profileRepo.On("StampLastScanned", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.candidateRepo.On("UpdateStatus", ctx, candidateID, mock.Anything).Return(nil).Maybe()
		f.userRepo.On("ListByCompany", ctx, candidate.CompanyID).Return([]domain.User{}, nil).Once()
		f.notifSvc.On("NotifyMany", ctx, mock.Anything, mock.Anything).Return().Once()

		result, err := svc.Run(ctx, candidateID)

		assert.NoError(t, err)
		assert.Equal(t, domain.ScreeningCompleted, result.Status)
		f.screeningRepo.AssertExpectations(t)
	})

	t.Run("Manual Run Failure Notifies Requester", func(t *testing.T) {
		f := newScreeningFixture()
		candidateID := uuid.New()
		requesterID := uuid.New()
		candidate := &domain.Candidate{
			ID:        candidateID,
			CompanyID: uuid.New(),
			FullName:  "Eva Example",
			Status:    domain.CandidatePending,
		}
		profiles := []domain.SocialProfile{
			{ID: uuid.New(), CandidateID: candidateID, Platform: "LINKEDIN", URL: "https://linkedin.com/in/eva", IsActive: true},
		}

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(candidate, nil).Once()
		f.profileRepo.On("ListActiveByCandidate", ctx, candidateID).Return(profiles, nil).Once()
		f.screeningRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.analyzer.On("Analyze", mock.Anything, mock.Anything, candidate).
			Return(domain.Assessment{Score: 80, RiskLevel: domain.RiskLow, Confidence: 75}).Once()
		f.screeningRepo.On("Complete", ctx, mock.Anything).Return(errors.New("db down")).Once()

		f.notifSvc.On("Notify", ctx, requesterID, mock.MatchedBy(func(p notification.Payload) bool {
			return p.Type == domain.NotifScreeningFailed &&
				p.Priority == domain.PriorityHigh &&
				*p.CandidateID == candidateID
		})).Return(nil).Once()

		result, err := f.svc.RunManual(ctx, candidateID, requesterID)

		assert.Error(t, err)
		assert.Nil(t, result)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Sweep Run Failure Stays Silent", func(t *testing.T) {
		f := newScreeningFixture()
		candidateID := uuid.New()
		candidate := &domain.Candidate{
			ID:        candidateID,
			CompanyID: uuid.New(),
			Status:    domain.CandidatePending,
		}
		profiles := []domain.SocialProfile{
			{ID: uuid.New(), CandidateID: candidateID, Platform: "GITHUB", URL: "https://github.com/fay", IsActive: true},
		}

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(candidate, nil).Once()
		f.profileRepo.On("ListActiveByCandidate", ctx, candidateID).Return(profiles, nil).Once()
		f.screeningRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.analyzer.On("Analyze", mock.Anything, mock.Anything, candidate).
			Return(domain.Assessment{Score: 80, RiskLevel: domain.RiskLow, Confidence: 75}).Once()
		f.screeningRepo.On("Complete", ctx, mock.Anything).Return(errors.New("db down")).Once()

		result, err := f.svc.Run(ctx, candidateID)

		assert.Error(t, err)
		assert.Nil(t, result)
		f.notifSvc.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Candidate Not Found", func(t *testing.T) {
		f := newScreeningFixture()
		candidateID := uuid.New()

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(nil, nil).Once()

		result, err := f.svc.Run(ctx, candidateID)

		assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
		assert.Nil(t, result)
	})

	t.Run("No Active Profiles", func(t *testing.T) {
		f := newScreeningFixture()
		candidateID := uuid.New()
		candidate := &domain.Candidate{ID: candidateID, Status: domain.CandidatePending}

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(candidate, nil).Once()
		f.profileRepo.On("ListActiveByCandidate", ctx, candidateID).Return([]domain.SocialProfile{}, nil).Once()

		result, err := f.svc.Run(ctx, candidateID)

		assert.ErrorIs(t, err, domain.ErrNoActiveProfiles)
		assert.Nil(t, result)
		f.screeningRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name    string
		current domain.CandidateStatus
		level   domain.RiskLevel
		score   int
		want    domain.CandidateStatus
	}{
		{"Critical Forces Review", domain.CandidatePending, domain.RiskCritical, 90, domain.CandidateRequiresReview},
		{"High Forces Review", domain.CandidateApproved, domain.RiskHigh, 90, domain.CandidateRequiresReview},
		{"Low With Strong Score Approves", domain.CandidatePending, domain.RiskLow, 80, domain.CandidateApproved},
		{"Low With Weak Score Keeps Status", domain.CandidatePending, domain.RiskLow, 79, domain.CandidatePending},
		{"Medium Keeps Status", domain.CandidatePending, domain.RiskMedium, 95, domain.CandidatePending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, screening.NextStatus(tc.current, tc.level, tc.score))
		})
	}
}

func TestPriorityForRisk(t *testing.T) {
	assert.Equal(t, domain.PriorityUrgent, screening.PriorityForRisk(domain.RiskCritical))
	assert.Equal(t, domain.PriorityHigh, screening.PriorityForRisk(domain.RiskHigh))
	assert.Equal(t, domain.PriorityMedium, screening.PriorityForRisk(domain.RiskMedium))
	assert.Equal(t, domain.PriorityMedium, screening.PriorityForRisk(domain.RiskLow))
}

func TestScreeningService_GetByID(t *testing.T) {
	f := newScreeningFixture()
	ctx := context.Background()
	screeningID := uuid.New()

	t.Run("Found", func(t *testing.T) {
		expected := &domain.Screening{ID: screeningID, Status: domain.ScreeningCompleted}
		f.screeningRepo.On("GetByID", ctx, screeningID).Return(expected, nil).Once()

		result, err := f.svc.GetByID(ctx, screeningID)

		assert.NoError(t, err)
		assert.Equal(t, expected, result)
	})

	t.Run("Not Found", func(t *testing.T) {
		f.screeningRepo.On("GetByID", ctx, screeningID).Return(nil, nil).Once()

		result, err := f.svc.GetByID(ctx, screeningID)

		assert.ErrorIs(t, err, domain.ErrScreeningNotFound)
		assert.Nil(t, result)
	})
}

func TestScreeningService_LatestByCandidate(t *testing.T) {
	ctx := context.Background()
	candidateID := uuid.New()

	t.Run("Returns Latest Completed", func(t *testing.T) {
		f := newScreeningFixture()
		expected := &domain.Screening{ID: uuid.New(), CandidateID: candidateID, Status: domain.ScreeningCompleted}

		f.candidateRepo.On("GetByID", ctx, candidateID).
			Return(&domain.Candidate{ID: candidateID}, nil).Once()
		f.screeningRepo.On("LatestCompletedByCandidate", ctx, candidateID).Return(expected, nil).Once()

		result, err := f.svc.LatestByCandidate(ctx, candidateID)

		assert.NoError(t, err)
		assert.Equal(t, expected, result)
	})

	t.Run("No Completed Screening", func(t *testing.T) {
		f := newScreeningFixture()

		f.candidateRepo.On("GetByID", ctx, candidateID).
			Return(&domain.Candidate{ID: candidateID}, nil).Once()
		f.screeningRepo.On("LatestCompletedByCandidate", ctx, candidateID).Return(nil, nil).Once()

		result, err := f.svc.LatestByCandidate(ctx, candidateID)

		assert.ErrorIs(t, err, domain.ErrScreeningNotFound)
		assert.Nil(t, result)
	})

	t.Run("Candidate Missing", func(t *testing.T) {
		f := newScreeningFixture()

		f.candidateRepo.On("GetByID", ctx, candidateID).Return(nil, nil).Once()

		result, err := f.svc.LatestByCandidate(ctx, candidateID)

		assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
		assert.Nil(t, result)
	})
}

func TestScreeningService_RunPendingSweep(t *testing.T) {
	f := newScreeningFixture()
	ctx := context.Background()

	goodID := uuid.New()
	badID := uuid.New()
	companyID := uuid.New()
	candidates := []domain.Candidate{
		{ID: goodID, CompanyID: companyID, Status: domain.CandidatePending},
		{ID: badID, CompanyID: companyID, Status: domain.CandidatePending},
	}

	f.candidateRepo.On("ListPendingForScreening", ctx, mock.Anything).Return(candidates, nil).Once()

	good := candidates[0]
	f.candidateRepo.On("GetByID", ctx, goodID).Return(&good, nil).Once()
	f.profileRepo.On("ListActiveByCandidate", ctx, goodID).Return([]domain.SocialProfile{
		{ID: uuid.New(), CandidateID: goodID, Platform: "LINKEDIN", URL: "https://linkedin.com/in/good", IsActive: true},
	}, nil).Once()
	f.screeningRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.Assessment{Score: 70, RiskLevel: domain.RiskMedium, Confidence: 60}).Once()
	f.screeningRepo.On("Complete", ctx, mock.Anything).Return(nil).Once()
	f.profileRepo.On("StampLastScanned", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	f.userRepo.On("ListByCompany", ctx, companyID).Return([]domain.User{}, nil).Once()
	f.notifSvc.On("NotifyMany", ctx, mock.Anything, mock.Anything).Return().Once()

	f.candidateRepo.On("GetByID", ctx, badID).Return(nil, errors.New("db down")).Once()

	result, err := f.svc.RunPendingSweep(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	f.candidateRepo.AssertExpectations(t)
}

func TestScreeningService_RunEscalationSweep(t *testing.T) {
	f := newScreeningFixture()
	ctx := context.Background()

	companyID := uuid.New()
	flagged := domain.Escalation{
		CandidateID:   uuid.New(),
		CompanyID:     companyID,
		CandidateName: "Cara Example",
		ScreeningID:   uuid.New(),
		RiskLevel:     domain.RiskCritical,
	}
	stuck := domain.Escalation{
		CandidateID: uuid.New(),
		CompanyID:   companyID,
		ScreeningID: uuid.New(),
		RiskLevel:   domain.RiskHigh,
	}

	f.screeningRepo.On("ListEscalations", ctx).Return([]domain.Escalation{flagged, stuck}, nil).Once()

	f.candidateRepo.On("UpdateStatus", ctx, flagged.CandidateID, domain.CandidateRequiresReview).Return(nil).Once()
	managers := []domain.User{{ID: uuid.New(), CompanyID: companyID, Role: domain.RoleManager}}
	f.userRepo.On("ListByCompanyRoles", ctx, companyID, []domain.UserRole{domain.RoleAdmin, domain.RoleManager}).
		Return(managers, nil).Once()
	f.notifSvc.On("NotifyMany", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 1 && ids[0] == managers[0].ID
	}), mock.MatchedBy(func(p notification.Payload) bool {
		return p.Type == domain.NotifRiskAlert && p.Priority == domain.PriorityUrgent
	})).Return().Once()

	f.candidateRepo.On("UpdateStatus", ctx, stuck.CandidateID, domain.CandidateRequiresReview).
		Return(errors.New("db down")).Once()

	result, err := f.svc.RunEscalationSweep(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	f.notifSvc.AssertExpectations(t)
}
