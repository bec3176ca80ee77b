package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"talentvet/internal/domain"
	"talentvet/internal/repository"
	"talentvet/internal/service/notification"
)

const (
	defaultConcurrency = 8
	runLockTTL         = 5 * time.Minute
	pendingSweepWindow = 24 * time.Hour
)

// Analyzer assesses one social profile. Implementations absorb their own
// failures into a fallback assessment, so this call cannot fail.
type Analyzer interface {
	Analyze(ctx context.Context, profile domain.SocialProfile, candidate *domain.Candidate) domain.Assessment
}

type Service interface {
	Run(ctx context.Context, candidateID uuid.UUID) (*domain.Screening, error)
	RunManual(ctx context.Context, candidateID, requestedBy uuid.UUID) (*domain.Screening, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Screening, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Screening, error)
	LatestByCandidate(ctx context.Context, candidateID uuid.UUID) (*domain.Screening, error)
	RunPendingSweep(ctx context.Context) (SweepResult, error)
	RunEscalationSweep(ctx context.Context) (SweepResult, error)
}

// SweepResult reports the per-item outcome counts of one scheduled sweep.
type SweepResult struct {
	Processed int
	Succeeded int
	Failed    int
}

type service struct {
	candidateRepo repository.CandidateRepository
	profileRepo   repository.SocialProfileRepository
	screeningRepo repository.ScreeningRepository
	userRepo      repository.UserRepository
	analyzer      Analyzer
	notifSvc      notification.Service
	redis         *redis.Client
	concurrency   int
	logger        *zap.Logger
}

func NewService(
	candidateRepo repository.CandidateRepository,
	profileRepo repository.SocialProfileRepository,
	screeningRepo repository.ScreeningRepository,
	userRepo repository.UserRepository,
	analyzer Analyzer,
	notifSvc notification.Service,
	redisClient *redis.Client,
	concurrency int,
	logger *zap.Logger,
) Service {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &service{
		candidateRepo: candidateRepo,
		profileRepo:   profileRepo,
		screeningRepo: screeningRepo,
		userRepo:      userRepo,
		analyzer:      analyzer,
		notifSvc:      notifSvc,
		redis:         redisClient,
		concurrency:   concurrency,
		logger:        logger,
	}
}

// Run executes one screening for the candidate: fan out analysis across the
// active profiles, aggregate, persist, apply the status transition policy
// and notify the candidate's company. A failure after the screening row is
// created leaves it IN_PROGRESS; such rows are never resumed.
func (s *service) Run(ctx context.Context, candidateID uuid.UUID) (*domain.Screening, error) {
	return s.run(ctx, candidateID, nil)
}

// RunManual is the on-demand trigger. Unlike sweep runs, a failure after
// the screening row exists sends SCREENING_FAILED to the requesting user,
// since nobody is watching a sweep log on their behalf.
func (s *service) RunManual(ctx context.Context, candidateID, requestedBy uuid.UUID) (*domain.Screening, error) {
	return s.run(ctx, candidateID, &requestedBy)
}

func (s *service) run(ctx context.Context, candidateID uuid.UUID, requestedBy *uuid.UUID) (*domain.Screening, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}
	if candidate == nil {
		return nil, domain.ErrCandidateNotFound
	}

	profiles, err := s.profileRepo.ListActiveByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, domain.ErrNoActiveProfiles
	}

	unlock, err := s.acquireRunLock(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	screening := &domain.Screening{
		ID:          uuid.New(),
		CandidateID: candidateID,
		Status:      domain.ScreeningInProgress,
	}
	if err := s.screeningRepo.Create(ctx, screening); err != nil {
		return nil, fmt.Errorf("create screening: %w", err)
	}

	s.logger.Info("screening started",
		zap.String("screening_id", screening.ID.String()),
		zap.String("candidate_id", candidateID.String()),
		zap.Int("profiles", len(profiles)),
	)

	fail := func(err error) (*domain.Screening, error) {
		s.notifyFailed(ctx, candidate, screening, requestedBy)
		return nil, err
	}

	assessments := s.analyzeProfiles(ctx, profiles, candidate)

	outcome, err := Aggregate(assessments, profiles)
	if err != nil {
		return fail(fmt.Errorf("aggregate assessments: %w", err))
	}

	findingsJSON, err := json.Marshal(outcome.Findings)
	if err != nil {
		return fail(fmt.Errorf("marshal findings: %w", err))
	}

	now := time.Now().UTC()
	screening.Status = domain.ScreeningCompleted
	screening.RiskLevel = &outcome.RiskLevel
	screening.OverallScore = &outcome.OverallScore
	screening.Confidence = &outcome.Confidence
	screening.Summary = &outcome.Summary
	screening.Findings = findingsJSON
	screening.CompletedAt = &now
	if err := s.screeningRepo.Complete(ctx, screening); err != nil {
		return fail(fmt.Errorf("complete screening: %w", err))
	}

	s.stampProfiles(ctx, profiles, now)

	if err := s.applyTransition(ctx, candidate, outcome); err != nil {
		return fail(err)
	}

	s.notifyCompleted(ctx, candidate, screening, outcome)

	s.logger.Info("screening completed",
		zap.String("screening_id", screening.ID.String()),
		zap.String("candidate_id", candidateID.String()),
		zap.String("risk_level", string(outcome.RiskLevel)),
		zap.Int("overall_score", outcome.OverallScore),
	)

	return screening, nil
}

// analyzeProfiles fans out over the active profiles with bounded
// parallelism and waits for every slot to fill. The analyzer never errors,
// so one bad profile cannot cancel its siblings.
func (s *service) analyzeProfiles(ctx context.Context, profiles []domain.SocialProfile, candidate *domain.Candidate) []domain.Assessment {
	assessments := make([]domain.Assessment, len(profiles))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, profile := range profiles {
		g.Go(func() error {
			assessments[i] = s.analyzer.Analyze(ctx, profile, candidate)
			return nil
		})
	}
	_ = g.Wait()

	return assessments
}

// stampProfiles records last_scanned on every analyzed profile, fallback
// contributions included. Best effort: a stamp failure does not invalidate
// the completed screening.
func (s *service) stampProfiles(ctx context.Context, profiles []domain.SocialProfile, scannedAt time.Time) {
	ids := make([]uuid.UUID, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	if err := s.profileRepo.StampLastScanned(ctx, ids, scannedAt); err != nil {
		s.logger.Warn("failed to stamp scanned profiles", zap.Error(err))
	}
}

func (s *service) applyTransition(ctx context.Context, candidate *domain.Candidate, outcome *domain.ScreeningOutcome) error {
	next := NextStatus(candidate.Status, outcome.RiskLevel, outcome.OverallScore)
	if next == candidate.Status {
		return nil
	}

	if err := s.candidateRepo.UpdateStatus(ctx, candidate.ID, next); err != nil {
		return fmt.Errorf("transition candidate status: %w", err)
	}

	s.logger.Info("candidate status transitioned",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("from", string(candidate.Status)),
		zap.String("to", string(next)),
	)
	candidate.Status = next
	return nil
}

// NextStatus is the screening status-transition policy: high-severity
// outcomes force a review, a clean low-risk outcome with a strong score
// approves, anything else leaves the candidate untouched.
func NextStatus(current domain.CandidateStatus, level domain.RiskLevel, score int) domain.CandidateStatus {
	switch {
	case level == domain.RiskHigh || level == domain.RiskCritical:
		return domain.CandidateRequiresReview
	case level == domain.RiskLow && score >= 80:
		return domain.CandidateApproved
	default:
		return current
	}
}

func (s *service) notifyCompleted(ctx context.Context, candidate *domain.Candidate, screening *domain.Screening, outcome *domain.ScreeningOutcome) {
	users, err := s.userRepo.ListByCompany(ctx, candidate.CompanyID)
	if err != nil {
		s.logger.Warn("failed to resolve notification recipients",
			zap.String("candidate_id", candidate.ID.String()),
			zap.Error(err),
		)
		return
	}

	userIDs := make([]uuid.UUID, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}

	s.notifSvc.NotifyMany(ctx, userIDs, notification.Payload{
		Type:     domain.NotifScreeningCompleted,
		Priority: PriorityForRisk(outcome.RiskLevel),
		Title:    "Screening completed",
		Message: fmt.Sprintf("Screening for %s finished with %s risk (score %d/100).",
			candidate.FullName, outcome.RiskLevel, outcome.OverallScore),
		CandidateID: &candidate.ID,
		ScreeningID: &screening.ID,
	})
}

// notifyFailed tells the requesting user their run did not complete. Sweep
// runs carry no requester and stay silent; the hourly sweep retries any
// candidate that never produced a completed screening.
func (s *service) notifyFailed(ctx context.Context, candidate *domain.Candidate, screening *domain.Screening, requestedBy *uuid.UUID) {
	if requestedBy == nil {
		return
	}

	err := s.notifSvc.Notify(ctx, *requestedBy, notification.Payload{
		Type:        domain.NotifScreeningFailed,
		Priority:    domain.PriorityHigh,
		Title:       "Screening failed",
		Message:     fmt.Sprintf("Screening for %s did not complete. Trigger it again to retry.", candidate.FullName),
		CandidateID: &candidate.ID,
		ScreeningID: &screening.ID,
	})
	if err != nil {
		s.logger.Warn("failed to deliver screening failure notification",
			zap.String("candidate_id", candidate.ID.String()),
			zap.Error(err),
		)
	}
}

// PriorityForRisk maps a screening risk level onto notification priority.
func PriorityForRisk(level domain.RiskLevel) domain.NotificationPriority {
	switch level {
	case domain.RiskCritical:
		return domain.PriorityUrgent
	case domain.RiskHigh:
		return domain.PriorityHigh
	default:
		return domain.PriorityMedium
	}
}

// acquireRunLock takes the per-candidate advisory lock so the on-demand
// trigger and the batch sweep cannot open two screenings for one candidate.
func (s *service) acquireRunLock(ctx context.Context, candidateID uuid.UUID) (func(), error) {
	if s.redis == nil {
		return func() {}, nil
	}

	key := "screening:lock:" + candidateID.String()
	ok, err := s.redis.SetNX(ctx, key, "1", runLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire screening lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrScreeningInProgress
	}

	return func() {
		if err := s.redis.Del(context.Background(), key).Err(); err != nil {
			s.logger.Warn("failed to release screening lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Screening, error) {
	screening, err := s.screeningRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, domain.ErrScreeningNotFound
	}
	return screening, nil
}

func (s *service) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Screening, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrCandidateNotFound
	}
	return s.screeningRepo.ListByCandidate(ctx, candidateID)
}

// LatestByCandidate returns the candidate's most recent completed
// screening. Inert IN_PROGRESS rows never surface here.
func (s *service) LatestByCandidate(ctx context.Context, candidateID uuid.UUID) (*domain.Screening, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrCandidateNotFound
	}

	latest, err := s.screeningRepo.LatestCompletedByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, domain.ErrScreeningNotFound
	}
	return latest, nil
}

// RunPendingSweep screens every recently added candidate that is still
// PENDING and was never screened. Per-candidate failures are counted, not
// propagated, so one bad candidate cannot abort the batch.
func (s *service) RunPendingSweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	candidates, err := s.candidateRepo.ListPendingForScreening(ctx, time.Now().UTC().Add(-pendingSweepWindow))
	if err != nil {
		return result, fmt.Errorf("list pending candidates: %w", err)
	}

	result.Processed = len(candidates)
	for _, candidate := range candidates {
		if _, err := s.Run(ctx, candidate.ID); err != nil {
			result.Failed++
			s.logger.Warn("batch screening failed for candidate",
				zap.String("candidate_id", candidate.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Succeeded++
	}

	return result, nil
}

// RunEscalationSweep forces REQUIRES_REVIEW on candidates whose latest
// completed screening is HIGH or CRITICAL but whose status never caught up,
// and alerts the company's admins and managers.
func (s *service) RunEscalationSweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	escalations, err := s.screeningRepo.ListEscalations(ctx)
	if err != nil {
		return result, fmt.Errorf("list escalations: %w", err)
	}

	result.Processed = len(escalations)
	for _, esc := range escalations {
		if err := s.candidateRepo.UpdateStatus(ctx, esc.CandidateID, domain.CandidateRequiresReview); err != nil {
			result.Failed++
			s.logger.Warn("escalation transition failed",
				zap.String("candidate_id", esc.CandidateID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Succeeded++

		recipients, err := s.userRepo.ListByCompanyRoles(ctx, esc.CompanyID, []domain.UserRole{domain.RoleAdmin, domain.RoleManager})
		if err != nil {
			s.logger.Warn("failed to resolve escalation recipients",
				zap.String("candidate_id", esc.CandidateID.String()),
				zap.Error(err),
			)
			continue
		}

		userIDs := make([]uuid.UUID, len(recipients))
		for i, u := range recipients {
			userIDs[i] = u.ID
		}
		s.notifSvc.NotifyMany(ctx, userIDs, notification.Payload{
			Type:     domain.NotifRiskAlert,
			Priority: domain.PriorityUrgent,
			Title:    "Candidate requires review",
			Message: fmt.Sprintf("%s was flagged %s risk by a screening but had not been moved to review.",
				esc.CandidateName, esc.RiskLevel),
			CandidateID: &esc.CandidateID,
			ScreeningID: &esc.ScreeningID,
		})
	}

	return result, nil
}
