package candidate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentvet/internal/domain"
	"talentvet/internal/repository"
	"talentvet/internal/service/notification"
)

// Service is the thin candidate surface this service carries; full
// candidate management lives in the external CRUD collaborator.
type Service interface {
	Create(ctx context.Context, companyID, createdBy uuid.UUID, input domain.CreateCandidateInput) (*domain.Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	List(ctx context.Context, companyID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Candidate], error)
	ListProfiles(ctx context.Context, candidateID uuid.UUID) ([]domain.SocialProfile, error)
}

type service struct {
	candidateRepo repository.CandidateRepository
	profileRepo   repository.SocialProfileRepository
	userRepo      repository.UserRepository
	notifSvc      notification.Service
	logger        *zap.Logger
}

func NewService(
	candidateRepo repository.CandidateRepository,
	profileRepo repository.SocialProfileRepository,
	userRepo repository.UserRepository,
	notifSvc notification.Service,
	logger *zap.Logger,
) Service {
	return &service{
		candidateRepo: candidateRepo,
		profileRepo:   profileRepo,
		userRepo:      userRepo,
		notifSvc:      notifSvc,
		logger:        logger,
	}
}

func (s *service) Create(ctx context.Context, companyID, createdBy uuid.UUID, input domain.CreateCandidateInput) (*domain.Candidate, error) {
	candidate := &domain.Candidate{
		ID:        uuid.New(),
		CompanyID: companyID,
		FullName:  input.FullName,
		Email:     input.Email,
		Position:  input.Position,
		Status:    domain.CandidatePending,
	}

	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		return nil, err
	}

	for _, p := range input.Profiles {
		profile := &domain.SocialProfile{
			ID:          uuid.New(),
			CandidateID: candidate.ID,
			Platform:    p.Platform,
			URL:         p.URL,
			Username:    p.Username,
			IsActive:    true,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("create social profile: %w", err)
		}
	}

	s.notifyAdded(ctx, candidate, createdBy)

	return candidate, nil
}

func (s *service) notifyAdded(ctx context.Context, candidate *domain.Candidate, createdBy uuid.UUID) {
	users, err := s.userRepo.ListByCompany(ctx, candidate.CompanyID)
	if err != nil {
		s.logger.Warn("failed to resolve recipients for new candidate",
			zap.String("candidate_id", candidate.ID.String()),
			zap.Error(err),
		)
		return
	}

	payload := notification.Payload{
		Type:        domain.NotifCandidateAdded,
		Priority:    domain.PriorityMedium,
		Title:       "New candidate added",
		Message:     fmt.Sprintf("%s was added and is queued for screening.", candidate.FullName),
		CandidateID: &candidate.ID,
	}

	recipients := make([]uuid.UUID, 0, len(users))
	for _, user := range users {
		if user.ID == createdBy {
			continue
		}
		recipients = append(recipients, user.ID)
	}
	s.notifSvc.NotifyMany(ctx, recipients, payload)

	// Ephemeral company-wide ping so open dashboards refresh.
	if err := s.notifSvc.BroadcastCompany(ctx, candidate.CompanyID, payload); err != nil {
		s.logger.Warn("company broadcast failed",
			zap.String("company_id", candidate.CompanyID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Candidate], error) {
	candidates, total, err := s.candidateRepo.ListByCompany(ctx, companyID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Candidate]{}, err
	}
	return domain.NewPaginatedResponse(candidates, params.Page, params.PageSize, total), nil
}

func (s *service) ListProfiles(ctx context.Context, candidateID uuid.UUID) ([]domain.SocialProfile, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrCandidateNotFound
	}
	return s.profileRepo.ListByCandidate(ctx, candidateID)
}
