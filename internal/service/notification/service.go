package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentvet/internal/domain"
	"talentvet/internal/repository"
	"talentvet/internal/service/email"
	"talentvet/internal/service/realtime"
)

// Payload describes one event to deliver. The dispatcher resolves per
// recipient how it goes out: the notification row and realtime push are
// unconditional, email is gated by the recipient's preferences.
type Payload struct {
	Type        domain.NotificationType
	Priority    domain.NotificationPriority
	Title       string
	Message     string
	CandidateID *uuid.UUID
	ScreeningID *uuid.UUID
}

type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, payload Payload) error
	NotifyMany(ctx context.Context, userIDs []uuid.UUID, payload Payload)
	BroadcastCompany(ctx context.Context, companyID uuid.UUID, payload Payload) error

	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferenceInput) (*domain.NotificationPreference, error)
}

type service struct {
	notifRepo repository.NotificationRepository
	prefRepo  repository.PreferenceRepository
	userRepo  repository.UserRepository
	realtime  realtime.Pusher
	emailSvc  email.Service
	logger    *zap.Logger
}

func NewService(
	notifRepo repository.NotificationRepository,
	prefRepo repository.PreferenceRepository,
	userRepo repository.UserRepository,
	pusher realtime.Pusher,
	emailSvc email.Service,
	logger *zap.Logger,
) Service {
	return &service{
		notifRepo: notifRepo,
		prefRepo:  prefRepo,
		userRepo:  userRepo,
		realtime:  pusher,
		emailSvc:  emailSvc,
		logger:    logger,
	}
}

// Notify creates the notification row, pushes it on the recipient's
// realtime channel and, preferences permitting, emails it. Email failures
// are logged and swallowed: the realtime channel is the guaranteed path.
func (s *service) Notify(ctx context.Context, userID uuid.UUID, payload Payload) error {
	notif := &domain.Notification{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        payload.Type,
		Priority:    payload.Priority,
		Title:       payload.Title,
		Message:     payload.Message,
		CandidateID: payload.CandidateID,
		ScreeningID: payload.ScreeningID,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if s.realtime != nil {
		if err := s.realtime.PushUser(ctx, userID, notif); err != nil {
			s.logger.Warn("realtime push failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}

	s.deliverEmail(ctx, notif)
	return nil
}

// NotifyMany fires Notify once per recipient; each delivery is independent
// and a failure for one recipient never blocks the rest.
func (s *service) NotifyMany(ctx context.Context, userIDs []uuid.UUID, payload Payload) {
	for _, userID := range userIDs {
		if err := s.Notify(ctx, userID, payload); err != nil {
			s.logger.Warn("notification delivery failed",
				zap.String("user_id", userID.String()),
				zap.String("type", string(payload.Type)),
				zap.Error(err),
			)
		}
	}
}

// BroadcastCompany pushes an ephemeral event on the company channel
// without creating per-user rows. Used for low-priority broadcasts.
func (s *service) BroadcastCompany(ctx context.Context, companyID uuid.UUID, payload Payload) error {
	if s.realtime == nil {
		return nil
	}
	return s.realtime.PushCompany(ctx, companyID, payload)
}

func (s *service) deliverEmail(ctx context.Context, notif *domain.Notification) {
	if s.emailSvc == nil {
		return
	}

	user, err := s.userRepo.GetByID(ctx, notif.UserID)
	if err != nil || user == nil || user.Email == "" {
		if err != nil {
			s.logger.Warn("failed to load email recipient",
				zap.String("user_id", notif.UserID.String()),
				zap.Error(err),
			)
		}
		return
	}

	pref, err := s.GetPreferences(ctx, notif.UserID)
	if err != nil {
		s.logger.Warn("failed to load notification preferences",
			zap.String("user_id", notif.UserID.String()),
			zap.Error(err),
		)
		return
	}
	if !pref.AllowsEmail(notif.Type) {
		return
	}

	if err := s.emailSvc.SendNotificationEmail(ctx, user.Email, user.FullName, notif); err != nil {
		s.logger.Warn("email delivery failed",
			zap.String("user_id", notif.UserID.String()),
			zap.String("type", string(notif.Type)),
			zap.Error(err),
		)
		return
	}

	if err := s.notifRepo.MarkEmailSent(ctx, notif.ID); err != nil {
		s.logger.Warn("failed to mark email sent",
			zap.String("notification_id", notif.ID.String()),
			zap.Error(err),
		)
		return
	}
	notif.IsEmailSent = true
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

// MarkAsRead flips the read flag after verifying the notification belongs
// to the caller. A foreign ID reads as not found rather than forbidden.
func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notif == nil || notif.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// GetPreferences returns the user's preferences, lazily creating the
// default row on first access.
func (s *service) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	pref, err := s.prefRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref != nil {
		return pref, nil
	}

	pref = domain.DefaultNotificationPreference(userID)
	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("create default preferences: %w", err)
	}
	return pref, nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferenceInput) (*domain.NotificationPreference, error) {
	pref, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ScreeningCompleted != nil {
		pref.ScreeningCompleted = *input.ScreeningCompleted
	}
	if input.CandidateAdded != nil {
		pref.CandidateAdded = *input.CandidateAdded
	}
	if input.RiskAlerts != nil {
		pref.RiskAlerts = *input.RiskAlerts
	}
	if input.SystemAlerts != nil {
		pref.SystemAlerts = *input.SystemAlerts
	}
	if input.EmailEnabled != nil {
		pref.EmailEnabled = *input.EmailEnabled
	}

	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}
