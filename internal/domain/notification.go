package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationType string

const (
	NotifScreeningCompleted NotificationType = "SCREENING_COMPLETED"
	NotifScreeningFailed    NotificationType = "SCREENING_FAILED"
	NotifCandidateAdded     NotificationType = "CANDIDATE_ADDED"
	NotifRiskAlert          NotificationType = "RISK_ALERT"
	NotifSystemAlert        NotificationType = "SYSTEM_ALERT"
	NotifManualReview       NotificationType = "MANUAL_REVIEW_REQUIRED"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityMedium NotificationPriority = "MEDIUM"
	PriorityHigh   NotificationPriority = "HIGH"
	PriorityUrgent NotificationPriority = "URGENT"
)

type Notification struct {
	ID          uuid.UUID            `json:"id" db:"id"`
	UserID      uuid.UUID            `json:"user_id" db:"user_id"`
	Type        NotificationType     `json:"type" db:"type"`
	Priority    NotificationPriority `json:"priority" db:"priority"`
	Title       string               `json:"title" db:"title"`
	Message     string               `json:"message" db:"message"`
	CandidateID *uuid.UUID           `json:"candidate_id,omitempty" db:"candidate_id"`
	ScreeningID *uuid.UUID           `json:"screening_id,omitempty" db:"screening_id"`
	IsRead      bool                 `json:"is_read" db:"is_read"`
	ReadAt      *time.Time           `json:"read_at,omitempty" db:"read_at"`
	IsEmailSent bool                 `json:"is_email_sent" db:"is_email_sent"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
}

// NotificationPreference holds the per-user delivery toggles. The in-app
// notification row and realtime push are never gated by it; only email is.
type NotificationPreference struct {
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	ScreeningCompleted bool      `json:"screening_completed" db:"screening_completed"`
	CandidateAdded     bool      `json:"candidate_added" db:"candidate_added"`
	RiskAlerts         bool      `json:"risk_alerts" db:"risk_alerts"`
	SystemAlerts       bool      `json:"system_alerts" db:"system_alerts"`
	EmailEnabled       bool      `json:"email_enabled" db:"email_enabled"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

func DefaultNotificationPreference(userID uuid.UUID) *NotificationPreference {
	return &NotificationPreference{
		UserID:             userID,
		ScreeningCompleted: true,
		CandidateAdded:     true,
		RiskAlerts:         true,
		SystemAlerts:       true,
		EmailEnabled:       true,
	}
}

// AllowsEmail reports whether email delivery is enabled for the given
// notification type, honoring the master toggle first.
func (p *NotificationPreference) AllowsEmail(t NotificationType) bool {
	if p == nil || !p.EmailEnabled {
		return false
	}
	switch t {
	case NotifScreeningCompleted, NotifScreeningFailed:
		return p.ScreeningCompleted
	case NotifCandidateAdded:
		return p.CandidateAdded
	case NotifRiskAlert:
		return p.RiskAlerts
	case NotifSystemAlert, NotifManualReview:
		return p.SystemAlerts
	default:
		return false
	}
}

type UpdatePreferenceInput struct {
	ScreeningCompleted *bool `json:"screening_completed,omitempty"`
	CandidateAdded     *bool `json:"candidate_added,omitempty"`
	RiskAlerts         *bool `json:"risk_alerts,omitempty"`
	SystemAlerts       *bool `json:"system_alerts,omitempty"`
	EmailEnabled       *bool `json:"email_enabled,omitempty"`
}
