package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"talentvet/internal/domain"
)

type PreferenceRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error)
	Upsert(ctx context.Context, pref *domain.NotificationPreference) error
}

type preferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	var pref domain.NotificationPreference
	query := `SELECT * FROM notification_preferences WHERE user_id = $1`
	err := r.db.GetContext(ctx, &pref, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, pref *domain.NotificationPreference) error {
	query := `
		INSERT INTO notification_preferences
			(user_id, screening_completed, candidate_added, risk_alerts, system_alerts, email_enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			screening_completed = EXCLUDED.screening_completed,
			candidate_added = EXCLUDED.candidate_added,
			risk_alerts = EXCLUDED.risk_alerts,
			system_alerts = EXCLUDED.system_alerts,
			email_enabled = EXCLUDED.email_enabled,
			updated_at = NOW()
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		pref.UserID, pref.ScreeningCompleted, pref.CandidateAdded, pref.RiskAlerts,
		pref.SystemAlerts, pref.EmailEnabled,
	).Scan(&pref.UpdatedAt)
}
