package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"talentvet/internal/domain"
)

type SocialProfileRepository interface {
	Create(ctx context.Context, profile *domain.SocialProfile) error
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.SocialProfile, error)
	ListActiveByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.SocialProfile, error)
	StampLastScanned(ctx context.Context, ids []uuid.UUID, scannedAt time.Time) error
}

type socialProfileRepository struct {
	db *sqlx.DB
}

func NewSocialProfileRepository(db *sqlx.DB) SocialProfileRepository {
	return &socialProfileRepository{db: db}
}

func (r *socialProfileRepository) Create(ctx context.Context, profile *domain.SocialProfile) error {
	query := `
		INSERT INTO social_profiles (id, candidate_id, platform, url, username, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		profile.ID, profile.CandidateID, profile.Platform, profile.URL, profile.Username, profile.IsActive,
	).Scan(&profile.CreatedAt)
}

func (r *socialProfileRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.SocialProfile, error) {
	var profiles []domain.SocialProfile
	query := `SELECT * FROM social_profiles WHERE candidate_id = $1 ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &profiles, query, candidateID)
	return profiles, err
}

func (r *socialProfileRepository) ListActiveByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.SocialProfile, error) {
	var profiles []domain.SocialProfile
	query := `SELECT * FROM social_profiles WHERE candidate_id = $1 AND is_active ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &profiles, query, candidateID)
	return profiles, err
}

// StampLastScanned marks every listed profile as scanned in one statement.
func (r *socialProfileRepository) StampLastScanned(ctx context.Context, ids []uuid.UUID, scannedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := `UPDATE social_profiles SET last_scanned = $1 WHERE id = ANY($2)`
	_, err := r.db.ExecContext(ctx, query, scannedAt, pq.Array(idStrings))
	return err
}
