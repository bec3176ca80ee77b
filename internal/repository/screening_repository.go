package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"talentvet/internal/domain"
)

type ScreeningRepository interface {
	Create(ctx context.Context, screening *domain.Screening) error
	Complete(ctx context.Context, screening *domain.Screening) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Screening, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Screening, error)
	LatestCompletedByCandidate(ctx context.Context, candidateID uuid.UUID) (*domain.Screening, error)
	ListEscalations(ctx context.Context) ([]domain.Escalation, error)
}

type screeningRepository struct {
	db *sqlx.DB
}

func NewScreeningRepository(db *sqlx.DB) ScreeningRepository {
	return &screeningRepository{db: db}
}

func (r *screeningRepository) Create(ctx context.Context, screening *domain.Screening) error {
	query := `
		INSERT INTO screenings (id, candidate_id, status)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		screening.ID, screening.CandidateID, screening.Status,
	).Scan(&screening.CreatedAt)
}

// Complete writes the terminal state of a screening. This is the only
// mutation a screening row ever receives.
func (r *screeningRepository) Complete(ctx context.Context, screening *domain.Screening) error {
	query := `
		UPDATE screenings
		SET status = $2, risk_level = $3, overall_score = $4, confidence = $5,
		    summary = $6, findings = $7, completed_at = $8
		WHERE id = $1 AND status = $9`

	_, err := r.db.ExecContext(ctx, query,
		screening.ID, domain.ScreeningCompleted, screening.RiskLevel, screening.OverallScore,
		screening.Confidence, screening.Summary, screening.Findings, screening.CompletedAt,
		domain.ScreeningInProgress,
	)
	return err
}

func (r *screeningRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Screening, error) {
	var screening domain.Screening
	query := `SELECT * FROM screenings WHERE id = $1`
	err := r.db.GetContext(ctx, &screening, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &screening, nil
}

func (r *screeningRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Screening, error) {
	var screenings []domain.Screening
	query := `SELECT * FROM screenings WHERE candidate_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &screenings, query, candidateID)
	return screenings, err
}

// LatestCompletedByCandidate ignores IN_PROGRESS rows; an interrupted run
// must never feed lifecycle decisions.
func (r *screeningRepository) LatestCompletedByCandidate(ctx context.Context, candidateID uuid.UUID) (*domain.Screening, error) {
	var screening domain.Screening
	query := `
		SELECT * FROM screenings
		WHERE candidate_id = $1 AND status = $2
		ORDER BY completed_at DESC
		LIMIT 1`
	err := r.db.GetContext(ctx, &screening, query, candidateID, domain.ScreeningCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &screening, nil
}

// ListEscalations finds candidates whose most recent completed screening is
// HIGH or CRITICAL while their status still lags behind REQUIRES_REVIEW.
func (r *screeningRepository) ListEscalations(ctx context.Context) ([]domain.Escalation, error) {
	var escalations []domain.Escalation
	query := `
		SELECT c.id AS candidate_id, c.company_id, c.full_name,
		       s.id AS screening_id, s.risk_level
		FROM candidates c
		JOIN LATERAL (
			SELECT id, risk_level FROM screenings
			WHERE candidate_id = c.id AND status = $1
			ORDER BY completed_at DESC
			LIMIT 1
		) s ON true
		WHERE s.risk_level IN ($2, $3)
		  AND c.status NOT IN ($4, $5)`
	err := r.db.SelectContext(ctx, &escalations, query,
		domain.ScreeningCompleted, domain.RiskHigh, domain.RiskCritical,
		domain.CandidateRequiresReview, domain.CandidateArchived,
	)
	return escalations, err
}
