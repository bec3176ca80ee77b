package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"talentvet/internal/domain"
)

type CandidateRepository interface {
	Create(ctx context.Context, candidate *domain.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, params domain.PaginationParams) ([]domain.Candidate, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CandidateStatus) error
	ListPendingForScreening(ctx context.Context, createdAfter time.Time) ([]domain.Candidate, error)
	ListArchivable(ctx context.Context, updatedBefore time.Time) ([]domain.Candidate, error)
}

type candidateRepository struct {
	db *sqlx.DB
}

func NewCandidateRepository(db *sqlx.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	query := `
		INSERT INTO candidates (id, company_id, full_name, email, position, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		candidate.ID, candidate.CompanyID, candidate.FullName, candidate.Email, candidate.Position, candidate.Status,
	).Scan(&candidate.CreatedAt, &candidate.UpdatedAt)
}

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	var candidate domain.Candidate
	query := `SELECT * FROM candidates WHERE id = $1`
	err := r.db.GetContext(ctx, &candidate, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, params domain.PaginationParams) ([]domain.Candidate, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM candidates WHERE company_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, companyID); err != nil {
		return nil, 0, err
	}

	var candidates []domain.Candidate
	query := `
		SELECT * FROM candidates
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &candidates, query, companyID, params.PageSize, params.Offset())
	return candidates, total, err
}

func (r *candidateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CandidateStatus) error {
	query := `UPDATE candidates SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

// ListPendingForScreening selects candidates eligible for the batch sweep:
// still PENDING, created after the cutoff, never screened, with at least
// one active social profile.
func (r *candidateRepository) ListPendingForScreening(ctx context.Context, createdAfter time.Time) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	query := `
		SELECT c.* FROM candidates c
		WHERE c.status = $1
		  AND c.created_at >= $2
		  AND NOT EXISTS (SELECT 1 FROM screenings s WHERE s.candidate_id = c.id)
		  AND EXISTS (SELECT 1 FROM social_profiles p WHERE p.candidate_id = c.id AND p.is_active)
		ORDER BY c.created_at ASC`
	err := r.db.SelectContext(ctx, &candidates, query, domain.CandidatePending, createdAfter)
	return candidates, err
}

func (r *candidateRepository) ListArchivable(ctx context.Context, updatedBefore time.Time) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	query := `
		SELECT * FROM candidates
		WHERE status IN ($1, $2)
		  AND updated_at < $3
		ORDER BY updated_at ASC`
	err := r.db.SelectContext(ctx, &candidates, query, domain.CandidateRejected, domain.CandidateHired, updatedBefore)
	return candidates, err
}
