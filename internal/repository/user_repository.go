package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"talentvet/internal/domain"
)

// UserRepository is read-only: account lifecycle belongs to the external
// auth collaborator. This service only resolves notification recipients.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.User, error)
	ListByCompanyRoles(ctx context.Context, companyID uuid.UUID, roles []domain.UserRole) ([]domain.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1 AND is_active`
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT * FROM users WHERE company_id = $1 AND is_active ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &users, query, companyID)
	return users, err
}

func (r *userRepository) ListByCompanyRoles(ctx context.Context, companyID uuid.UUID, roles []domain.UserRole) ([]domain.User, error) {
	if len(roles) == 0 {
		return []domain.User{}, nil
	}

	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	query, args, err := sqlx.In(
		`SELECT * FROM users WHERE company_id = ? AND is_active AND role IN (?) ORDER BY created_at ASC`,
		companyID, roleStrings,
	)
	if err != nil {
		return nil, err
	}

	var users []domain.User
	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, err
}
