package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	CandidatePending        CandidateStatus = "PENDING"
	CandidateRequiresReview CandidateStatus = "REQUIRES_REVIEW"
	CandidateApproved       CandidateStatus = "APPROVED"
	CandidateRejected       CandidateStatus = "REJECTED"
	CandidateHired          CandidateStatus = "HIRED"
	CandidateArchived       CandidateStatus = "ARCHIVED"
)

// IsTerminal reports whether the status is a final hiring decision.
// Only terminal candidates are eligible for archival.
func (s CandidateStatus) IsTerminal() bool {
	return s == CandidateRejected || s == CandidateHired
}

var (
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrNoActiveProfiles    = errors.New("candidate has no active social profiles")
	ErrScreeningInProgress = errors.New("a screening is already running for this candidate")
)

type Candidate struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CompanyID uuid.UUID       `json:"company_id" db:"company_id"`
	FullName  string          `json:"full_name" db:"full_name"`
	Email     string          `json:"email" db:"email"`
	Position  *string         `json:"position,omitempty" db:"position"`
	Status    CandidateStatus `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ArchivableAt reports whether the candidate may be archived under the
// given retention cutoff: a terminal status AND untouched since before the
// cutoff. Both legs are required; a candidate rejected yesterday stays.
func (c *Candidate) ArchivableAt(cutoff time.Time) bool {
	return c.Status.IsTerminal() && c.UpdatedAt.Before(cutoff)
}

type SocialProfile struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CandidateID uuid.UUID  `json:"candidate_id" db:"candidate_id"`
	Platform    string     `json:"platform" db:"platform"`
	URL         string     `json:"url" db:"url"`
	Username    *string    `json:"username,omitempty" db:"username"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	LastScanned *time.Time `json:"last_scanned,omitempty" db:"last_scanned"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type CreateCandidateInput struct {
	FullName string               `json:"full_name" validate:"required,min=2"`
	Email    string               `json:"email" validate:"required,email"`
	Position *string              `json:"position,omitempty"`
	Profiles []CreateProfileInput `json:"profiles,omitempty"`
}

type CreateProfileInput struct {
	Platform string  `json:"platform" validate:"required"`
	URL      string  `json:"url" validate:"required,url"`
	Username *string `json:"username,omitempty"`
}
