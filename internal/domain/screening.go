package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type ScreeningStatus string

const (
	ScreeningInProgress ScreeningStatus = "IN_PROGRESS"
	ScreeningCompleted  ScreeningStatus = "COMPLETED"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

var riskSeverity = map[RiskLevel]int{
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// Severity returns the ordinal position of the risk level. Unknown
// levels rank below LOW so they never win a worst-of reduction.
func (r RiskLevel) Severity() int {
	return riskSeverity[r]
}

func (r RiskLevel) Valid() bool {
	_, ok := riskSeverity[r]
	return ok
}

var (
	ErrScreeningNotFound = errors.New("screening not found")
	ErrNoAssessments     = errors.New("no assessments to aggregate")
)

type Screening struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CandidateID  uuid.UUID       `json:"candidate_id" db:"candidate_id"`
	Status       ScreeningStatus `json:"status" db:"status"`
	RiskLevel    *RiskLevel      `json:"risk_level,omitempty" db:"risk_level"`
	OverallScore *int            `json:"overall_score,omitempty" db:"overall_score"`
	Confidence   *int            `json:"confidence,omitempty" db:"confidence"`
	Summary      *string         `json:"summary,omitempty" db:"summary"`
	Findings     json.RawMessage `json:"findings,omitempty" db:"findings"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Assessment is the bounded result of analyzing a single social profile.
// It is never persisted on its own; the aggregator folds a batch of them
// into a screening outcome.
type Assessment struct {
	Score              int       `json:"professional_score"`
	RiskLevel          RiskLevel `json:"risk_level"`
	RiskFactors        []string  `json:"risk_factors"`
	PositiveIndicators []string  `json:"positive_indicators"`
	Summary            string    `json:"summary"`
	Confidence         int       `json:"confidence"`
}

type PlatformFinding struct {
	Platform           string    `json:"platform"`
	ProfileURL         string    `json:"profileUrl"`
	Username           string    `json:"username,omitempty"`
	ProfessionalScore  int       `json:"professionalScore"`
	RiskLevel          RiskLevel `json:"riskLevel"`
	RiskFactors        []string  `json:"riskFactors"`
	PositiveIndicators []string  `json:"positiveIndicators"`
	Summary            string    `json:"summary"`
}

type ScreeningFindings struct {
	Platforms                    []PlatformFinding `json:"platforms"`
	AggregatedRiskFactors        []string          `json:"aggregatedRiskFactors"`
	AggregatedPositiveIndicators []string          `json:"aggregatedPositiveIndicators"`
}

// Escalation is one row of the risk-escalation sweep: a candidate whose
// latest completed screening demands review but whose status never caught up.
type Escalation struct {
	CandidateID   uuid.UUID `db:"candidate_id"`
	CompanyID     uuid.UUID `db:"company_id"`
	CandidateName string    `db:"full_name"`
	ScreeningID   uuid.UUID `db:"screening_id"`
	RiskLevel     RiskLevel `db:"risk_level"`
}

// ScreeningOutcome is the aggregated result of one screening run.
type ScreeningOutcome struct {
	OverallScore int               `json:"overall_score"`
	RiskLevel    RiskLevel         `json:"risk_level"`
	Confidence   int               `json:"confidence"`
	Summary      string            `json:"summary"`
	Findings     ScreeningFindings `json:"findings"`
}
