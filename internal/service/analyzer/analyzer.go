package analyzer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"talentvet/internal/domain"
)

// Scorer produces a raw per-profile assessment. The Gemini implementation
// is the production scorer; tests substitute fakes.
type Scorer interface {
	Score(ctx context.Context, profile domain.SocialProfile, candidate *domain.Candidate) (*domain.Assessment, error)
}

const (
	fallbackScore      = 75
	fallbackConfidence = 40
)

type Service struct {
	scorer  Scorer
	timeout time.Duration
	logger  *zap.Logger
}

func NewService(scorer Scorer, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		scorer:  scorer,
		timeout: timeout,
		logger:  logger,
	}
}

// Analyze assesses one social profile within a bounded time. It never
// returns an error: any scorer failure (timeout, upstream error, malformed
// response) is absorbed into the fallback assessment so a single bad
// profile cannot abort a screening batch.
func (s *Service) Analyze(ctx context.Context, profile domain.SocialProfile, candidate *domain.Candidate) domain.Assessment {
	if s.scorer == nil {
		return Fallback(profile)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	assessment, err := s.scorer.Score(ctx, profile, candidate)
	if err != nil {
		s.logger.Warn("profile analysis failed, using fallback assessment",
			zap.String("profile_id", profile.ID.String()),
			zap.String("platform", profile.Platform),
			zap.Error(err),
		)
		return Fallback(profile)
	}

	if !assessment.RiskLevel.Valid() {
		s.logger.Warn("scorer returned unknown risk level, using fallback assessment",
			zap.String("profile_id", profile.ID.String()),
			zap.String("risk_level", string(assessment.RiskLevel)),
		)
		return Fallback(profile)
	}

	return *assessment
}

// Fallback is the fixed conservative assessment used when automated
// analysis cannot produce one.
func Fallback(profile domain.SocialProfile) domain.Assessment {
	return domain.Assessment{
		Score:              fallbackScore,
		RiskLevel:          domain.RiskMedium,
		RiskFactors:        []string{"Automated analysis unavailable - manual review recommended"},
		PositiveIndicators: []string{},
		Summary:            "Automated analysis of the " + profile.Platform + " profile was unavailable.",
		Confidence:         fallbackConfidence,
	}
}
