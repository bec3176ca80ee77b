package screening

import (
	"fmt"
	"math"
	"strings"

	"talentvet/internal/domain"
)

// Aggregate folds per-profile assessments into one screening outcome.
// assessments[i] must correspond to profiles[i].
func Aggregate(assessments []domain.Assessment, profiles []domain.SocialProfile) (*domain.ScreeningOutcome, error) {
	if len(assessments) == 0 {
		return nil, domain.ErrNoAssessments
	}

	var scoreSum, confidenceSum int
	worst := domain.RiskLow
	for _, a := range assessments {
		scoreSum += a.Score
		confidenceSum += a.Confidence
		if a.RiskLevel.Severity() > worst.Severity() {
			worst = a.RiskLevel
		}
	}

	riskFactors := dedupe(assessments, func(a domain.Assessment) []string { return a.RiskFactors })
	positives := dedupe(assessments, func(a domain.Assessment) []string { return a.PositiveIndicators })

	findings := domain.ScreeningFindings{
		Platforms:                    make([]domain.PlatformFinding, 0, len(assessments)),
		AggregatedRiskFactors:        riskFactors,
		AggregatedPositiveIndicators: positives,
	}
	platformNames := make([]string, 0, len(profiles))
	for i, a := range assessments {
		profile := profiles[i]
		platformNames = append(platformNames, profile.Platform)

		username := ""
		if profile.Username != nil {
			username = *profile.Username
		}
		findings.Platforms = append(findings.Platforms, domain.PlatformFinding{
			Platform:           profile.Platform,
			ProfileURL:         profile.URL,
			Username:           username,
			ProfessionalScore:  a.Score,
			RiskLevel:          a.RiskLevel,
			RiskFactors:        a.RiskFactors,
			PositiveIndicators: a.PositiveIndicators,
			Summary:            a.Summary,
		})
	}

	score := roundedMean(scoreSum, len(assessments))
	outcome := &domain.ScreeningOutcome{
		OverallScore: score,
		RiskLevel:    worst,
		Confidence:   roundedMean(confidenceSum, len(assessments)),
		Summary:      buildSummary(platformNames, worst, score),
		Findings:     findings,
	}
	return outcome, nil
}

func roundedMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

// dedupe unions the extracted lists across assessments with set semantics,
// preserving first-seen order.
func dedupe(assessments []domain.Assessment, extract func(domain.Assessment) []string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range assessments {
		for _, item := range extract(a) {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

func buildSummary(platforms []string, level domain.RiskLevel, score int) string {
	noun := "profiles"
	if len(platforms) == 1 {
		noun = "profile"
	}
	return fmt.Sprintf("Screened %d social %s (%s). Overall risk level %s with a score of %d/100. %s",
		len(platforms), noun, strings.Join(platforms, ", "), level, score, riskDescription(level))
}

func riskDescription(level domain.RiskLevel) string {
	switch level {
	case domain.RiskCritical:
		return "Critical concerns were found that require immediate review before proceeding."
	case domain.RiskHigh:
		return "Significant concerns were found; manual review is strongly recommended."
	case domain.RiskMedium:
		return "Some concerns were noted; review the per-platform findings."
	default:
		return "No significant concerns were identified across the screened profiles."
	}
}
