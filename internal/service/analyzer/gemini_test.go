package analyzer

import (
	"testing"

	"talentvet/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	t.Run("Plain JSON", func(t *testing.T) {
		raw := `{
			"professional_score": 82.4,
			"risk_level": "low",
			"risk_factors": [" stale profile "],
			"positive_indicators": ["Consistent work history", "  "],
			"summary": " Looks solid. ",
			"confidence": 91
		}`

		result, err := parseResponse(raw)

		assert.NoError(t, err)
		assert.Equal(t, 82, result.Score)
		assert.Equal(t, domain.RiskLow, result.RiskLevel)
		assert.Equal(t, []string{"stale profile"}, result.RiskFactors)
		assert.Equal(t, []string{"Consistent work history"}, result.PositiveIndicators)
		assert.Equal(t, "Looks solid.", result.Summary)
		assert.Equal(t, 91, result.Confidence)
	})

	t.Run("Fenced JSON", func(t *testing.T) {
		raw := "```json\n{\"professional_score\": 40, \"risk_level\": \"HIGH\", \"summary\": \"Concerning posts.\", \"confidence\": 70}\n```"

		result, err := parseResponse(raw)

		assert.NoError(t, err)
		assert.Equal(t, domain.RiskHigh, result.RiskLevel)
		assert.Equal(t, 40, result.Score)
	})

	t.Run("Unknown Risk Level", func(t *testing.T) {
		raw := `{"professional_score": 50, "risk_level": "SEVERE", "confidence": 60}`

		result, err := parseResponse(raw)

		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		result, err := parseResponse("the profile looks fine to me")

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-12))
	assert.Equal(t, 100, clampScore(130.5))
	assert.Equal(t, 67, clampScore(66.7))
}
