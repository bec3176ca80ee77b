package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	_ "embed"

	"google.golang.org/genai"

	"talentvet/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

//go:embed prompt.md
var promptTemplate string

// GeminiScorer implements Scorer backed by the Gemini API.
type GeminiScorer struct {
	client    *genai.Client
	modelName string
}

func NewGeminiScorer(ctx context.Context, apiKey, model string) (*GeminiScorer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &GeminiScorer{client: client, modelName: model}, nil
}

func (g *GeminiScorer) Score(ctx context.Context, profile domain.SocialProfile, candidate *domain.Candidate) (*domain.Assessment, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("gemini scorer is not initialized")
	}

	prompt, err := buildPrompt(profile, candidate)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return nil, errors.New("gemini returned an empty response")
	}

	return parseResponse(raw)
}

func buildPrompt(profile domain.SocialProfile, candidate *domain.Candidate) (string, error) {
	candidatePayload := map[string]any{
		"full_name": candidate.FullName,
		"status":    candidate.Status,
	}
	if candidate.Position != nil {
		candidatePayload["position"] = *candidate.Position
	}

	profilePayload := map[string]any{
		"platform": profile.Platform,
		"url":      profile.URL,
	}
	if profile.Username != nil {
		profilePayload["username"] = *profile.Username
	}

	candidateJSON, err := json.MarshalIndent(candidatePayload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate payload: %w", err)
	}
	profileJSON, err := json.MarshalIndent(profilePayload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	replacer := strings.NewReplacer(
		"{{CANDIDATE_JSON}}", string(candidateJSON),
		"{{PROFILE_JSON}}", string(profileJSON),
	)
	return replacer.Replace(promptTemplate), nil
}

type rawAssessment struct {
	ProfessionalScore  float64  `json:"professional_score"`
	RiskLevel          string   `json:"risk_level"`
	RiskFactors        []string `json:"risk_factors"`
	PositiveIndicators []string `json:"positive_indicators"`
	Summary            string   `json:"summary"`
	Confidence         float64  `json:"confidence"`
}

func parseResponse(raw string) (*domain.Assessment, error) {
	raw = stripCodeFences(raw)

	var parsed rawAssessment
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	level := domain.RiskLevel(strings.ToUpper(strings.TrimSpace(parsed.RiskLevel)))
	if !level.Valid() {
		return nil, fmt.Errorf("gemini returned unknown risk level %q", parsed.RiskLevel)
	}

	return &domain.Assessment{
		Score:              clampScore(parsed.ProfessionalScore),
		RiskLevel:          level,
		RiskFactors:        trimAll(parsed.RiskFactors),
		PositiveIndicators: trimAll(parsed.PositiveIndicators),
		Summary:            strings.TrimSpace(parsed.Summary),
		Confidence:         clampScore(parsed.Confidence),
	}, nil
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(raw, "```")
	}
	return strings.TrimSpace(raw)
}

func clampScore(v float64) int {
	rounded := int(math.Round(v))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
