package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go-medical-dispatch/config"
	"go-medical-dispatch/internal/domain/entity"

	openai "github.com/sashabaranov/go-openai"
)

// Classifier maps free-text symptom descriptions into the specialty and
// urgency vocabulary. Implementations are advisory oracles; callers must
// treat every error as recoverable.
type Classifier interface {
	ClassifySpecialty(ctx context.Context, description string) (*Classification, error)
	Analyze(ctx context.Context, description string, specialtyHint entity.Specialty) (*TriageAnalysis, error)
	GenerateReport(ctx context.Context, description string, specialty entity.Specialty) (*ReportDraft, error)
}

type openAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier builds the live classifier. The prompt pins the exact
// specialty vocabulary so that a well-behaved model never answers outside
// it; TriageService still re-validates every value.
func NewOpenAIClassifier(cfg config.AIConfig) Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIClassifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (c *openAIClassifier) ClassifySpecialty(ctx context.Context, description string) (*Classification, error) {
	system := fmt.Sprintf(
		"You are a triage assistant. Map the patient's natural language description to the single closest medical specialty from this exact list (return the enum string exactly): %s. "+
			"Output strict JSON with keys: specialty (one of the list), confidence (0-1), reasoning (short).",
		joinSpecialties())

	raw, err := c.complete(ctx, system, description)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Specialty  string  `json:"specialty"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("unparsable classifier output %q: %w", raw, err)
	}

	return &Classification{
		Specialty:  entity.Specialty(parsed.Specialty),
		Confidence: parsed.Confidence,
		Reasoning:  parsed.Reasoning,
	}, nil
}

func (c *openAIClassifier) Analyze(ctx context.Context, description string, specialtyHint entity.Specialty) (*TriageAnalysis, error) {
	system := fmt.Sprintf(
		"You are a clinical triage assistant. Analyze the patient's description%s. "+
			"Output strict JSON with keys: likelyConditions (string array), symptomHighlights (string array), "+
			"urgency (one of EMERGENCY, HIGH, MEDIUM, LOW), recommendedSpecialties (array from this exact list: %s), "+
			"requiredEquipment (string array), suggestedTests (string array), advice (string), redFlags (string array).",
		hintClause(specialtyHint), joinSpecialties())

	raw, err := c.complete(ctx, system, description)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		LikelyConditions       []string `json:"likelyConditions"`
		SymptomHighlights      []string `json:"symptomHighlights"`
		Urgency                string   `json:"urgency"`
		RecommendedSpecialties []string `json:"recommendedSpecialties"`
		RequiredEquipment      []string `json:"requiredEquipment"`
		SuggestedTests         []string `json:"suggestedTests"`
		Advice                 string   `json:"advice"`
		RedFlags               []string `json:"redFlags"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("unparsable analysis output %q: %w", raw, err)
	}

	analysis := &TriageAnalysis{
		LikelyConditions:  parsed.LikelyConditions,
		SymptomHighlights: parsed.SymptomHighlights,
		Urgency:           Urgency(parsed.Urgency),
		RequiredEquipment: parsed.RequiredEquipment,
		SuggestedTests:    parsed.SuggestedTests,
		Advice:            parsed.Advice,
		RedFlags:          parsed.RedFlags,
	}
	for _, s := range parsed.RecommendedSpecialties {
		analysis.RecommendedSpecialties = append(analysis.RecommendedSpecialties, entity.Specialty(s))
	}
	return analysis, nil
}

func (c *openAIClassifier) GenerateReport(ctx context.Context, description string, specialty entity.Specialty) (*ReportDraft, error) {
	system := fmt.Sprintf(
		"You are a clinical assistant. Given a patient description and target specialty (%s), propose a concise structured report. "+
			"Output strict JSON with keys: diagnosis (string), summary (string), recommendations (string), equipmentRequired (string).",
		specialty)

	raw, err := c.complete(ctx, system, description)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Diagnosis         string `json:"diagnosis"`
		Summary           string `json:"summary"`
		Recommendations   string `json:"recommendations"`
		EquipmentRequired string `json:"equipmentRequired"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("unparsable report output %q: %w", raw, err)
	}

	return &ReportDraft{
		Diagnosis:         parsed.Diagnosis,
		Summary:           parsed.Summary,
		Recommendations:   parsed.Recommendations,
		EquipmentRequired: parsed.EquipmentRequired,
	}, nil
}

func (c *openAIClassifier) complete(ctx context.Context, system, description string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Description:\n\"\"\"\n%s\n\"\"\"\nReturn JSON only.", description)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func joinSpecialties() string {
	names := make([]string, 0, len(entity.AllSpecialties))
	for _, s := range entity.AllSpecialties {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func hintClause(hint entity.Specialty) string {
	if hint == "" {
		return ""
	}
	return fmt.Sprintf(" (suspected specialty: %s)", hint)
}
