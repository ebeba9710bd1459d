package dto

// Request DTOs

type TriageRequest struct {
	Description string `json:"description" validate:"required,min=3"`
	Specialty   string `json:"specialty,omitempty"`
}

// Response DTOs

type TriageResponse struct {
	Specialty          string   `json:"specialty"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning,omitempty"`
	AllowedSpecialties []string `json:"allowed_specialties"`
}

type TriageAnalysisResponse struct {
	LikelyConditions       []string `json:"likely_conditions"`
	SymptomHighlights      []string `json:"symptom_highlights"`
	Urgency                string   `json:"urgency"`
	RecommendedSpecialties []string `json:"recommended_specialties"`
	RequiredEquipment      []string `json:"required_equipment"`
	SuggestedTests         []string `json:"suggested_tests"`
	Advice                 string   `json:"advice,omitempty"`
	RedFlags               []string `json:"red_flags"`
}
