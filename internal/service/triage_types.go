package service

import "go-medical-dispatch/internal/domain/entity"

// Urgency is the triage urgency vocabulary.
type Urgency string

const (
	UrgencyEmergency Urgency = "EMERGENCY"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyMedium    Urgency = "MEDIUM"
	UrgencyLow       Urgency = "LOW"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyEmergency, UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// Classification is the normalized output of the specialty classifier.
// Specialty is always a member of the fixed vocabulary.
type Classification struct {
	Specialty  entity.Specialty `json:"specialty"`
	Confidence float64          `json:"confidence"`
	Reasoning  string           `json:"reasoning"`
}

// TriageAnalysis is the structured clinical bundle for deeper analysis.
// RecommendedSpecialties only ever contains vocabulary members.
type TriageAnalysis struct {
	LikelyConditions       []string           `json:"likely_conditions"`
	SymptomHighlights      []string           `json:"symptom_highlights"`
	Urgency                Urgency            `json:"urgency"`
	RecommendedSpecialties []entity.Specialty `json:"recommended_specialties"`
	RequiredEquipment      []string           `json:"required_equipment"`
	SuggestedTests         []string           `json:"suggested_tests"`
	Advice                 string             `json:"advice"`
	RedFlags               []string           `json:"red_flags"`
}

// ReportDraft is the classifier's proposed clinical report for an
// appointment close. All fields are advisory; doctor input wins.
type ReportDraft struct {
	Diagnosis         string `json:"diagnosis"`
	Summary           string `json:"summary"`
	Recommendations   string `json:"recommendations"`
	EquipmentRequired string `json:"equipment_required"`
}
