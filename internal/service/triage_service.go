package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go-medical-dispatch/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// FallbackConfidence is reported when the heuristic fallback produced the
// classification instead of the live classifier.
const FallbackConfidence = 0.4

// TriageService normalizes classifier output into the specialty/urgency
// vocabulary the dispatch layer understands. The live classifier is
// best-effort: when it is unreachable or returns something unparsable, the
// service degrades to a deterministic substring heuristic so booking and
// SOS creation never hard-fail because of the advisory oracle.
type TriageService struct {
	classifier Classifier
	log        *logrus.Logger
}

func NewTriageService(classifier Classifier, log *logrus.Logger) *TriageService {
	return &TriageService{
		classifier: classifier,
		log:        log,
	}
}

// ClassifySpecialty returns a vocabulary-validated classification. It never
// returns an error.
func (s *TriageService) ClassifySpecialty(ctx context.Context, description string) *Classification {
	if s.classifier != nil {
		result, err := s.classifier.ClassifySpecialty(ctx, description)
		if err == nil {
			if result.Specialty.Valid() {
				return result
			}
			// Out-of-vocabulary answer: coerce rather than propagate.
			s.log.Warnf("Classifier returned unknown specialty %q, coercing to default", result.Specialty)
			result.Specialty = entity.SpecialtyGeneralPhysician
			return result
		}
		s.log.Warnf("Live classifier failed, using heuristic fallback: %+v", err)
		// The failed call may still carry a recognizable specialty in its raw
		// output; scan the error text along with the description.
		if found, ok := entity.MatchSpecialty(err.Error()); ok {
			return &Classification{Specialty: found, Confidence: FallbackConfidence, Reasoning: "Heuristic fallback"}
		}
	}
	return s.fallbackClassification(description)
}

// Analyze returns the structured bundle, or a minimal deterministic one
// when the live classifier fails. It never returns an error.
func (s *TriageService) Analyze(ctx context.Context, description string, specialtyHint entity.Specialty) *TriageAnalysis {
	if s.classifier != nil {
		analysis, err := s.classifier.Analyze(ctx, description, specialtyHint)
		if err == nil {
			return s.sanitizeAnalysis(analysis)
		}
		s.log.Warnf("Triage analysis failed, using fallback: %+v", err)
	}

	classification := s.ClassifySpecialty(ctx, description)
	return &TriageAnalysis{
		Urgency:                UrgencyMedium,
		RecommendedSpecialties: []entity.Specialty{classification.Specialty},
		Advice:                 "Automatic analysis unavailable; please consult the recommended specialty.",
	}
}

// DraftReport proposes a close-time clinical report. A failed generation
// degrades to a summary-only draft built from the description.
func (s *TriageService) DraftReport(ctx context.Context, description string, specialty entity.Specialty) *ReportDraft {
	if s.classifier != nil {
		draft, err := s.classifier.GenerateReport(ctx, description, specialty)
		if err == nil {
			return draft
		}
		s.log.Warnf("Report generation failed, using summary fallback: %+v", err)
	}
	return &ReportDraft{Summary: truncateRunes(description, 500)}
}

// truncateRunes cuts s to at most n runes, never splitting a multi-byte
// sequence.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func (s *TriageService) fallbackClassification(description string) *Classification {
	if found, ok := entity.MatchSpecialty(description); ok {
		return &Classification{Specialty: found, Confidence: FallbackConfidence, Reasoning: "Heuristic fallback"}
	}
	return &Classification{
		Specialty:  entity.SpecialtyGeneralPhysician,
		Confidence: FallbackConfidence,
		Reasoning:  "Heuristic fallback",
	}
}

// sanitizeAnalysis enforces the closed vocabularies on every field the
// dispatch layer consumes.
func (s *TriageService) sanitizeAnalysis(analysis *TriageAnalysis) *TriageAnalysis {
	if !analysis.Urgency.Valid() {
		analysis.Urgency = UrgencyMedium
	}

	validated := make([]entity.Specialty, 0, len(analysis.RecommendedSpecialties))
	for _, raw := range analysis.RecommendedSpecialties {
		if candidate, ok := entity.ParseSpecialty(strings.TrimSpace(string(raw))); ok {
			validated = append(validated, candidate)
			continue
		}
		s.log.Warnf("Dropping unknown recommended specialty %q", raw)
	}
	if len(validated) == 0 {
		validated = append(validated, entity.SpecialtyGeneralPhysician)
	}
	analysis.RecommendedSpecialties = validated
	return analysis
}
