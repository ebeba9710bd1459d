package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"go-medical-dispatch/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type stubClassifier struct {
	classification *Classification
	analysis       *TriageAnalysis
	draft          *ReportDraft
	err            error
}

func (s *stubClassifier) ClassifySpecialty(ctx context.Context, description string) (*Classification, error) {
	return s.classification, s.err
}

func (s *stubClassifier) Analyze(ctx context.Context, description string, specialtyHint entity.Specialty) (*TriageAnalysis, error) {
	return s.analysis, s.err
}

func (s *stubClassifier) GenerateReport(ctx context.Context, description string, specialty entity.Specialty) (*ReportDraft, error) {
	return s.draft, s.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestClassifySpecialtyLiveResult(t *testing.T) {
	svc := NewTriageService(&stubClassifier{
		classification: &Classification{Specialty: entity.SpecialtyCardiology, Confidence: 0.92},
	}, quietLogger())

	result := svc.ClassifySpecialty(context.Background(), "chest pain radiating to left arm")
	assert.Equal(t, entity.SpecialtyCardiology, result.Specialty)
	assert.Equal(t, 0.92, result.Confidence)
}

func TestClassifySpecialtyCoercesUnknownVocabulary(t *testing.T) {
	svc := NewTriageService(&stubClassifier{
		classification: &Classification{Specialty: "WIZARDRY", Confidence: 0.9},
	}, quietLogger())

	result := svc.ClassifySpecialty(context.Background(), "strange symptoms")
	assert.Equal(t, entity.SpecialtyGeneralPhysician, result.Specialty)
}

func TestClassifySpecialtyScansFailedCallOutput(t *testing.T) {
	svc := NewTriageService(&stubClassifier{
		err: errors.New(`unparsable response: {"specialty": "CARDIOLOGY", "confid`),
	}, quietLogger())

	result := svc.ClassifySpecialty(context.Background(), "chest pain")
	assert.Equal(t, entity.SpecialtyCardiology, result.Specialty)
	assert.Equal(t, FallbackConfidence, result.Confidence)
}

func TestClassifySpecialtyHeuristicWithoutClassifier(t *testing.T) {
	svc := NewTriageService(nil, quietLogger())

	result := svc.ClassifySpecialty(context.Background(), "referred for DERMATOLOGY review")
	assert.Equal(t, entity.SpecialtyDermatology, result.Specialty)
	assert.Equal(t, FallbackConfidence, result.Confidence)
}

func TestClassifySpecialtyDefaultsToGeneralPhysician(t *testing.T) {
	svc := NewTriageService(nil, quietLogger())

	result := svc.ClassifySpecialty(context.Background(), "feeling unwell")
	assert.Equal(t, entity.SpecialtyGeneralPhysician, result.Specialty)
	assert.Equal(t, FallbackConfidence, result.Confidence)
}

func TestAnalyzeSanitizesVocabulary(t *testing.T) {
	svc := NewTriageService(&stubClassifier{
		analysis: &TriageAnalysis{
			Urgency:                "CATASTROPHIC",
			RecommendedSpecialties: []entity.Specialty{"cardiology ", "WIZARDRY"},
		},
	}, quietLogger())

	analysis := svc.Analyze(context.Background(), "chest pain", "")
	assert.Equal(t, UrgencyMedium, analysis.Urgency)
	assert.Equal(t, []entity.Specialty{entity.SpecialtyCardiology}, analysis.RecommendedSpecialties)
}

func TestAnalyzeFallbackOnFailure(t *testing.T) {
	svc := NewTriageService(&stubClassifier{err: errors.New("timeout")}, quietLogger())

	analysis := svc.Analyze(context.Background(), "ORTHOPEDICS follow-up for knee", "")
	assert.Equal(t, UrgencyMedium, analysis.Urgency)
	assert.Equal(t, []entity.Specialty{entity.SpecialtyOrthopedics}, analysis.RecommendedSpecialties)
	assert.NotEmpty(t, analysis.Advice)
}

func TestDraftReportFallbackTruncates(t *testing.T) {
	svc := NewTriageService(&stubClassifier{err: errors.New("timeout")}, quietLogger())

	long := strings.Repeat("a", 600)
	draft := svc.DraftReport(context.Background(), long, entity.SpecialtyGeneralPhysician)
	assert.Len(t, draft.Summary, 500)
	assert.Empty(t, draft.Diagnosis)
}

func TestDraftReportFallbackKeepsRunesIntact(t *testing.T) {
	svc := NewTriageService(&stubClassifier{err: errors.New("timeout")}, quietLogger())

	long := strings.Repeat("боль", 200)
	draft := svc.DraftReport(context.Background(), long, entity.SpecialtyGeneralPhysician)
	assert.True(t, utf8.ValidString(draft.Summary))
	assert.Equal(t, 500, utf8.RuneCountInString(draft.Summary))
}

func TestDraftReportLiveResult(t *testing.T) {
	svc := NewTriageService(&stubClassifier{
		draft: &ReportDraft{Diagnosis: "Stable angina", Summary: "Consultation summary"},
	}, quietLogger())

	draft := svc.DraftReport(context.Background(), "chest pain", entity.SpecialtyCardiology)
	assert.Equal(t, "Stable angina", draft.Diagnosis)
}
