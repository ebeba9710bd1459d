package usecase

import (
	"context"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	"go-medical-dispatch/internal/service"

	"github.com/sirupsen/logrus"
)

type TriageUsecase interface {
	Classify(ctx context.Context, req *dto.TriageRequest) (*dto.TriageResponse, error)
	Analyze(ctx context.Context, req *dto.TriageRequest) (*dto.TriageAnalysisResponse, error)
}

type triageUsecase struct {
	log    *logrus.Logger
	triage *service.TriageService
}

func NewTriageUsecase(log *logrus.Logger, triage *service.TriageService) TriageUsecase {
	return &triageUsecase{log: log, triage: triage}
}

func (u *triageUsecase) Classify(ctx context.Context, req *dto.TriageRequest) (*dto.TriageResponse, error) {
	classification := u.triage.ClassifySpecialty(ctx, req.Description)

	allowed := make([]string, 0, len(entity.AllSpecialties))
	for _, s := range entity.AllSpecialties {
		allowed = append(allowed, string(s))
	}

	return &dto.TriageResponse{
		Specialty:          string(classification.Specialty),
		Confidence:         classification.Confidence,
		Reasoning:          classification.Reasoning,
		AllowedSpecialties: allowed,
	}, nil
}

func (u *triageUsecase) Analyze(ctx context.Context, req *dto.TriageRequest) (*dto.TriageAnalysisResponse, error) {
	var hint entity.Specialty
	if req.Specialty != "" {
		parsed, ok := entity.ParseSpecialty(req.Specialty)
		if !ok {
			return nil, ErrInvalidSpecialty
		}
		hint = parsed
	}

	analysis := u.triage.Analyze(ctx, req.Description, hint)

	specialties := make([]string, 0, len(analysis.RecommendedSpecialties))
	for _, s := range analysis.RecommendedSpecialties {
		specialties = append(specialties, string(s))
	}

	return &dto.TriageAnalysisResponse{
		LikelyConditions:       analysis.LikelyConditions,
		SymptomHighlights:      analysis.SymptomHighlights,
		Urgency:                string(analysis.Urgency),
		RecommendedSpecialties: specialties,
		RequiredEquipment:      analysis.RequiredEquipment,
		SuggestedTests:         analysis.SuggestedTests,
		Advice:                 analysis.Advice,
		RedFlags:               analysis.RedFlags,
	}, nil
}
