package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/usecase"
	"go-medical-dispatch/pkg/response"
	"go-medical-dispatch/pkg/validator"
)

type TriageHandler struct {
	triageUsecase usecase.TriageUsecase
	validator     *validator.CustomValidator
}

func NewTriageHandler(triageUsecase usecase.TriageUsecase, validator *validator.CustomValidator) *TriageHandler {
	return &TriageHandler{
		triageUsecase: triageUsecase,
		validator:     validator,
	}
}

// Classify maps a symptom description to a specialty
// @Summary Classify symptoms to a specialty
// @Tags Triage
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.TriageRequest true "Triage Request"
// @Success 200 {object} response.Response
// @Router /triage/classify [post]
func (h *TriageHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req dto.TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.triageUsecase.Classify(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to classify symptoms")
		return
	}

	response.Success(w, http.StatusOK, "Symptoms classified successfully", result)
}

// Analyze returns the structured triage bundle
// @Summary Analyze symptoms
// @Tags Triage
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.TriageRequest true "Triage Request"
// @Success 200 {object} response.Response
// @Router /triage/analyze [post]
func (h *TriageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req dto.TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.triageUsecase.Analyze(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSpecialty) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to analyze symptoms")
		return
	}

	response.Success(w, http.StatusOK, "Symptoms analyzed successfully", result)
}
