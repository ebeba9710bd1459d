package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/delivery/http/middleware"
	"go-medical-dispatch/internal/usecase"
	"go-medical-dispatch/pkg/response"
	"go-medical-dispatch/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SOSHandler struct {
	sosUsecase usecase.SOSUsecase
	validator  *validator.CustomValidator
}

func NewSOSHandler(sosUsecase usecase.SOSUsecase, validator *validator.CustomValidator) *SOSHandler {
	return &SOSHandler{
		sosUsecase: sosUsecase,
		validator:  validator,
	}
}

// Create opens a new SOS request and fans out invitations
// @Summary Create an SOS request
// @Tags SOS
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSOSRequest true "Create SOS Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /sos [post]
func (h *SOSHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateSOSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	sos, err := h.sosUsecase.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientProfileNotFound):
			response.NotFound(w, "Patient profile not found")
		case errors.Is(err, usecase.ErrInvalidSpecialty):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create SOS request")
		}
		return
	}

	response.Success(w, http.StatusCreated, "SOS request created successfully", sos)
}

// Accept races to claim an SOS; exactly one doctor wins
// @Summary Accept an SOS request
// @Tags SOS
// @Security BearerAuth
// @Produce json
// @Param id path string true "SOS ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /sos/{id}/accept [post]
func (h *SOSHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	sosID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid SOS ID")
		return
	}

	sos, err := h.sosUsecase.Accept(r.Context(), userID, sosID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound),
			errors.Is(err, usecase.ErrSOSNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, usecase.ErrSOSAlreadyAccepted):
			response.Conflict(w, "SOS request already accepted by another doctor")
		case errors.Is(err, usecase.ErrSOSNotPending):
			response.Conflict(w, "SOS request is no longer pending")
		default:
			response.InternalServerError(w, "Failed to accept SOS request")
		}
		return
	}

	response.Success(w, http.StatusOK, "SOS request accepted successfully", sos)
}

// Cancel cancels the patient's own pending SOS
// @Summary Cancel my SOS request
// @Tags SOS
// @Security BearerAuth
// @Produce json
// @Param id path string true "SOS ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /sos/{id}/cancel [post]
func (h *SOSHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	sosID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid SOS ID")
		return
	}

	if err := h.sosUsecase.Cancel(r.Context(), userID, sosID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientProfileNotFound),
			errors.Is(err, usecase.ErrSOSNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, usecase.ErrSOSNotPending):
			response.Conflict(w, "SOS request is no longer pending")
		default:
			response.InternalServerError(w, "Failed to cancel SOS request")
		}
		return
	}

	response.Success(w, http.StatusOK, "SOS request cancelled successfully", nil)
}

// ListOwn returns the patient's SOS requests
// @Summary List my SOS requests
// @Tags SOS
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /sos [get]
func (h *SOSHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	requests, err := h.sosUsecase.ListOwn(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrPatientProfileNotFound) {
			response.NotFound(w, "Patient profile not found")
			return
		}
		response.InternalServerError(w, "Failed to list SOS requests")
		return
	}

	response.Success(w, http.StatusOK, "SOS requests retrieved successfully", requests)
}

// ListInvitations returns the doctor's open SOS invitations
// @Summary List my SOS invitations
// @Tags SOS
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /sos/invitations [get]
func (h *SOSHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	invitations, err := h.sosUsecase.ListInvitations(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorProfileNotFound) {
			response.NotFound(w, "Doctor profile not found")
			return
		}
		response.InternalServerError(w, "Failed to list SOS invitations")
		return
	}

	response.Success(w, http.StatusOK, "SOS invitations retrieved successfully", invitations)
}
