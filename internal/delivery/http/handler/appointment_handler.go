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

type AppointmentHandler struct {
	appointmentUsecase usecase.PatientAppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.PatientAppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Create books a new appointment for the authenticated patient
// @Summary Create an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientProfileNotFound):
			response.NotFound(w, "Patient profile not found")
		case errors.Is(err, usecase.ErrInvalidSpecialty),
			errors.Is(err, usecase.ErrInvalidAppointmentMode),
			errors.Is(err, usecase.ErrInvalidScheduleFormat):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// ListOwn returns the authenticated patient's appointments
// @Summary List my appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointments, err := h.appointmentUsecase.ListOwn(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrPatientProfileNotFound) {
			response.NotFound(w, "Patient profile not found")
			return
		}
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// Cancel cancels the patient's own appointment
// @Summary Cancel my appointment
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	if err := h.appointmentUsecase.CancelOwn(r.Context(), userID, appointmentID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientProfileNotFound),
			errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAppointmentNotCancellable):
			response.Conflict(w, "Appointment cannot be cancelled")
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

// HealthSummary aggregates the patient's visit history
// @Summary Get my health summary
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /patients/me/health-summary [get]
func (h *AppointmentHandler) HealthSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	summary, err := h.appointmentUsecase.HealthSummary(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrPatientProfileNotFound) {
			response.NotFound(w, "Patient profile not found")
			return
		}
		response.InternalServerError(w, "Failed to build health summary")
		return
	}

	response.Success(w, http.StatusOK, "Health summary retrieved successfully", summary)
}
