package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/delivery/http/middleware"
	"go-medical-dispatch/internal/usecase"
	"go-medical-dispatch/pkg/response"
	"go-medical-dispatch/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AssignmentHandler struct {
	assignmentUsecase usecase.AssignmentUsecase
	closeUsecase      usecase.AppointmentCloseUsecase
	validator         *validator.CustomValidator
}

func NewAssignmentHandler(
	assignmentUsecase usecase.AssignmentUsecase,
	closeUsecase usecase.AppointmentCloseUsecase,
	validator *validator.CustomValidator,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentUsecase: assignmentUsecase,
		closeUsecase:      closeUsecase,
		validator:         validator,
	}
}

// Accept claims an assignment slot on an appointment
// @Summary Accept an appointment
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/accept [post]
func (h *AssignmentHandler) Accept(w http.ResponseWriter, r *http.Request) {
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

	assignment, err := h.assignmentUsecase.Accept(r.Context(), userID, appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound),
			errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, usecase.ErrAssignmentCapacityFull):
			response.Conflict(w, "Appointment already has the maximum number of doctors")
		case errors.Is(err, usecase.ErrAppointmentTerminal):
			response.Conflict(w, "Appointment already completed or cancelled")
		default:
			response.InternalServerError(w, "Failed to accept appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment accepted successfully", assignment)
}

// CancelAssignment releases the doctor's slot on an appointment
// @Summary Cancel my assignment
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/assignment [delete]
func (h *AssignmentHandler) CancelAssignment(w http.ResponseWriter, r *http.Request) {
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

	if err := h.assignmentUsecase.Cancel(r.Context(), userID, appointmentID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound),
			errors.Is(err, usecase.ErrAssignmentNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, usecase.ErrAssignmentNotAccepted):
			response.Conflict(w, "Assignment already cancelled")
		default:
			response.InternalServerError(w, "Failed to cancel assignment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Assignment cancelled successfully", nil)
}

// UpdateStatus moves the appointment through its state machine
// @Summary Update appointment status
// @Tags Assignments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Update Status Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/status [patch]
func (h *AssignmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.assignmentUsecase.UpdateAppointmentStatus(r.Context(), userID, appointmentID, req.Status); err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, usecase.ErrInvalidAppointmentStatus):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrAssignmentNotAccepted):
			response.Forbidden(w, "You have no accepted assignment on this appointment")
		case errors.Is(err, usecase.ErrAppointmentTerminal):
			response.Conflict(w, "Appointment already completed or cancelled")
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", nil)
}

// ListAssignments returns the doctor's assignments
// @Summary List my assignments
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /assignments [get]
func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	assignments, err := h.assignmentUsecase.ListAssignments(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorProfileNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to list assignments")
		return
	}

	response.Success(w, http.StatusOK, "Assignments retrieved successfully", assignments)
}

// ListOpenAppointments is the doctor's feed of claimable appointments
// @Summary List open appointments
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Param radius_km query number false "Radius filter around my location"
// @Success 200 {object} response.Response
// @Router /appointments/open [get]
func (h *AssignmentHandler) ListOpenAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var radiusKm *float64
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(w, "invalid radius_km")
			return
		}
		radiusKm = &v
	}

	appointments, err := h.assignmentUsecase.ListOpenAppointments(r.Context(), userID, radiusKm)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorProfileNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to list open appointments")
		return
	}

	response.Success(w, http.StatusOK, "Open appointments retrieved successfully", appointments)
}

// Close completes an appointment with report and pricing
// @Summary Close an appointment
// @Tags Assignments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.CloseAppointmentRequest true "Close Appointment Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/close [post]
func (h *AssignmentHandler) Close(w http.ResponseWriter, r *http.Request) {
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

	// An empty body closes with defaults: generated report, service pricing.
	var req dto.CloseAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.AppointmentID = appointmentID

	result, err := h.closeUsecase.Close(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound),
			errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, usecase.ErrAssignmentNotAccepted):
			response.Forbidden(w, "You have no accepted assignment on this appointment")
		case errors.Is(err, usecase.ErrAppointmentTerminal):
			response.Conflict(w, "Appointment already completed or cancelled")
		default:
			response.InternalServerError(w, "Failed to close appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment closed successfully", result)
}
