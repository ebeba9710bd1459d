package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/delivery/http/middleware"
	"go-medical-dispatch/internal/usecase"
	"go-medical-dispatch/pkg/response"
	"go-medical-dispatch/pkg/validator"

	"github.com/shopspring/decimal"
)

type DoctorHandler struct {
	searchUsecase  usecase.DoctorSearchUsecase
	profileUsecase usecase.DoctorProfileUsecase
	validator      *validator.CustomValidator
}

func NewDoctorHandler(
	searchUsecase usecase.DoctorSearchUsecase,
	profileUsecase usecase.DoctorProfileUsecase,
	validator *validator.CustomValidator,
) *DoctorHandler {
	return &DoctorHandler{
		searchUsecase:  searchUsecase,
		profileUsecase: profileUsecase,
		validator:      validator,
	}
}

// Search matches doctors for the authenticated patient
// @Summary Search doctors by specialty and radius
// @Tags Doctors
// @Security BearerAuth
// @Produce json
// @Param specialty query string true "Specialty"
// @Param lat query number false "Origin latitude"
// @Param lng query number false "Origin longitude"
// @Param radius_km query number false "Radius in km (default 5)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctors/search [get]
func (h *DoctorHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	req, err := parseSearchQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.searchUsecase.Search(r.Context(), userID, req)
	if err != nil {
		h.writeSearchError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", result)
}

// SearchPublic is the unauthenticated search; origin coordinates required
// @Summary Search doctors without authentication
// @Tags Doctors
// @Produce json
// @Param lat query number true "Origin latitude"
// @Param lng query number true "Origin longitude"
// @Param specialty query string false "Specialty"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctors/search/public [get]
func (h *DoctorHandler) SearchPublic(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.searchUsecase.SearchPublic(r.Context(), req)
	if err != nil {
		h.writeSearchError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", result)
}

// GetMe returns the authenticated doctor's profile
// @Summary Get my doctor profile
// @Tags Doctors
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /doctors/me [get]
func (h *DoctorHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	profile, err := h.profileUsecase.GetMe(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorProfileNotFound) {
			response.NotFound(w, "Doctor profile not found")
			return
		}
		response.InternalServerError(w, "Failed to get doctor profile")
		return
	}

	response.Success(w, http.StatusOK, "Doctor profile retrieved successfully", profile)
}

// UpdateMe updates the authenticated doctor's profile
// @Summary Update my doctor profile
// @Tags Doctors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateDoctorProfileRequest true "Update Doctor Profile Request"
// @Success 200 {object} response.Response
// @Router /doctors/me [put]
func (h *DoctorHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpdateDoctorProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.profileUsecase.UpdateMe(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.NotFound(w, "Doctor profile not found")
		case errors.Is(err, usecase.ErrInvalidSpecialty):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update doctor profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor profile updated successfully", profile)
}

// UpdateLocation reports the doctor's current position
// @Summary Update my current location
// @Tags Doctors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateLocationRequest true "Update Location Request"
// @Success 200 {object} response.Response
// @Router /doctors/me/location [patch]
func (h *DoctorHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.profileUsecase.UpdateLocation(r.Context(), userID, &req); err != nil {
		if errors.Is(err, usecase.ErrDoctorProfileNotFound) {
			response.NotFound(w, "Doctor profile not found")
			return
		}
		response.InternalServerError(w, "Failed to update location")
		return
	}

	response.Success(w, http.StatusOK, "Location updated successfully", nil)
}

// UpsertServices replaces the doctor's per-specialty pricing
// @Summary Upsert my services
// @Tags Doctors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpsertServicesRequest true "Upsert Services Request"
// @Success 200 {object} response.Response
// @Router /doctors/me/services [put]
func (h *DoctorHandler) UpsertServices(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpsertServicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	services, err := h.profileUsecase.UpsertServices(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorProfileNotFound):
			response.NotFound(w, "Doctor profile not found")
		case errors.Is(err, usecase.ErrInvalidSpecialty):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to upsert services")
		}
		return
	}

	response.Success(w, http.StatusOK, "Services updated successfully", services)
}

func (h *DoctorHandler) writeSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidSpecialty),
		errors.Is(err, usecase.ErrInvalidAppointmentMode),
		errors.Is(err, usecase.ErrOriginRequired):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrPatientProfileNotFound):
		response.NotFound(w, "Patient profile not found")
	default:
		response.InternalServerError(w, "Failed to search doctors")
	}
}

// parseSearchQuery maps the query string onto the search request DTO.
func parseSearchQuery(r *http.Request) (*dto.SearchDoctorsRequest, error) {
	q := r.URL.Query()
	req := &dto.SearchDoctorsRequest{Specialty: q.Get("specialty")}

	parseFloat := func(key string) (*float64, error) {
		raw := q.Get(key)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid " + key)
		}
		return &v, nil
	}

	var err error
	if req.Lat, err = parseFloat("lat"); err != nil {
		return nil, err
	}
	if req.Lng, err = parseFloat("lng"); err != nil {
		return nil, err
	}
	if req.RadiusKm, err = parseFloat("radius_km"); err != nil {
		return nil, err
	}

	parsePrice := func(key string) (*decimal.Decimal, error) {
		raw := q.Get(key)
		if raw == "" {
			return nil, nil
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.New("invalid " + key)
		}
		return &v, nil
	}
	if req.MinPrice, err = parsePrice("min_price"); err != nil {
		return nil, err
	}
	if req.MaxPrice, err = parsePrice("max_price"); err != nil {
		return nil, err
	}

	if mode := q.Get("mode"); mode != "" {
		req.Mode = &mode
	}

	return req, nil
}
