package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	Specialty   string   `json:"specialty,omitempty"`
	Mode        string   `json:"mode" validate:"required,oneof=ONLINE OFFLINE"`
	Description string   `json:"description" validate:"required,min=3"`
	AddressLine string   `json:"address_line,omitempty"`
	AddressLat  *float64 `json:"address_lat,omitempty" validate:"omitempty,latitude"`
	AddressLng  *float64 `json:"address_lng,omitempty" validate:"omitempty,longitude"`
	ScheduledAt *string  `json:"scheduled_at,omitempty"`
	IsEmergency bool     `json:"is_emergency"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
}

type CloseAppointmentRequest struct {
	AppointmentID uuid.UUID           `json:"appointment_id" validate:"required"`
	Report        *CloseReportRequest `json:"report,omitempty"`
	BasePrice     *decimal.Decimal    `json:"base_price,omitempty"`
	DistanceKm    *decimal.Decimal    `json:"distance_km,omitempty"`
	AutoGenerate  bool                `json:"auto_generate"`
}

type CloseReportRequest struct {
	Diagnosis         string `json:"diagnosis,omitempty"`
	Summary           string `json:"summary,omitempty"`
	Recommendations   string `json:"recommendations,omitempty"`
	EquipmentRequired string `json:"equipment_required,omitempty"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID        `json:"id"`
	PatientID   uuid.UUID        `json:"patient_id"`
	Specialty   string           `json:"specialty"`
	Mode        string           `json:"mode"`
	Description string           `json:"description"`
	AddressLine string           `json:"address_line,omitempty"`
	AddressLat  *float64         `json:"address_lat,omitempty"`
	AddressLng  *float64         `json:"address_lng,omitempty"`
	ScheduledAt *time.Time       `json:"scheduled_at,omitempty"`
	Status      string           `json:"status"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	ClosedAt    *time.Time       `json:"closed_at,omitempty"`
	IsEmergency bool             `json:"is_emergency"`
	CreatedAt   time.Time        `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AssignmentResponse struct {
	ID            uuid.UUID            `json:"id"`
	AppointmentID uuid.UUID            `json:"appointment_id"`
	DoctorID      uuid.UUID            `json:"doctor_id"`
	Status        string               `json:"status"`
	QueuePosition int                  `json:"queue_position"`
	AcceptedAt    *time.Time           `json:"accepted_at,omitempty"`
	CancelledAt   *time.Time           `json:"cancelled_at,omitempty"`
	Appointment   *AppointmentResponse `json:"appointment,omitempty"`
}

type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	Total       int                  `json:"total"`
}

type ReportResponse struct {
	Diagnosis         string `json:"diagnosis,omitempty"`
	Summary           string `json:"summary,omitempty"`
	Recommendations   string `json:"recommendations,omitempty"`
	EquipmentRequired string `json:"equipment_required,omitempty"`
}

type PricingBreakdownResponse struct {
	BasePrice   decimal.Decimal `json:"base_price"`
	PerKmRate   decimal.Decimal `json:"per_km_rate"`
	DistanceKm  decimal.Decimal `json:"distance_km"`
	Transport   decimal.Decimal `json:"transport"`
	GST         decimal.Decimal `json:"gst"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Total       decimal.Decimal `json:"total"`
}

type CloseAppointmentResponse struct {
	Appointment AppointmentResponse      `json:"appointment"`
	Report      ReportResponse           `json:"report"`
	Pricing     PricingBreakdownResponse `json:"pricing"`
}

type HealthSummaryResponse struct {
	CountsBySpecialty map[string]int  `json:"counts_by_specialty"`
	LastReport        *ReportResponse `json:"last_report"`
	TotalVisits       int             `json:"total_visits"`
}
