package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateSOSRequest struct {
	Description     string   `json:"description" validate:"required,min=3"`
	Specialty       string   `json:"specialty,omitempty"`
	Latitude        float64  `json:"latitude" validate:"latitude"`
	Longitude       float64  `json:"longitude" validate:"longitude"`
	InitialRadiusKm *float64 `json:"initial_radius_km,omitempty" validate:"omitempty,gt=0"`
}

// Response DTOs

type SOSResponse struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	Description     string     `json:"description"`
	Specialty       string     `json:"specialty"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	InitialRadiusKm float64    `json:"initial_radius_km"`
	CurrentRadiusKm float64    `json:"current_radius_km"`
	Status          string     `json:"status"`
	AcceptedByID    *uuid.UUID `json:"accepted_by_id,omitempty"`
	InvitedCount    int        `json:"invited_count,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type SOSListResponse struct {
	Requests []SOSResponse `json:"requests"`
	Total    int           `json:"total"`
}

type SOSInvitationResponse struct {
	ID          uuid.UUID    `json:"id"`
	SOSID       uuid.UUID    `json:"sos_id"`
	DoctorID    uuid.UUID    `json:"doctor_id"`
	Status      string       `json:"status"`
	DistanceKm  *float64     `json:"distance_km,omitempty"`
	SentAt      time.Time    `json:"sent_at"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`
	SOS         *SOSResponse `json:"sos,omitempty"`
}

type SOSInvitationListResponse struct {
	Invitations []SOSInvitationResponse `json:"invitations"`
	Total       int                     `json:"total"`
}
