package entity

import (
	"time"

	"github.com/google/uuid"
)

// SOSStatus is the emergency request state machine: PENDING -> ACCEPTED
// (terminal, exactly one winner) or PENDING -> CANCELLED by the patient.
type SOSStatus string

const (
	SOSPending   SOSStatus = "PENDING"
	SOSAccepted  SOSStatus = "ACCEPTED"
	SOSCancelled SOSStatus = "CANCELLED"
)

// SOSRequest is a patient-initiated emergency dispatch. AcceptedByID moves
// from nil to a single doctor id exactly once; it is set iff Status is
// ACCEPTED. CurrentRadiusKm mirrors InitialRadiusKm at creation; no
// progressive-expansion policy is attached to it.
type SOSRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	Specialty       Specialty  `gorm:"type:varchar(50);not null" json:"specialty"`
	Latitude        float64    `gorm:"not null" json:"latitude"`
	Longitude       float64    `gorm:"not null" json:"longitude"`
	InitialRadiusKm float64    `gorm:"not null" json:"initial_radius_km"`
	CurrentRadiusKm float64    `gorm:"not null" json:"current_radius_km"`
	Status          SOSStatus  `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	AcceptedByID    *uuid.UUID `gorm:"type:uuid" json:"accepted_by_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     PatientProfile  `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	AcceptedBy  *DoctorProfile  `gorm:"foreignKey:AcceptedByID" json:"accepted_by,omitempty"`
	Invitations []SOSInvitation `gorm:"foreignKey:SOSID" json:"invitations,omitempty"`
}

func (SOSRequest) TableName() string {
	return "sos_requests"
}

func (s *SOSRequest) IsPending() bool {
	return s.Status == SOSPending
}
