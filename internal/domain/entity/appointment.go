package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentMode is how the encounter happens.
type AppointmentMode string

const (
	ModeOnline  AppointmentMode = "ONLINE"
	ModeOffline AppointmentMode = "OFFLINE"
)

func (m AppointmentMode) Valid() bool {
	return m == ModeOnline || m == ModeOffline
}

// AppointmentStatus is the scheduled-appointment state machine.
type AppointmentStatus string

const (
	AppointmentPending    AppointmentStatus = "PENDING"
	AppointmentConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentCompleted  AppointmentStatus = "COMPLETED"
	AppointmentCancelled  AppointmentStatus = "CANCELLED"
)

// DoctorSettableStatuses is the allow-list for the doctor-driven status
// update; it never touches the assignment table.
var DoctorSettableStatuses = []AppointmentStatus{
	AppointmentConfirmed,
	AppointmentInProgress,
	AppointmentCompleted,
	AppointmentCancelled,
}

// Appointment is a scheduled (or emergency-flagged) patient request.
// COMPLETED and CANCELLED are terminal; Total is written exactly once, when
// the appointment closes.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	Specialty   Specialty         `gorm:"type:varchar(50);not null;index" json:"specialty"`
	Mode        AppointmentMode   `gorm:"type:varchar(10);not null" json:"mode"`
	Description string            `gorm:"type:text;not null" json:"description"`
	AddressLine string            `gorm:"type:varchar(255)" json:"address_line,omitempty"`
	AddressLat  *float64          `json:"address_lat,omitempty"`
	AddressLng  *float64          `json:"address_lng,omitempty"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Total       *decimal.Decimal  `gorm:"type:decimal(10,2)" json:"total,omitempty"`
	ClosedAt    *time.Time        `json:"closed_at,omitempty"`
	IsEmergency bool              `gorm:"not null;default:false" json:"is_emergency"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     PatientProfile          `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Assignments []AppointmentAssignment `gorm:"foreignKey:AppointmentID" json:"assignments,omitempty"`
	Report      *AppointmentReport      `gorm:"foreignKey:AppointmentID" json:"report,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsTerminal reports whether the appointment reached an immutable state.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentCompleted || a.Status == AppointmentCancelled
}

// HasCoordinates reports whether the visit address has a usable location.
func (a *Appointment) HasCoordinates() bool {
	return a.AddressLat != nil && a.AddressLng != nil
}
