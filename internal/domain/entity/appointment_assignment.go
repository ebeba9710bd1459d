package entity

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus is the lifecycle of a doctor's claim on an appointment.
type AssignmentStatus string

const (
	AssignmentAccepted  AssignmentStatus = "ACCEPTED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

// MaxAcceptedAssignments is the per-appointment capacity of the queue.
const MaxAcceptedAssignments = 2

// AppointmentAssignment links one appointment to one doctor. Invariants:
// at most one row per (appointment, doctor) pair (unique index), at most
// MaxAcceptedAssignments ACCEPTED rows per appointment at any time, and
// QueuePosition is fixed at accept time and never renumbered; a cancelled
// slot's position is not reused.
type AppointmentAssignment struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_appointment_doctor" json:"appointment_id"`
	DoctorID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_appointment_doctor" json:"doctor_id"`
	Status        AssignmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	QueuePosition int              `gorm:"not null" json:"queue_position"`
	AcceptedAt    *time.Time       `json:"accepted_at,omitempty"`
	CancelledAt   *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment Appointment   `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Doctor      DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (AppointmentAssignment) TableName() string {
	return "appointment_assignments"
}

func (a *AppointmentAssignment) IsAccepted() bool {
	return a.Status == AssignmentAccepted
}

func (a *AppointmentAssignment) IsCancelled() bool {
	return a.Status == AssignmentCancelled
}
