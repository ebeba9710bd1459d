package repository

import (
	"errors"

	"go-medical-dispatch/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAssignmentCapacity is returned by Accept when the appointment already
// holds the maximum number of ACCEPTED assignments.
var ErrAssignmentCapacity = errors.New("assignment capacity reached")

type AssignmentRepository interface {
	// Accept claims an assignment slot for the doctor. The whole
	// check-and-insert runs inside one transaction holding a row lock on the
	// appointment, so two concurrent accepts cannot both observe a free
	// slot. Behavior:
	//   - a row for (appointment, doctor) already exists: it is returned
	//     unchanged with created=false (idempotent replay);
	//   - ACCEPTED count >= entity.MaxAcceptedAssignments:
	//     ErrAssignmentCapacity;
	//   - otherwise a new ACCEPTED row with queuePosition = count+1 is
	//     inserted and returned with created=true.
	Accept(db *gorm.DB, appointmentID, doctorID uuid.UUID) (assignment *entity.AppointmentAssignment, created bool, err error)

	// Cancel marks the doctor's own assignment CANCELLED with a timestamp.
	// Conditional update; returns affected rows, 0 when there is no active
	// assignment for the pair.
	Cancel(db *gorm.DB, appointmentID, doctorID uuid.UUID) (int64, error)

	FindByAppointmentAndDoctor(db *gorm.DB, appointmentID, doctorID uuid.UUID) (*entity.AppointmentAssignment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.AppointmentAssignment, error)
	HasAccepted(db *gorm.DB, appointmentID, doctorID uuid.UUID) (bool, error)
}
