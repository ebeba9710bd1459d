package repository

import (
	"errors"
	"time"

	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type assignmentRepository struct{}

func NewAssignmentRepository() domainRepo.AssignmentRepository {
	return &assignmentRepository{}
}

// Accept runs the whole check-and-insert in one transaction. The SELECT ...
// FOR UPDATE on the appointment row serializes concurrent accepts for the
// same appointment: the second transaction blocks until the first commits
// and then observes its insert, so two racers can never both read the same
// accepted count. The unique index on (appointment_id, doctor_id) backstops
// the duplicate case; a conflict there is folded into the idempotent-replay
// path.
func (r *assignmentRepository) Accept(db *gorm.DB, appointmentID, doctorID uuid.UUID) (*entity.AppointmentAssignment, bool, error) {
	var assignment *entity.AppointmentAssignment
	created := false

	err := db.Transaction(func(tx *gorm.DB) error {
		var appointment entity.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", appointmentID).
			First(&appointment).Error; err != nil {
			return err
		}

		// Idempotent replay: an existing row for this pair is returned
		// as-is, whatever its status.
		var existing entity.AppointmentAssignment
		err := tx.Where("appointment_id = ? AND doctor_id = ?", appointmentID, doctorID).
			First(&existing).Error
		if err == nil {
			assignment = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var accepted int64
		if err := tx.Model(&entity.AppointmentAssignment{}).
			Where("appointment_id = ? AND status = ?", appointmentID, entity.AssignmentAccepted).
			Count(&accepted).Error; err != nil {
			return err
		}
		if accepted >= entity.MaxAcceptedAssignments {
			return domainRepo.ErrAssignmentCapacity
		}

		now := time.Now()
		row := &entity.AppointmentAssignment{
			AppointmentID: appointmentID,
			DoctorID:      doctorID,
			Status:        entity.AssignmentAccepted,
			QueuePosition: int(accepted) + 1,
			AcceptedAt:    &now,
		}
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a duplicate race despite the row lock; fall back to
				// returning the winner's row.
				if ferr := tx.Where("appointment_id = ? AND doctor_id = ?", appointmentID, doctorID).
					First(&existing).Error; ferr != nil {
					return ferr
				}
				assignment = &existing
				return nil
			}
			return err
		}

		assignment = row
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return assignment, created, nil
}

func (r *assignmentRepository) Cancel(db *gorm.DB, appointmentID, doctorID uuid.UUID) (int64, error) {
	now := time.Now()
	result := db.Model(&entity.AppointmentAssignment{}).
		Where("appointment_id = ? AND doctor_id = ? AND status != ?",
			appointmentID, doctorID, entity.AssignmentCancelled).
		Updates(map[string]interface{}{
			"status":       entity.AssignmentCancelled,
			"cancelled_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *assignmentRepository) FindByAppointmentAndDoctor(db *gorm.DB, appointmentID, doctorID uuid.UUID) (*entity.AppointmentAssignment, error) {
	var assignment entity.AppointmentAssignment
	err := db.Where("appointment_id = ? AND doctor_id = ?", appointmentID, doctorID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.AppointmentAssignment, error) {
	var assignments []entity.AppointmentAssignment
	err := db.Preload("Appointment").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) HasAccepted(db *gorm.DB, appointmentID, doctorID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&entity.AppointmentAssignment{}).
		Where("appointment_id = ? AND doctor_id = ? AND status = ?",
			appointmentID, doctorID, entity.AssignmentAccepted).
		Count(&count).Error
	return count > 0, err
}
