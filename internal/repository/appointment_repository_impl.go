package repository

import (
	"errors"
	"time"

	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Assignments").Preload("Report").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindOpen(db *gorm.DB, limit int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("status = ? AND is_emergency = ?", entity.AppointmentPending, false).
		Where("(SELECT COUNT(*) FROM appointment_assignments aa WHERE aa.appointment_id = appointments.id AND aa.status = ?) < ?",
			entity.AssignmentAccepted, entity.MaxAcceptedAssignments).
		Order("created_at DESC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientWithStatuses(db *gorm.DB, patientID uuid.UUID, statuses []entity.AppointmentStatus, limit int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Report").
		Where("patient_id = ? AND status IN ?", patientID, statuses).
		Order("created_at DESC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus never moves an appointment out of a terminal state.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status NOT IN ?", id, []entity.AppointmentStatus{entity.AppointmentCompleted, entity.AppointmentCancelled}).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) CancelOwned(db *gorm.DB, id, patientID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND patient_id = ? AND status NOT IN ?", id, patientID,
			[]entity.AppointmentStatus{entity.AppointmentCompleted, entity.AppointmentCancelled}).
		Update("status", entity.AppointmentCancelled)
	return result.RowsAffected, result.Error
}

// Close persists the one-shot total. The status guard makes the write a
// compare-and-set: a second close or a close after cancel affects 0 rows.
func (r *appointmentRepository) Close(db *gorm.DB, id uuid.UUID, total decimal.Decimal, closedAt time.Time) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status NOT IN ?", id,
			[]entity.AppointmentStatus{entity.AppointmentCompleted, entity.AppointmentCancelled}).
		Updates(map[string]interface{}{
			"status":    entity.AppointmentCompleted,
			"total":     total,
			"closed_at": closedAt,
		})
	return result.RowsAffected, result.Error
}

type appointmentReportRepository struct{}

func NewAppointmentReportRepository() domainRepo.AppointmentReportRepository {
	return &appointmentReportRepository{}
}

func (r *appointmentReportRepository) Upsert(db *gorm.DB, report *entity.AppointmentReport) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "appointment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"diagnosis", "summary", "recommendations", "equipment_required", "updated_at",
		}),
	}).Create(report).Error
}
