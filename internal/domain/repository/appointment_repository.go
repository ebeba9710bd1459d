package repository

import (
	"time"

	"go-medical-dispatch/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)

	// FindOpen returns PENDING non-emergency appointments that still have a
	// free assignment slot, newest first.
	FindOpen(db *gorm.DB, limit int) ([]entity.Appointment, error)

	// FindByPatientWithStatuses returns the patient's appointments in the
	// given statuses with reports preloaded (health summary input).
	FindByPatientWithStatuses(db *gorm.DB, patientID uuid.UUID, statuses []entity.AppointmentStatus, limit int) ([]entity.Appointment, error)

	// UpdateStatus conditionally moves the appointment to status unless it
	// already reached a terminal state. Returns affected rows: 0 means the
	// appointment was terminal (or missing) when the update ran.
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error)

	// CancelOwned cancels the patient's own non-terminal appointment.
	// Returns affected rows; 0 means not found, not owned, or terminal.
	CancelOwned(db *gorm.DB, id, patientID uuid.UUID) (int64, error)

	// Close atomically completes a non-terminal appointment, persisting the
	// total and close timestamp. Returns affected rows; 0 means the
	// appointment was already COMPLETED or CANCELLED.
	Close(db *gorm.DB, id uuid.UUID, total decimal.Decimal, closedAt time.Time) (int64, error)
}

type AppointmentReportRepository interface {
	// Upsert writes the report for an appointment, merging over an existing
	// row if one exists.
	Upsert(db *gorm.DB, report *entity.AppointmentReport) error
}
