package repository

import (
	"go-medical-dispatch/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	Update(db *gorm.DB, profile *entity.DoctorProfile) error
	UpdateLocation(db *gorm.DB, doctorID uuid.UUID, lat, lng float64, serviceRadiusKm *float64) error

	// FindActiveBySpecialty returns active doctors declaring the specialty,
	// with their service rows for that specialty preloaded.
	FindActiveBySpecialty(db *gorm.DB, specialty entity.Specialty, limit int) ([]entity.DoctorProfile, error)

	// FindActive returns all active doctors with services preloaded; used by
	// the public search when no specialty is given.
	FindActive(db *gorm.DB, limit int) ([]entity.DoctorProfile, error)
}

type DoctorServiceRepository interface {
	// Upsert inserts or updates the (doctor, specialty) service row.
	Upsert(db *gorm.DB, svc *entity.DoctorService) error
	FindByDoctorAndSpecialty(db *gorm.DB, doctorID uuid.UUID, specialty entity.Specialty) (*entity.DoctorService, error)
	FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorService, error)
}

type PatientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	Update(db *gorm.DB, profile *entity.PatientProfile) error
}
