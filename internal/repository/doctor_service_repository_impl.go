package repository

import (
	"errors"

	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorServiceRepository struct{}

func NewDoctorServiceRepository() domainRepo.DoctorServiceRepository {
	return &doctorServiceRepository{}
}

func (r *doctorServiceRepository) Upsert(db *gorm.DB, svc *entity.DoctorService) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doctor_id"}, {Name: "specialty"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"base_price", "per_km_rate", "is_online_available",
			"is_home_visit_available", "description", "updated_at",
		}),
	}).Create(svc).Error
}

func (r *doctorServiceRepository) FindByDoctorAndSpecialty(db *gorm.DB, doctorID uuid.UUID, specialty entity.Specialty) (*entity.DoctorService, error) {
	var svc entity.DoctorService
	err := db.Where("doctor_id = ? AND specialty = ?", doctorID, specialty).First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &svc, nil
}

func (r *doctorServiceRepository) FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorService, error) {
	var services []entity.DoctorService
	err := db.Where("doctor_id = ?", doctorID).Order("specialty ASC").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}
