package repository

import (
	"errors"

	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("Services").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Save(profile).Error
}

func (r *doctorProfileRepository) UpdateLocation(db *gorm.DB, doctorID uuid.UUID, lat, lng float64, serviceRadiusKm *float64) error {
	updates := map[string]interface{}{
		"current_lat": lat,
		"current_lng": lng,
	}
	if serviceRadiusKm != nil {
		updates["service_radius_km"] = *serviceRadiusKm
	}
	return db.Model(&entity.DoctorProfile{}).
		Where("id = ?", doctorID).
		Updates(updates).Error
}

func (r *doctorProfileRepository) FindActiveBySpecialty(db *gorm.DB, specialty entity.Specialty, limit int) ([]entity.DoctorProfile, error) {
	var doctors []entity.DoctorProfile
	err := db.Preload("User").
		Preload("Services", "specialty = ?", specialty).
		Where("is_active = ? AND ? = ANY(specialties)", true, string(specialty)).
		Limit(limit).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorProfileRepository) FindActive(db *gorm.DB, limit int) ([]entity.DoctorProfile, error) {
	var doctors []entity.DoctorProfile
	err := db.Preload("User").
		Preload("Services").
		Where("is_active = ?", true).
		Limit(limit).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}
