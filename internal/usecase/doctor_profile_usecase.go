package usecase

import (
	"context"
	"fmt"

	"go-medical-dispatch/internal/converter"
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"
	"go-medical-dispatch/internal/pricing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DoctorProfileUsecase interface {
	GetMe(ctx context.Context, doctorUserID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateMe(ctx context.Context, doctorUserID uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error)

	// UpdateLocation reports the doctor's current position used by geo
	// search and SOS fan-out.
	UpdateLocation(ctx context.Context, doctorUserID uuid.UUID, req *dto.UpdateLocationRequest) error

	// UpsertServices replaces or creates the doctor's per-specialty pricing
	// rows in one transaction.
	UpsertServices(ctx context.Context, doctorUserID uuid.UUID, req *dto.UpsertServicesRequest) ([]dto.DoctorServiceResponse, error)
}

type doctorProfileUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	doctorRepo  domainRepo.DoctorProfileRepository
	serviceRepo domainRepo.DoctorServiceRepository
	userRepo    domainRepo.UserRepository
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo domainRepo.DoctorProfileRepository,
	serviceRepo domainRepo.DoctorServiceRepository,
	userRepo domainRepo.UserRepository,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:          db,
		log:         log,
		doctorRepo:  doctorRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
	}
}

func (u *doctorProfileUsecase) GetMe(ctx context.Context, doctorUserID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	services, err := u.serviceRepo.FindByDoctor(u.db.WithContext(ctx), doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to load doctor services: %+v", err)
		return nil, err
	}
	doctor.Services = services

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorProfileUsecase) UpdateMe(ctx context.Context, doctorUserID uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	if req.Specialties != nil {
		specialties := make([]string, 0, len(req.Specialties))
		for _, raw := range req.Specialties {
			specialty, ok := entity.ParseSpecialty(raw)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrInvalidSpecialty, raw)
			}
			specialties = append(specialties, string(specialty))
		}
		doctor.Specialties = specialties
	}

	if req.LicenseNumber != nil {
		doctor.LicenseNumber = *req.LicenseNumber
	}
	if req.YearsOfExperience != nil {
		doctor.YearsOfExperience = *req.YearsOfExperience
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	if req.Name != nil {
		user, err := u.userRepo.FindByID(tx, doctorUserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		user.Name = *req.Name
		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update user name: %+v", err)
			return nil, err
		}
		doctor.User = *user
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorProfileUsecase) UpdateLocation(ctx context.Context, doctorUserID uuid.UUID, req *dto.UpdateLocationRequest) error {
	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return err
	}

	if err := u.doctorRepo.UpdateLocation(u.db.WithContext(ctx), doctor.ID, req.Lat, req.Lng, req.ServiceRadiusKm); err != nil {
		u.log.Warnf("Failed to update doctor location: %+v", err)
		return err
	}
	return nil
}

func (u *doctorProfileUsecase) UpsertServices(ctx context.Context, doctorUserID uuid.UUID, req *dto.UpsertServicesRequest) ([]dto.DoctorServiceResponse, error) {
	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	services := make([]entity.DoctorService, 0, len(req.Services))
	for _, item := range req.Services {
		specialty, ok := entity.ParseSpecialty(item.Specialty)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSpecialty, item.Specialty)
		}

		svc := entity.DoctorService{
			DoctorID:             doctor.ID,
			Specialty:            specialty,
			BasePrice:            item.BasePrice,
			PerKmRate:            pricing.DefaultPerKmRate,
			IsOnlineAvailable:    true,
			IsHomeVisitAvailable: true,
			Description:          item.Description,
		}
		if item.PerKmRate != nil {
			svc.PerKmRate = *item.PerKmRate
		}
		if item.IsOnlineAvailable != nil {
			svc.IsOnlineAvailable = *item.IsOnlineAvailable
		}
		if item.IsHomeVisitAvailable != nil {
			svc.IsHomeVisitAvailable = *item.IsHomeVisitAvailable
		}
		services = append(services, svc)
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range services {
			if err := u.serviceRepo.Upsert(tx, &services[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to upsert doctor services: %+v", err)
		return nil, err
	}

	responses := make([]dto.DoctorServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, *converter.DoctorServiceToResponse(&services[i]))
	}
	return responses, nil
}

func (u *doctorProfileUsecase) requireDoctor(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to load doctor profile: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}
	return doctor, nil
}
