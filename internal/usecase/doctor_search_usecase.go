package usecase

import (
	"context"
	"errors"
	"sort"

	"go-medical-dispatch/internal/converter"
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"
	"go-medical-dispatch/pkg/geo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientProfileNotFound = errors.New("patient profile not found")
	ErrOriginRequired         = errors.New("origin coordinates required")
)

const searchCandidateLimit = 200

type DoctorSearchUsecase interface {
	// Search matches doctors for an authenticated patient; the patient's
	// saved address serves as origin when the request carries none.
	Search(ctx context.Context, patientUserID uuid.UUID, req *dto.SearchDoctorsRequest) (*dto.DoctorSearchResponse, error)

	// SearchPublic is the unauthenticated variant: origin is mandatory and
	// doctors without a known location are skipped.
	SearchPublic(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.DoctorSearchResponse, error)
}

type doctorSearchUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      domainRepo.DoctorProfileRepository
	patientRepo     domainRepo.PatientProfileRepository
	defaultRadiusKm float64
}

func NewDoctorSearchUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo domainRepo.DoctorProfileRepository,
	patientRepo domainRepo.PatientProfileRepository,
	defaultRadiusKm float64,
) DoctorSearchUsecase {
	return &doctorSearchUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// candidate pairs a doctor with the distance computed for this search.
type candidate struct {
	doctor     *entity.DoctorProfile
	service    *entity.DoctorService
	distanceKm *float64
}

func (u *doctorSearchUsecase) Search(ctx context.Context, patientUserID uuid.UUID, req *dto.SearchDoctorsRequest) (*dto.DoctorSearchResponse, error) {
	filter, err := u.buildFilter(req)
	if err != nil {
		return nil, err
	}

	if !filter.HasOrigin() {
		patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), patientUserID)
		if err != nil {
			u.log.Warnf("Failed to load patient profile: %+v", err)
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientProfileNotFound
		}
		if patient.HasCoordinates() {
			filter.OriginLat = patient.AddressLat
			filter.OriginLng = patient.AddressLng
		}
	}

	return u.search(ctx, filter, false)
}

func (u *doctorSearchUsecase) SearchPublic(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.DoctorSearchResponse, error) {
	filter, err := u.buildFilter(req)
	if err != nil {
		return nil, err
	}
	if !filter.HasOrigin() {
		return nil, ErrOriginRequired
	}
	return u.search(ctx, filter, true)
}

func (u *doctorSearchUsecase) buildFilter(req *dto.SearchDoctorsRequest) (*entity.DoctorSearchFilter, error) {
	filter := &entity.DoctorSearchFilter{
		OriginLat: req.Lat,
		OriginLng: req.Lng,
		RadiusKm:  req.RadiusKm,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
	}

	if req.Specialty != "" {
		specialty, ok := entity.ParseSpecialty(req.Specialty)
		if !ok {
			return nil, ErrInvalidSpecialty
		}
		filter.Specialty = specialty
	}

	if req.Mode != nil {
		mode := entity.AppointmentMode(*req.Mode)
		if !mode.Valid() {
			return nil, ErrInvalidAppointmentMode
		}
		filter.Mode = &mode
	}

	if filter.RadiusKm == nil {
		radius := u.defaultRadiusKm
		filter.RadiusKm = &radius
	}

	return filter, nil
}

func (u *doctorSearchUsecase) search(ctx context.Context, filter *entity.DoctorSearchFilter, requireCoordinates bool) (*dto.DoctorSearchResponse, error) {
	db := u.db.WithContext(ctx)

	var doctors []entity.DoctorProfile
	var err error
	if filter.Specialty != "" {
		doctors, err = u.doctorRepo.FindActiveBySpecialty(db, filter.Specialty, searchCandidateLimit)
	} else {
		doctors, err = u.doctorRepo.FindActive(db, searchCandidateLimit)
	}
	if err != nil {
		u.log.Warnf("Failed to load doctor candidates: %+v", err)
		return nil, err
	}

	candidates := make([]candidate, 0, len(doctors))
	for i := range doctors {
		doctor := &doctors[i]

		var service *entity.DoctorService
		if filter.Specialty != "" {
			service = doctor.ServiceFor(filter.Specialty)
		} else if len(doctor.Services) > 0 {
			service = &doctor.Services[0]
		}

		if !u.matchesService(filter, service) {
			continue
		}

		var distance *float64
		if filter.HasOrigin() && doctor.HasCoordinates() {
			d := geo.HaversineKm(*filter.OriginLat, *filter.OriginLng, *doctor.CurrentLat, *doctor.CurrentLng)
			distance = &d
		}

		if distance == nil {
			// Radius filtering needs a distance. With a known origin,
			// locationless doctors are out; without one, everyone passes.
			if requireCoordinates || filter.HasOrigin() {
				continue
			}
		} else if *distance > *filter.RadiusKm {
			continue
		}

		candidates = append(candidates, candidate{doctor: doctor, service: service, distanceKm: distance})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.distanceKm != nil && b.distanceKm != nil:
			if *a.distanceKm != *b.distanceKm {
				return *a.distanceKm < *b.distanceKm
			}
			return a.doctor.YearsOfExperience > b.doctor.YearsOfExperience
		case a.distanceKm != nil:
			return true
		case b.distanceKm != nil:
			return false
		default:
			return a.doctor.YearsOfExperience > b.doctor.YearsOfExperience
		}
	})

	results := make([]dto.DoctorSearchResult, 0, len(candidates))
	for _, c := range candidates {
		result := dto.DoctorSearchResult{
			ID:                c.doctor.ID,
			UserID:            c.doctor.UserID,
			Name:              c.doctor.User.Name,
			Bio:               c.doctor.Bio,
			YearsOfExperience: c.doctor.YearsOfExperience,
		}
		if c.distanceKm != nil {
			rounded := geo.Round2(*c.distanceKm)
			result.DistanceKm = &rounded
		}
		if c.service != nil {
			result.Service = converter.DoctorServiceToResponse(c.service)
		}
		results = append(results, result)
	}

	return &dto.DoctorSearchResponse{
		OriginLat: filter.OriginLat,
		OriginLng: filter.OriginLng,
		Results:   results,
	}, nil
}

// matchesService applies the mode and price-band filters. A mode filter
// needs a service row carrying the availability flag; price filters only
// apply when a service row exists.
func (u *doctorSearchUsecase) matchesService(filter *entity.DoctorSearchFilter, service *entity.DoctorService) bool {
	if filter.Mode != nil {
		if service == nil || !service.SupportsMode(*filter.Mode) {
			return false
		}
	}
	if service != nil {
		if filter.MinPrice != nil && service.BasePrice.LessThan(*filter.MinPrice) {
			return false
		}
		if filter.MaxPrice != nil && service.BasePrice.GreaterThan(*filter.MaxPrice) {
			return false
		}
	} else if filter.MinPrice != nil || filter.MaxPrice != nil {
		return false
	}
	return true
}
