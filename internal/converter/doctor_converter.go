package converter

import (
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
)

func DoctorToResponse(d *entity.DoctorProfile) *dto.DoctorResponse {
	resp := &dto.DoctorResponse{
		ID:                d.ID,
		UserID:            d.UserID,
		Name:              d.User.Name,
		LicenseNumber:     d.LicenseNumber,
		Bio:               d.Bio,
		YearsOfExperience: d.YearsOfExperience,
		Specialties:       []string(d.Specialties),
		IsActive:          d.IsActive,
		ServiceRadiusKm:   d.ServiceRadiusKm,
		CreatedAt:         d.CreatedAt,
	}
	for i := range d.Services {
		resp.Services = append(resp.Services, *DoctorServiceToResponse(&d.Services[i]))
	}
	return resp
}

func DoctorServiceToResponse(s *entity.DoctorService) *dto.DoctorServiceResponse {
	return &dto.DoctorServiceResponse{
		Specialty:            string(s.Specialty),
		BasePrice:            s.BasePrice,
		PerKmRate:            s.PerKmRate,
		IsOnlineAvailable:    s.IsOnlineAvailable,
		IsHomeVisitAvailable: s.IsHomeVisitAvailable,
		Description:          s.Description,
	}
}

func PatientToResponse(p *entity.PatientProfile) *dto.PatientResponse {
	return &dto.PatientResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		AddressLine: p.AddressLine,
		City:        p.City,
		AddressLat:  p.AddressLat,
		AddressLng:  p.AddressLng,
	}
}
