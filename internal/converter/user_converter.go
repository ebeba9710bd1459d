package converter

import (
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
)

func UserToResponse(u *entity.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
	if u.Patient != nil {
		resp.Patient = PatientToResponse(u.Patient)
	}
	if u.Doctor != nil {
		resp.Doctor = DoctorToResponse(u.Doctor)
	}
	return resp
}
