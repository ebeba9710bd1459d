package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterPatientRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	DateOfBirth string   `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AddressLine string   `json:"address_line,omitempty"`
	City        string   `json:"city,omitempty"`
	AddressLat  *float64 `json:"address_lat,omitempty" validate:"omitempty,latitude"`
	AddressLng  *float64 `json:"address_lng,omitempty" validate:"omitempty,longitude"`
}

type RegisterDoctorRequest struct {
	Name              string   `json:"name" validate:"required,min=2,max=255"`
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=8"`
	LicenseNumber     string   `json:"license_number" validate:"required,max=50"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0,lte=80"`
	Specialties       []string `json:"specialties" validate:"required,min=1,dive,required"`
	Bio               string   `json:"bio,omitempty"`
	ServiceRadiusKm   *float64 `json:"service_radius_km,omitempty" validate:"omitempty,gt=0"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Patient   *PatientResponse `json:"patient,omitempty"`
	Doctor    *DoctorResponse  `json:"doctor,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
