package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type UpdateDoctorProfileRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	LicenseNumber     *string  `json:"license_number,omitempty" validate:"omitempty,max=50"`
	YearsOfExperience *int     `json:"years_of_experience,omitempty" validate:"omitempty,gte=0,lte=80"`
	Specialties       []string `json:"specialties,omitempty" validate:"omitempty,min=1,dive,required"`
	IsActive          *bool    `json:"is_active,omitempty"`
	Bio               *string  `json:"bio,omitempty"`
}

type UpdateLocationRequest struct {
	Lat             float64  `json:"lat" validate:"latitude"`
	Lng             float64  `json:"lng" validate:"longitude"`
	ServiceRadiusKm *float64 `json:"service_radius_km,omitempty" validate:"omitempty,gt=0"`
}

type UpsertServiceRequest struct {
	Specialty            string           `json:"specialty" validate:"required"`
	BasePrice            decimal.Decimal  `json:"base_price" validate:"required"`
	PerKmRate            *decimal.Decimal `json:"per_km_rate,omitempty"`
	IsOnlineAvailable    *bool            `json:"is_online_available,omitempty"`
	IsHomeVisitAvailable *bool            `json:"is_home_visit_available,omitempty"`
	Description          string           `json:"description,omitempty"`
}

type UpsertServicesRequest struct {
	Services []UpsertServiceRequest `json:"services" validate:"required,min=1,dive"`
}

type SearchDoctorsRequest struct {
	Specialty string           `json:"specialty" validate:"required"`
	Lat       *float64         `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng       *float64         `json:"lng,omitempty" validate:"omitempty,longitude"`
	RadiusKm  *float64         `json:"radius_km,omitempty" validate:"omitempty,gt=0"`
	MinPrice  *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice  *decimal.Decimal `json:"max_price,omitempty"`
	Mode      *string          `json:"mode,omitempty" validate:"omitempty,oneof=ONLINE OFFLINE"`
}

// Response DTOs

type DoctorServiceResponse struct {
	Specialty            string          `json:"specialty"`
	BasePrice            decimal.Decimal `json:"base_price"`
	PerKmRate            decimal.Decimal `json:"per_km_rate"`
	IsOnlineAvailable    bool            `json:"is_online_available"`
	IsHomeVisitAvailable bool            `json:"is_home_visit_available"`
	Description          string          `json:"description,omitempty"`
}

type DoctorResponse struct {
	ID                uuid.UUID               `json:"id"`
	UserID            uuid.UUID               `json:"user_id"`
	Name              string                  `json:"name,omitempty"`
	LicenseNumber     string                  `json:"license_number,omitempty"`
	Bio               string                  `json:"bio,omitempty"`
	YearsOfExperience int                     `json:"years_of_experience"`
	Specialties       []string                `json:"specialties"`
	IsActive          bool                    `json:"is_active"`
	ServiceRadiusKm   float64                 `json:"service_radius_km"`
	Services          []DoctorServiceResponse `json:"services,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
}

// DoctorSearchResult is one ranked candidate. DistanceKm is nil when either
// the origin or the doctor's location is unknown.
type DoctorSearchResult struct {
	ID                uuid.UUID              `json:"id"`
	UserID            uuid.UUID              `json:"user_id"`
	Name              string                 `json:"name,omitempty"`
	Bio               string                 `json:"bio,omitempty"`
	YearsOfExperience int                    `json:"years_of_experience"`
	DistanceKm        *float64               `json:"distance_km"`
	Service           *DoctorServiceResponse `json:"service,omitempty"`
}

type DoctorSearchResponse struct {
	OriginLat *float64             `json:"origin_lat"`
	OriginLng *float64             `json:"origin_lng"`
	Results   []DoctorSearchResult `json:"results"`
}

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	AddressLine string    `json:"address_line,omitempty"`
	City        string    `json:"city,omitempty"`
	AddressLat  *float64  `json:"address_lat,omitempty"`
	AddressLng  *float64  `json:"address_lng,omitempty"`
}
