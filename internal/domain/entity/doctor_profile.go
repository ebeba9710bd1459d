package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DoctorProfile is the geo-searchable doctor record. CurrentLat/CurrentLng
// are mutated only by the owning doctor's location update; staleness is
// tolerated, there is no TTL on a reported position.
type DoctorProfile struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	LicenseNumber     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Bio               string         `gorm:"type:text" json:"bio,omitempty"`
	YearsOfExperience int            `gorm:"not null;default:0" json:"years_of_experience"`
	Specialties       pq.StringArray `gorm:"type:text[];not null" json:"specialties"`
	IsActive          bool           `gorm:"not null;default:true;index" json:"is_active"`
	CurrentLat        *float64       `json:"current_lat,omitempty"`
	CurrentLng        *float64       `json:"current_lng,omitempty"`
	ServiceRadiusKm   float64        `gorm:"not null;default:10" json:"service_radius_km"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User     User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Services []DoctorService `gorm:"foreignKey:DoctorID" json:"services,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// HasSpecialty checks whether the doctor declares the given specialty.
func (d *DoctorProfile) HasSpecialty(s Specialty) bool {
	for _, declared := range d.Specialties {
		if Specialty(declared) == s {
			return true
		}
	}
	return false
}

// HasCoordinates reports whether the doctor has a known current location.
func (d *DoctorProfile) HasCoordinates() bool {
	return d.CurrentLat != nil && d.CurrentLng != nil
}

// ServiceFor returns the doctor's service row for a specialty, nil if absent.
func (d *DoctorProfile) ServiceFor(s Specialty) *DoctorService {
	for i := range d.Services {
		if d.Services[i].Specialty == s {
			return &d.Services[i]
		}
	}
	return nil
}
