package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile holds patient-specific data, including the saved address
// used as the search origin when the caller does not send coordinates.
type PatientProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	AddressLine string     `gorm:"type:varchar(255)" json:"address_line,omitempty"`
	City        string     `gorm:"type:varchar(100)" json:"city,omitempty"`
	AddressLat  *float64   `json:"address_lat,omitempty"`
	AddressLng  *float64   `json:"address_lng,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// HasCoordinates reports whether the saved address can serve as a search origin.
func (p *PatientProfile) HasCoordinates() bool {
	return p.AddressLat != nil && p.AddressLng != nil
}
