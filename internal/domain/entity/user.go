package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two actor kinds the dispatch core cares about.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

// User is the account record; role-specific data lives in PatientProfile or
// DoctorProfile.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *PatientProfile `gorm:"foreignKey:UserID" json:"patient,omitempty"`
	Doctor  *DoctorProfile  `gorm:"foreignKey:UserID" json:"doctor,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}
