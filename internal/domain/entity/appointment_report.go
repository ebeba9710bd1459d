package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentReport is the clinical summary attached when an appointment
// closes. One row per appointment; fields may be filled by the doctor, the
// classifier, or both (doctor input wins).
type AppointmentReport struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	Diagnosis         string    `gorm:"type:text" json:"diagnosis,omitempty"`
	Summary           string    `gorm:"type:text" json:"summary,omitempty"`
	Recommendations   string    `gorm:"type:text" json:"recommendations,omitempty"`
	EquipmentRequired string    `gorm:"type:text" json:"equipment_required,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AppointmentReport) TableName() string {
	return "appointment_reports"
}
