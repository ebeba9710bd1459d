package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorService is per-(doctor, specialty) pricing and availability, owned
// by the doctor and read-only input to search filtering and pricing.
type DoctorService struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_doctor_specialty" json:"doctor_id"`
	Specialty            Specialty       `gorm:"type:varchar(50);not null;uniqueIndex:idx_doctor_specialty" json:"specialty"`
	BasePrice            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	PerKmRate            decimal.Decimal `gorm:"type:decimal(10,2);not null;default:15" json:"per_km_rate"`
	IsOnlineAvailable    bool            `gorm:"not null;default:true" json:"is_online_available"`
	IsHomeVisitAvailable bool            `gorm:"not null;default:true" json:"is_home_visit_available"`
	Description          string          `gorm:"type:text" json:"description,omitempty"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorService) TableName() string {
	return "doctor_services"
}

// SupportsMode checks the availability flag matching an appointment mode.
func (s *DoctorService) SupportsMode(mode AppointmentMode) bool {
	switch mode {
	case ModeOnline:
		return s.IsOnlineAvailable
	case ModeOffline:
		return s.IsHomeVisitAvailable
	default:
		return false
	}
}
