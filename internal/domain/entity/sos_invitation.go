package entity

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus is the lifecycle of one doctor's invitation to an SOS.
type InvitationStatus string

const (
	InvitationInvited  InvitationStatus = "INVITED"
	InvitationQueued   InvitationStatus = "QUEUED"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

// SOSInvitation records the fan-out of candidate doctors for an SOS. A
// doctor only participates in the accept race if a row exists here. The
// winner's row flips to ACCEPTED with RespondedAt; sibling rows are left
// untouched by the accept transaction.
type SOSInvitation struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SOSID       uuid.UUID        `gorm:"column:sos_id;type:uuid;not null;uniqueIndex:idx_sos_doctor" json:"sos_id"`
	DoctorID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_sos_doctor" json:"doctor_id"`
	Status      InvitationStatus `gorm:"type:varchar(20);not null;default:'INVITED';index" json:"status"`
	DistanceKm  *float64         `json:"distance_km,omitempty"`
	SentAt      time.Time        `gorm:"not null" json:"sent_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	SOS    SOSRequest    `gorm:"foreignKey:SOSID" json:"sos,omitempty"`
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (SOSInvitation) TableName() string {
	return "sos_invitations"
}
