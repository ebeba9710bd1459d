package repository

import (
	"time"

	"go-medical-dispatch/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SOSRepository interface {
	Create(db *gorm.DB, sos *entity.SOSRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.SOSRequest, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.SOSRequest, error)

	// MarkAccepted is the single-winner compare-and-set:
	//
	//   UPDATE sos_requests SET status = ACCEPTED, accepted_by_id = doctor
	//   WHERE id = ? AND status = PENDING AND accepted_by_id IS NULL
	//
	// Exactly one concurrent caller gets 1 affected row; everyone else gets
	// 0 and must report the race loss to its caller.
	MarkAccepted(db *gorm.DB, sosID, doctorID uuid.UUID) (int64, error)

	// CancelOwned moves the patient's own PENDING request to CANCELLED.
	// Returns affected rows; 0 means not found, not owned, or not PENDING.
	CancelOwned(db *gorm.DB, sosID, patientID uuid.UUID) (int64, error)
}

type SOSInvitationRepository interface {
	CreateBatch(db *gorm.DB, invitations []entity.SOSInvitation) error

	// MarkAccepted flips the doctor's invitation for the SOS to ACCEPTED
	// with a response timestamp. Sibling invitations are not touched.
	MarkAccepted(db *gorm.DB, sosID, doctorID uuid.UUID, respondedAt time.Time) error

	// FindOpenByDoctor lists INVITED/QUEUED invitations for the doctor with
	// the SOS preloaded, newest first.
	FindOpenByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.SOSInvitation, error)
}
