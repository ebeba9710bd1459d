package repository

import (
	"errors"
	"time"

	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sosRepository struct{}

func NewSOSRepository() domainRepo.SOSRepository {
	return &sosRepository{}
}

func (r *sosRepository) Create(db *gorm.DB, sos *entity.SOSRequest) error {
	return db.Create(sos).Error
}

func (r *sosRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.SOSRequest, error) {
	var sos entity.SOSRequest
	err := db.Preload("Invitations").Where("id = ?", id).First(&sos).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sos, nil
}

func (r *sosRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.SOSRequest, error) {
	var requests []entity.SOSRequest
	err := db.Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// MarkAccepted is the single-winner compare-and-set. The WHERE clause
// checks PENDING and a null accepted_by_id in the same statement that sets
// them, so the row transition happens at most once no matter how many
// doctors race; every loser sees 0 affected rows.
func (r *sosRepository) MarkAccepted(db *gorm.DB, sosID, doctorID uuid.UUID) (int64, error) {
	result := db.Model(&entity.SOSRequest{}).
		Where("id = ? AND status = ? AND accepted_by_id IS NULL", sosID, entity.SOSPending).
		Updates(map[string]interface{}{
			"status":         entity.SOSAccepted,
			"accepted_by_id": doctorID,
		})
	return result.RowsAffected, result.Error
}

func (r *sosRepository) CancelOwned(db *gorm.DB, sosID, patientID uuid.UUID) (int64, error) {
	result := db.Model(&entity.SOSRequest{}).
		Where("id = ? AND patient_id = ? AND status = ?", sosID, patientID, entity.SOSPending).
		Update("status", entity.SOSCancelled)
	return result.RowsAffected, result.Error
}

type sosInvitationRepository struct{}

func NewSOSInvitationRepository() domainRepo.SOSInvitationRepository {
	return &sosInvitationRepository{}
}

func (r *sosInvitationRepository) CreateBatch(db *gorm.DB, invitations []entity.SOSInvitation) error {
	if len(invitations) == 0 {
		return nil
	}
	return db.Create(&invitations).Error
}

func (r *sosInvitationRepository) MarkAccepted(db *gorm.DB, sosID, doctorID uuid.UUID, respondedAt time.Time) error {
	return db.Model(&entity.SOSInvitation{}).
		Where("sos_id = ? AND doctor_id = ?", sosID, doctorID).
		Updates(map[string]interface{}{
			"status":       entity.InvitationAccepted,
			"responded_at": respondedAt,
		}).Error
}

func (r *sosInvitationRepository) FindOpenByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.SOSInvitation, error) {
	var invitations []entity.SOSInvitation
	err := db.Preload("SOS").
		Where("doctor_id = ? AND status IN ?", doctorID,
			[]entity.InvitationStatus{entity.InvitationInvited, entity.InvitationQueued}).
		Order("sent_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}
