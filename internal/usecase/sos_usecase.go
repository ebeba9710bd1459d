package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"go-medical-dispatch/internal/converter"
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"
	"go-medical-dispatch/internal/service"
	"go-medical-dispatch/pkg/geo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSOSNotFound        = errors.New("sos request not found")
	ErrSOSNotPending      = errors.New("sos request is no longer pending")
	ErrSOSAlreadyAccepted = errors.New("sos request already accepted by another doctor")
)

type SOSUsecase interface {
	// Create opens a PENDING SOS and fans out invitations to nearby active
	// doctors. Fan-out failure is logged, never propagated: an SOS without
	// invitations is still acceptable through the race endpoint.
	Create(ctx context.Context, patientUserID uuid.UUID, req *dto.CreateSOSRequest) (*dto.SOSResponse, error)

	// Accept races to claim the SOS. Exactly one doctor wins; losers get
	// ErrSOSAlreadyAccepted.
	Accept(ctx context.Context, doctorUserID, sosID uuid.UUID) (*dto.SOSResponse, error)

	Cancel(ctx context.Context, patientUserID, sosID uuid.UUID) error
	ListOwn(ctx context.Context, patientUserID uuid.UUID) (*dto.SOSListResponse, error)
	ListInvitations(ctx context.Context, doctorUserID uuid.UUID) (*dto.SOSInvitationListResponse, error)
}

type sosUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	sosRepo         domainRepo.SOSRepository
	invitationRepo  domainRepo.SOSInvitationRepository
	doctorRepo      domainRepo.DoctorProfileRepository
	patientRepo     domainRepo.PatientProfileRepository
	triage          *service.TriageService
	defaultRadiusKm float64
	fanoutCap       int
}

func NewSOSUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	sosRepo domainRepo.SOSRepository,
	invitationRepo domainRepo.SOSInvitationRepository,
	doctorRepo domainRepo.DoctorProfileRepository,
	patientRepo domainRepo.PatientProfileRepository,
	triage *service.TriageService,
	defaultRadiusKm float64,
	fanoutCap int,
) SOSUsecase {
	return &sosUsecase{
		db:              db,
		log:             log,
		sosRepo:         sosRepo,
		invitationRepo:  invitationRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		triage:          triage,
		defaultRadiusKm: defaultRadiusKm,
		fanoutCap:       fanoutCap,
	}
}

func (u *sosUsecase) Create(ctx context.Context, patientUserID uuid.UUID, req *dto.CreateSOSRequest) (*dto.SOSResponse, error) {
	patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), patientUserID)
	if err != nil {
		u.log.Warnf("Failed to load patient profile: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}

	var specialty entity.Specialty
	if req.Specialty != "" {
		parsed, ok := entity.ParseSpecialty(req.Specialty)
		if !ok {
			return nil, ErrInvalidSpecialty
		}
		specialty = parsed
	} else {
		classification := u.triage.ClassifySpecialty(ctx, req.Description)
		specialty = classification.Specialty
		u.log.Infof("Triage classified SOS as %s (confidence %.2f)", specialty, classification.Confidence)
	}

	radius := u.defaultRadiusKm
	if req.InitialRadiusKm != nil {
		radius = *req.InitialRadiusKm
	}

	sos := &entity.SOSRequest{
		PatientID:       patient.ID,
		Description:     req.Description,
		Specialty:       specialty,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		InitialRadiusKm: radius,
		CurrentRadiusKm: radius,
		Status:          entity.SOSPending,
	}

	if err := u.sosRepo.Create(u.db.WithContext(ctx), sos); err != nil {
		u.log.Warnf("Failed to create SOS request: %+v", err)
		return nil, err
	}

	invited := u.fanOutInvitations(ctx, sos)

	resp := converter.SOSToResponse(sos)
	resp.InvitedCount = invited
	return resp, nil
}

// fanOutInvitations invites active doctors of the SOS specialty within the
// current radius, nearest first, capped. Returns the invited count; errors
// are swallowed after logging.
func (u *sosUsecase) fanOutInvitations(ctx context.Context, sos *entity.SOSRequest) int {
	doctors, err := u.doctorRepo.FindActiveBySpecialty(u.db.WithContext(ctx), sos.Specialty, u.fanoutCap*4)
	if err != nil {
		u.log.Warnf("SOS invitation fan-out aborted, candidate lookup failed: %+v", err)
		return 0
	}

	type ranked struct {
		doctorID   uuid.UUID
		distanceKm float64
	}
	candidates := make([]ranked, 0, len(doctors))
	for i := range doctors {
		doctor := &doctors[i]
		if !doctor.HasCoordinates() {
			continue
		}
		d := geo.HaversineKm(sos.Latitude, sos.Longitude, *doctor.CurrentLat, *doctor.CurrentLng)
		if d > sos.CurrentRadiusKm {
			continue
		}
		candidates = append(candidates, ranked{doctorID: doctor.ID, distanceKm: d})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distanceKm < candidates[j].distanceKm
	})
	if len(candidates) > u.fanoutCap {
		candidates = candidates[:u.fanoutCap]
	}
	if len(candidates) == 0 {
		u.log.Warnf("SOS %s has no doctors within %.1f km", sos.ID, sos.CurrentRadiusKm)
		return 0
	}

	now := time.Now()
	invitations := make([]entity.SOSInvitation, 0, len(candidates))
	for _, c := range candidates {
		distance := geo.Round2(c.distanceKm)
		invitations = append(invitations, entity.SOSInvitation{
			SOSID:      sos.ID,
			DoctorID:   c.doctorID,
			Status:     entity.InvitationInvited,
			DistanceKm: &distance,
			SentAt:     now,
		})
	}

	if err := u.invitationRepo.CreateBatch(u.db.WithContext(ctx), invitations); err != nil {
		u.log.Warnf("Failed to create SOS invitations: %+v", err)
		return 0
	}
	return len(invitations)
}

func (u *sosUsecase) Accept(ctx context.Context, doctorUserID, sosID uuid.UUID) (*dto.SOSResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorUserID)
	if err != nil {
		u.log.Warnf("Failed to load doctor profile: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	sos, err := u.sosRepo.FindByID(u.db.WithContext(ctx), sosID)
	if err != nil {
		u.log.Warnf("Failed to load SOS request: %+v", err)
		return nil, err
	}
	if sos == nil {
		return nil, ErrSOSNotFound
	}

	affected, err := u.sosRepo.MarkAccepted(u.db.WithContext(ctx), sosID, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to accept SOS request: %+v", err)
		return nil, err
	}
	if affected == 0 {
		// Lost the compare-and-set. Re-read to report the precise reason.
		current, err := u.sosRepo.FindByID(u.db.WithContext(ctx), sosID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrSOSNotFound
		}
		if current.Status == entity.SOSAccepted {
			if current.AcceptedByID != nil && *current.AcceptedByID == doctor.ID {
				// Replay by the winner.
				return converter.SOSToResponse(current), nil
			}
			return nil, ErrSOSAlreadyAccepted
		}
		return nil, ErrSOSNotPending
	}

	if err := u.invitationRepo.MarkAccepted(u.db.WithContext(ctx), sosID, doctor.ID, time.Now()); err != nil {
		// The win already committed; an invitation bookkeeping miss must not
		// undo it.
		u.log.Warnf("Failed to mark SOS invitation accepted: %+v", err)
	}

	u.log.Infof("Doctor %s won SOS %s", doctor.ID, sosID)

	sos.Status = entity.SOSAccepted
	sos.AcceptedByID = &doctor.ID
	return converter.SOSToResponse(sos), nil
}

func (u *sosUsecase) Cancel(ctx context.Context, patientUserID, sosID uuid.UUID) error {
	patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), patientUserID)
	if err != nil {
		return err
	}
	if patient == nil {
		return ErrPatientProfileNotFound
	}

	affected, err := u.sosRepo.CancelOwned(u.db.WithContext(ctx), sosID, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to cancel SOS request: %+v", err)
		return err
	}
	if affected == 0 {
		current, err := u.sosRepo.FindByID(u.db.WithContext(ctx), sosID)
		if err != nil {
			return err
		}
		if current == nil || current.PatientID != patient.ID {
			return ErrSOSNotFound
		}
		return ErrSOSNotPending
	}
	return nil
}

func (u *sosUsecase) ListOwn(ctx context.Context, patientUserID uuid.UUID) (*dto.SOSListResponse, error) {
	patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), patientUserID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}

	requests, err := u.sosRepo.FindByPatientID(u.db.WithContext(ctx), patient.ID)
	if err != nil {
		u.log.Warnf("Failed to list SOS requests: %+v", err)
		return nil, err
	}

	return &dto.SOSListResponse{
		Requests: converter.SOSListToResponses(requests),
		Total:    len(requests),
	}, nil
}

func (u *sosUsecase) ListInvitations(ctx context.Context, doctorUserID uuid.UUID) (*dto.SOSInvitationListResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorUserID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	invitations, err := u.invitationRepo.FindOpenByDoctor(u.db.WithContext(ctx), doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to list SOS invitations: %+v", err)
		return nil, err
	}

	return &dto.SOSInvitationListResponse{
		Invitations: converter.SOSInvitationsToResponses(invitations),
		Total:       len(invitations),
	}, nil
}
