package usecase

import (
	"context"
	"errors"

	"go-medical-dispatch/internal/converter"
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"
	"go-medical-dispatch/pkg/geo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorProfileNotFound    = errors.New("doctor profile not found")
	ErrAssignmentCapacityFull   = errors.New("assignment queue is full")
	ErrAssignmentNotFound       = errors.New("assignment not found")
	ErrAssignmentNotAccepted    = errors.New("doctor has no accepted assignment")
	ErrInvalidAppointmentStatus = errors.New("status not allowed")
	ErrAppointmentTerminal      = errors.New("appointment already completed or cancelled")
)

const openAppointmentLimit = 100

type AssignmentUsecase interface {
	// Accept claims a queue slot. Replays by the same doctor return the
	// existing assignment instead of erroring.
	Accept(ctx context.Context, doctorUserID, appointmentID uuid.UUID) (*dto.AssignmentResponse, error)

	// Cancel releases the doctor's own slot. The freed position is not
	// renumbered or reassigned.
	Cancel(ctx context.Context, doctorUserID, appointmentID uuid.UUID) error

	// UpdateAppointmentStatus moves the appointment through the allow-listed
	// states; only a doctor holding an ACCEPTED assignment may call it.
	UpdateAppointmentStatus(ctx context.Context, doctorUserID, appointmentID uuid.UUID, status string) error

	ListAssignments(ctx context.Context, doctorUserID uuid.UUID) (*dto.AssignmentListResponse, error)

	// ListOpenAppointments is the doctor-facing feed of claimable work,
	// optionally filtered to a radius around the doctor's location.
	ListOpenAppointments(ctx context.Context, doctorUserID uuid.UUID, radiusKm *float64) (*dto.AppointmentListResponse, error)
}

type assignmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	assignmentRepo  domainRepo.AssignmentRepository
	appointmentRepo domainRepo.AppointmentRepository
	doctorRepo      domainRepo.DoctorProfileRepository
}

func NewAssignmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	assignmentRepo domainRepo.AssignmentRepository,
	appointmentRepo domainRepo.AppointmentRepository,
	doctorRepo domainRepo.DoctorProfileRepository,
) AssignmentUsecase {
	return &assignmentUsecase{
		db:              db,
		log:             log,
		assignmentRepo:  assignmentRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
	}
}

func (u *assignmentUsecase) Accept(ctx context.Context, doctorUserID, appointmentID uuid.UUID) (*dto.AssignmentResponse, error) {
	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to load appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsTerminal() {
		return nil, ErrAppointmentTerminal
	}

	assignment, created, err := u.assignmentRepo.Accept(u.db.WithContext(ctx), appointmentID, doctor.ID)
	if err != nil {
		if errors.Is(err, domainRepo.ErrAssignmentCapacity) {
			return nil, ErrAssignmentCapacityFull
		}
		u.log.Warnf("Failed to accept assignment: %+v", err)
		return nil, err
	}
	if created {
		u.log.Infof("Doctor %s accepted appointment %s at position %d", doctor.ID, appointmentID, assignment.QueuePosition)
	}

	return converter.AssignmentToResponse(assignment), nil
}

func (u *assignmentUsecase) Cancel(ctx context.Context, doctorUserID, appointmentID uuid.UUID) error {
	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return err
	}

	affected, err := u.assignmentRepo.Cancel(u.db.WithContext(ctx), appointmentID, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to cancel assignment: %+v", err)
		return err
	}
	if affected == 0 {
		existing, err := u.assignmentRepo.FindByAppointmentAndDoctor(u.db.WithContext(ctx), appointmentID, doctor.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrAssignmentNotFound
		}
		// Row exists but did not flip: it was already CANCELLED.
		return ErrAssignmentNotAccepted
	}
	return nil
}

func (u *assignmentUsecase) UpdateAppointmentStatus(ctx context.Context, doctorUserID, appointmentID uuid.UUID, status string) error {
	target := entity.AppointmentStatus(status)
	allowed := false
	for _, s := range entity.DoctorSettableStatuses {
		if s == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidAppointmentStatus
	}

	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return err
	}

	holds, err := u.assignmentRepo.HasAccepted(u.db.WithContext(ctx), appointmentID, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to check assignment: %+v", err)
		return err
	}
	if !holds {
		return ErrAssignmentNotAccepted
	}

	affected, err := u.appointmentRepo.UpdateStatus(u.db.WithContext(ctx), appointmentID, target)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentTerminal
	}
	return nil
}

func (u *assignmentUsecase) ListAssignments(ctx context.Context, doctorUserID uuid.UUID) (*dto.AssignmentListResponse, error) {
	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	assignments, err := u.assignmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to list assignments: %+v", err)
		return nil, err
	}

	return &dto.AssignmentListResponse{
		Assignments: converter.AssignmentsToResponses(assignments),
		Total:       len(assignments),
	}, nil
}

func (u *assignmentUsecase) ListOpenAppointments(ctx context.Context, doctorUserID uuid.UUID, radiusKm *float64) (*dto.AppointmentListResponse, error) {
	doctor, err := u.requireDoctor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindOpen(u.db.WithContext(ctx), openAppointmentLimit)
	if err != nil {
		u.log.Warnf("Failed to list open appointments: %+v", err)
		return nil, err
	}

	filtered := appointments[:0]
	for i := range appointments {
		a := &appointments[i]
		if !a.Specialty.Valid() || !doctor.HasSpecialty(a.Specialty) {
			continue
		}
		if radiusKm != nil {
			// Radius filtering needs both locations; unknown coordinates
			// are out, never assumed in range.
			if !doctor.HasCoordinates() || !a.HasCoordinates() {
				continue
			}
			d := geo.HaversineKm(*doctor.CurrentLat, *doctor.CurrentLng, *a.AddressLat, *a.AddressLng)
			if d > *radiusKm {
				continue
			}
		}
		filtered = append(filtered, *a)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(filtered),
		Total:        len(filtered),
	}, nil
}

func (u *assignmentUsecase) requireDoctor(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to load doctor profile: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}
	return doctor, nil
}
