package usecase

import (
	"context"
	"errors"
	"time"

	"go-medical-dispatch/internal/converter"
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"
	"go-medical-dispatch/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidAppointmentMode    = errors.New("invalid appointment mode")
	ErrAppointmentNotFound       = errors.New("appointment not found")
	ErrAppointmentNotCancellable = errors.New("appointment cannot be cancelled")
	ErrInvalidScheduleFormat     = errors.New("invalid scheduled_at, use RFC3339")
)

const healthSummaryLimit = 100

type PatientAppointmentUsecase interface {
	Create(ctx context.Context, patientUserID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListOwn(ctx context.Context, patientUserID uuid.UUID) (*dto.AppointmentListResponse, error)
	CancelOwn(ctx context.Context, patientUserID, appointmentID uuid.UUID) error
	HealthSummary(ctx context.Context, patientUserID uuid.UUID) (*dto.HealthSummaryResponse, error)
}

type patientAppointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo domainRepo.AppointmentRepository
	patientRepo     domainRepo.PatientProfileRepository
	triage          *service.TriageService
}

func NewPatientAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo domainRepo.AppointmentRepository,
	patientRepo domainRepo.PatientProfileRepository,
	triage *service.TriageService,
) PatientAppointmentUsecase {
	return &patientAppointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		triage:          triage,
	}
}

func (u *patientAppointmentUsecase) Create(ctx context.Context, patientUserID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patient, err := u.requirePatient(ctx, patientUserID)
	if err != nil {
		return nil, err
	}

	mode := entity.AppointmentMode(req.Mode)
	if !mode.Valid() {
		return nil, ErrInvalidAppointmentMode
	}

	var specialty entity.Specialty
	if req.Specialty != "" {
		parsed, ok := entity.ParseSpecialty(req.Specialty)
		if !ok {
			return nil, ErrInvalidSpecialty
		}
		specialty = parsed
	} else {
		// No specialty given: the triage classifier picks one. It never
		// fails; worst case is the heuristic default.
		classification := u.triage.ClassifySpecialty(ctx, req.Description)
		specialty = classification.Specialty
		u.log.Infof("Triage classified appointment as %s (confidence %.2f)", specialty, classification.Confidence)
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != nil && *req.ScheduledAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return nil, ErrInvalidScheduleFormat
		}
		scheduledAt = &parsed
	}

	appointment := &entity.Appointment{
		PatientID:   patient.ID,
		Specialty:   specialty,
		Mode:        mode,
		Description: req.Description,
		AddressLine: req.AddressLine,
		AddressLat:  req.AddressLat,
		AddressLng:  req.AddressLng,
		ScheduledAt: scheduledAt,
		Status:      entity.AppointmentPending,
		IsEmergency: req.IsEmergency,
	}

	// OFFLINE visits without an explicit address fall back to the saved one.
	if mode == entity.ModeOffline && appointment.AddressLat == nil && patient.HasCoordinates() {
		appointment.AddressLine = patient.AddressLine
		appointment.AddressLat = patient.AddressLat
		appointment.AddressLng = patient.AddressLng
	}

	if err := u.appointmentRepo.Create(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *patientAppointmentUsecase) ListOwn(ctx context.Context, patientUserID uuid.UUID) (*dto.AppointmentListResponse, error) {
	patient, err := u.requirePatient(ctx, patientUserID)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patient.ID)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *patientAppointmentUsecase) CancelOwn(ctx context.Context, patientUserID, appointmentID uuid.UUID) error {
	patient, err := u.requirePatient(ctx, patientUserID)
	if err != nil {
		return err
	}

	affected, err := u.appointmentRepo.CancelOwned(u.db.WithContext(ctx), appointmentID, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment: %+v", err)
		return err
	}
	if affected == 0 {
		// Distinguish a missing appointment from a terminal one.
		appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
		if err != nil {
			return err
		}
		if appointment == nil || appointment.PatientID != patient.ID {
			return ErrAppointmentNotFound
		}
		return ErrAppointmentNotCancellable
	}
	return nil
}

func (u *patientAppointmentUsecase) HealthSummary(ctx context.Context, patientUserID uuid.UUID) (*dto.HealthSummaryResponse, error) {
	patient, err := u.requirePatient(ctx, patientUserID)
	if err != nil {
		return nil, err
	}

	statuses := []entity.AppointmentStatus{
		entity.AppointmentConfirmed,
		entity.AppointmentInProgress,
		entity.AppointmentCompleted,
	}
	appointments, err := u.appointmentRepo.FindByPatientWithStatuses(u.db.WithContext(ctx), patient.ID, statuses, healthSummaryLimit)
	if err != nil {
		u.log.Warnf("Failed to load health summary appointments: %+v", err)
		return nil, err
	}

	counts := make(map[string]int)
	var lastReport *entity.AppointmentReport
	var lastReportAt time.Time
	for i := range appointments {
		a := &appointments[i]
		counts[string(a.Specialty)]++
		if a.Report != nil && a.Report.UpdatedAt.After(lastReportAt) {
			lastReport = a.Report
			lastReportAt = a.Report.UpdatedAt
		}
	}

	return &dto.HealthSummaryResponse{
		CountsBySpecialty: counts,
		LastReport:        converter.ReportToResponse(lastReport),
		TotalVisits:       len(appointments),
	}, nil
}

func (u *patientAppointmentUsecase) requirePatient(ctx context.Context, userID uuid.UUID) (*entity.PatientProfile, error) {
	patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to load patient profile: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}
	return patient, nil
}
