package usecase

import (
	"context"
	"errors"
	"time"

	"go-medical-dispatch/internal/converter"
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"
	"go-medical-dispatch/internal/pricing"
	"go-medical-dispatch/internal/service"
	"go-medical-dispatch/pkg/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentCloseUsecase interface {
	// Close completes the appointment: report upsert, pricing, and the
	// terminal status flip happen in one transaction. The total is written
	// exactly once; replaying a close is a conflict.
	Close(ctx context.Context, doctorUserID uuid.UUID, req *dto.CloseAppointmentRequest) (*dto.CloseAppointmentResponse, error)
}

type appointmentCloseUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo domainRepo.AppointmentRepository
	reportRepo      domainRepo.AppointmentReportRepository
	assignmentRepo  domainRepo.AssignmentRepository
	doctorRepo      domainRepo.DoctorProfileRepository
	serviceRepo     domainRepo.DoctorServiceRepository
	triage          *service.TriageService
}

func NewAppointmentCloseUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo domainRepo.AppointmentRepository,
	reportRepo domainRepo.AppointmentReportRepository,
	assignmentRepo domainRepo.AssignmentRepository,
	doctorRepo domainRepo.DoctorProfileRepository,
	serviceRepo domainRepo.DoctorServiceRepository,
	triage *service.TriageService,
) AppointmentCloseUsecase {
	return &appointmentCloseUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		reportRepo:      reportRepo,
		assignmentRepo:  assignmentRepo,
		doctorRepo:      doctorRepo,
		serviceRepo:     serviceRepo,
		triage:          triage,
	}
}

func (u *appointmentCloseUsecase) Close(ctx context.Context, doctorUserID uuid.UUID, req *dto.CloseAppointmentRequest) (*dto.CloseAppointmentResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorUserID)
	if err != nil {
		u.log.Warnf("Failed to load doctor profile: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), req.AppointmentID)
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

	holds, err := u.assignmentRepo.HasAccepted(u.db.WithContext(ctx), appointment.ID, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to check assignment: %+v", err)
		return nil, err
	}
	if !holds {
		return nil, ErrAssignmentNotAccepted
	}

	report := u.buildReport(ctx, appointment, req)
	quote := u.buildQuote(ctx, appointment, doctor, req)
	closedAt := time.Now()

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.reportRepo.Upsert(tx, report); err != nil {
			return err
		}
		affected, err := u.appointmentRepo.Close(tx, appointment.ID, quote.Total, closedAt)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAppointmentTerminal
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAppointmentTerminal) {
			u.log.Warnf("Failed to close appointment: %+v", err)
		}
		return nil, err
	}

	appointment.Status = entity.AppointmentCompleted
	appointment.Total = &quote.Total
	appointment.ClosedAt = &closedAt

	return &dto.CloseAppointmentResponse{
		Appointment: *converter.AppointmentToResponse(appointment),
		Report:      *converter.ReportToResponse(report),
		Pricing: dto.PricingBreakdownResponse{
			BasePrice:   quote.BasePrice,
			PerKmRate:   quote.PerKmRate,
			DistanceKm:  quote.DistanceKm,
			Transport:   quote.Transport,
			GST:         quote.GST,
			PlatformFee: quote.PlatformFee,
			Total:       quote.Total,
		},
	}, nil
}

// buildReport merges the doctor's explicit fields over a generated draft.
// The draft is advisory and its failure modes are absorbed by the triage
// service, so the close path never blocks on it.
func (u *appointmentCloseUsecase) buildReport(ctx context.Context, appointment *entity.Appointment, req *dto.CloseAppointmentRequest) *entity.AppointmentReport {
	report := &entity.AppointmentReport{AppointmentID: appointment.ID}

	if req.AutoGenerate || req.Report == nil {
		draft := u.triage.DraftReport(ctx, appointment.Description, appointment.Specialty)
		report.Diagnosis = draft.Diagnosis
		report.Summary = draft.Summary
		report.Recommendations = draft.Recommendations
		report.EquipmentRequired = draft.EquipmentRequired
	}

	if req.Report != nil {
		if req.Report.Diagnosis != "" {
			report.Diagnosis = req.Report.Diagnosis
		}
		if req.Report.Summary != "" {
			report.Summary = req.Report.Summary
		}
		if req.Report.Recommendations != "" {
			report.Recommendations = req.Report.Recommendations
		}
		if req.Report.EquipmentRequired != "" {
			report.EquipmentRequired = req.Report.EquipmentRequired
		}
	}

	return report
}

// buildQuote resolves pricing inputs: rates come from the doctor's service
// row for the appointment specialty, overridable by the caller. Distance
// falls back to the doctor-to-address haversine when coordinates allow.
func (u *appointmentCloseUsecase) buildQuote(ctx context.Context, appointment *entity.Appointment, doctor *entity.DoctorProfile, req *dto.CloseAppointmentRequest) pricing.Quote {
	basePrice := decimal.Zero
	perKmRate := pricing.DefaultPerKmRate

	svc, err := u.serviceRepo.FindByDoctorAndSpecialty(u.db.WithContext(ctx), doctor.ID, appointment.Specialty)
	if err != nil {
		u.log.Warnf("Failed to load doctor service for pricing: %+v", err)
	}
	if svc != nil {
		basePrice = svc.BasePrice
		perKmRate = svc.PerKmRate
	}
	if req.BasePrice != nil {
		basePrice = *req.BasePrice
	}

	distanceKm := decimal.Zero
	switch {
	case req.DistanceKm != nil:
		distanceKm = *req.DistanceKm
	case appointment.Mode == entity.ModeOffline && appointment.HasCoordinates() && doctor.HasCoordinates():
		d := geo.HaversineKm(*doctor.CurrentLat, *doctor.CurrentLng, *appointment.AddressLat, *appointment.AddressLng)
		distanceKm = decimal.NewFromFloat(d)
	}

	return pricing.Compute(basePrice, perKmRate, distanceKm)
}
