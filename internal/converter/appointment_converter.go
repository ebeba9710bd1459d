package converter

import (
	"github.com/google/uuid"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
)

func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		Specialty:   string(a.Specialty),
		Mode:        string(a.Mode),
		Description: a.Description,
		AddressLine: a.AddressLine,
		AddressLat:  a.AddressLat,
		AddressLng:  a.AddressLng,
		ScheduledAt: a.ScheduledAt,
		Status:      string(a.Status),
		Total:       a.Total,
		ClosedAt:    a.ClosedAt,
		IsEmergency: a.IsEmergency,
		CreatedAt:   a.CreatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *AppointmentToResponse(&appointments[i]))
	}
	return responses
}

func AssignmentToResponse(a *entity.AppointmentAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:            a.ID,
		AppointmentID: a.AppointmentID,
		DoctorID:      a.DoctorID,
		Status:        string(a.Status),
		QueuePosition: a.QueuePosition,
		AcceptedAt:    a.AcceptedAt,
		CancelledAt:   a.CancelledAt,
	}
	if a.Appointment.ID != uuid.Nil {
		resp.Appointment = AppointmentToResponse(&a.Appointment)
	}
	return resp
}

func AssignmentsToResponses(assignments []entity.AppointmentAssignment) []dto.AssignmentResponse {
	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		responses = append(responses, *AssignmentToResponse(&assignments[i]))
	}
	return responses
}

func ReportToResponse(r *entity.AppointmentReport) *dto.ReportResponse {
	if r == nil {
		return nil
	}
	return &dto.ReportResponse{
		Diagnosis:         r.Diagnosis,
		Summary:           r.Summary,
		Recommendations:   r.Recommendations,
		EquipmentRequired: r.EquipmentRequired,
	}
}
