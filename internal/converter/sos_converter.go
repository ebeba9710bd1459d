package converter

import (
	"github.com/google/uuid"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
)

func SOSToResponse(s *entity.SOSRequest) *dto.SOSResponse {
	return &dto.SOSResponse{
		ID:              s.ID,
		PatientID:       s.PatientID,
		Description:     s.Description,
		Specialty:       string(s.Specialty),
		Latitude:        s.Latitude,
		Longitude:       s.Longitude,
		InitialRadiusKm: s.InitialRadiusKm,
		CurrentRadiusKm: s.CurrentRadiusKm,
		Status:          string(s.Status),
		AcceptedByID:    s.AcceptedByID,
		CreatedAt:       s.CreatedAt,
	}
}

func SOSListToResponses(requests []entity.SOSRequest) []dto.SOSResponse {
	responses := make([]dto.SOSResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *SOSToResponse(&requests[i]))
	}
	return responses
}

func SOSInvitationToResponse(inv *entity.SOSInvitation) *dto.SOSInvitationResponse {
	resp := &dto.SOSInvitationResponse{
		ID:          inv.ID,
		SOSID:       inv.SOSID,
		DoctorID:    inv.DoctorID,
		Status:      string(inv.Status),
		DistanceKm:  inv.DistanceKm,
		SentAt:      inv.SentAt,
		RespondedAt: inv.RespondedAt,
	}
	if inv.SOS.ID != uuid.Nil {
		resp.SOS = SOSToResponse(&inv.SOS)
	}
	return resp
}

func SOSInvitationsToResponses(invitations []entity.SOSInvitation) []dto.SOSInvitationResponse {
	responses := make([]dto.SOSInvitationResponse, 0, len(invitations))
	for i := range invitations {
		responses = append(responses, *SOSInvitationToResponse(&invitations[i]))
	}
	return responses
}
