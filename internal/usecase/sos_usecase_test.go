package usecase

import (
	"context"
	"sync"
	"testing"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	"go-medical-dispatch/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSOSFixture(t *testing.T) (SOSUsecase, *fakeDoctorRepo, *fakePatientRepo, *fakeSOSRepo, *fakeInvitationRepo) {
	t.Helper()
	doctorRepo := newFakeDoctorRepo()
	patientRepo := newFakePatientRepo()
	sosRepo := newFakeSOSRepo()
	invitationRepo := newFakeInvitationRepo()
	triage := service.NewTriageService(nil, testLogger())
	uc := NewSOSUsecase(testDB(t), testLogger(), sosRepo, invitationRepo, doctorRepo, patientRepo, triage, 5, 50)
	return uc, doctorRepo, patientRepo, sosRepo, invitationRepo
}

func newCreateSOSRequest(description, specialty string, lat, lng float64) *dto.CreateSOSRequest {
	return &dto.CreateSOSRequest{
		Description: description,
		Specialty:   specialty,
		Latitude:    lat,
		Longitude:   lng,
	}
}

func addDoctorAt(repo *fakeDoctorRepo, specialty entity.Specialty, lat, lng float64) *entity.DoctorProfile {
	return repo.add(&entity.DoctorProfile{
		Specialties: []string{string(specialty)},
		IsActive:    true,
		CurrentLat:  &lat,
		CurrentLng:  &lng,
	})
}

func TestSOSCreateFansOutNearestFirst(t *testing.T) {
	uc, doctorRepo, patientRepo, _, invitationRepo := newSOSFixture(t)
	patient := patientRepo.add(&entity.PatientProfile{})

	near := addDoctorAt(doctorRepo, entity.SpecialtyCardiology, 12.9750, 77.5950)
	far := addDoctorAt(doctorRepo, entity.SpecialtyCardiology, 12.9950, 77.6100)
	addDoctorAt(doctorRepo, entity.SpecialtyCardiology, 13.9716, 77.5946) // ~111 km, outside radius
	addDoctorAt(doctorRepo, entity.SpecialtyDermatology, 12.9750, 77.5950)

	resp, err := uc.Create(context.Background(), patient.UserID, newCreateSOSRequest("severe chest pain", "CARDIOLOGY", 12.9716, 77.5946))
	require.NoError(t, err)
	assert.Equal(t, string(entity.SOSPending), resp.Status)
	assert.Equal(t, 2, resp.InvitedCount)

	invitationRepo.mu.Lock()
	defer invitationRepo.mu.Unlock()
	require.Len(t, invitationRepo.invitations, 2)
	assert.Equal(t, near.ID, invitationRepo.invitations[0].DoctorID)
	assert.Equal(t, far.ID, invitationRepo.invitations[1].DoctorID)
	assert.Less(t, *invitationRepo.invitations[0].DistanceKm, *invitationRepo.invitations[1].DistanceKm)
}

func TestSOSCreateClassifiesSpecialtyWhenAbsent(t *testing.T) {
	uc, _, patientRepo, sosRepo, _ := newSOSFixture(t)
	patient := patientRepo.add(&entity.PatientProfile{})

	resp, err := uc.Create(context.Background(), patient.UserID, newCreateSOSRequest("I think I need CARDIOLOGY urgently", "", 12.9716, 77.5946))
	require.NoError(t, err)
	assert.Equal(t, string(entity.SpecialtyCardiology), resp.Specialty)

	stored, err := sosRepo.FindByID(nil, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SpecialtyCardiology, stored.Specialty)
}

func TestSOSAcceptSingleWinner(t *testing.T) {
	uc, doctorRepo, patientRepo, sosRepo, _ := newSOSFixture(t)
	patient := patientRepo.add(&entity.PatientProfile{})
	sos := sosRepo.add(&entity.SOSRequest{
		PatientID: patient.ID,
		Specialty: entity.SpecialtyCardiology,
	})

	const racers = 8
	doctors := make([]*entity.DoctorProfile, racers)
	for i := range doctors {
		doctors[i] = addDoctorAt(doctorRepo, entity.SpecialtyCardiology, 12.97, 77.59)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners, losers int
	var winnerID uuid.UUID
	for _, doctor := range doctors {
		wg.Add(1)
		go func(d *entity.DoctorProfile) {
			defer wg.Done()
			resp, err := uc.Accept(context.Background(), d.UserID, sos.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
				winnerID = d.ID
				assert.Equal(t, string(entity.SOSAccepted), resp.Status)
			} else {
				losers++
				assert.ErrorIs(t, err, ErrSOSAlreadyAccepted)
			}
		}(doctor)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, racers-1, losers)

	stored, err := sosRepo.FindByID(nil, sos.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AcceptedByID)
	assert.Equal(t, winnerID, *stored.AcceptedByID)
}

func TestSOSAcceptReplayByWinner(t *testing.T) {
	uc, doctorRepo, patientRepo, sosRepo, _ := newSOSFixture(t)
	patient := patientRepo.add(&entity.PatientProfile{})
	sos := sosRepo.add(&entity.SOSRequest{PatientID: patient.ID, Specialty: entity.SpecialtyCardiology})
	doctor := addDoctorAt(doctorRepo, entity.SpecialtyCardiology, 12.97, 77.59)

	_, err := uc.Accept(context.Background(), doctor.UserID, sos.ID)
	require.NoError(t, err)

	replay, err := uc.Accept(context.Background(), doctor.UserID, sos.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SOSAccepted), replay.Status)
	assert.Equal(t, doctor.ID, *replay.AcceptedByID)
}

func TestSOSAcceptCancelled(t *testing.T) {
	uc, doctorRepo, patientRepo, sosRepo, _ := newSOSFixture(t)
	patient := patientRepo.add(&entity.PatientProfile{})
	sos := sosRepo.add(&entity.SOSRequest{
		PatientID: patient.ID,
		Specialty: entity.SpecialtyCardiology,
		Status:    entity.SOSCancelled,
	})
	doctor := addDoctorAt(doctorRepo, entity.SpecialtyCardiology, 12.97, 77.59)

	_, err := uc.Accept(context.Background(), doctor.UserID, sos.ID)
	assert.ErrorIs(t, err, ErrSOSNotPending)
}

func TestSOSAcceptUnknown(t *testing.T) {
	uc, doctorRepo, _, _, _ := newSOSFixture(t)
	doctor := addDoctorAt(doctorRepo, entity.SpecialtyCardiology, 12.97, 77.59)

	_, err := uc.Accept(context.Background(), doctor.UserID, uuid.New())
	assert.ErrorIs(t, err, ErrSOSNotFound)
}

func TestSOSAcceptMarksInvitation(t *testing.T) {
	uc, doctorRepo, patientRepo, _, invitationRepo := newSOSFixture(t)
	patient := patientRepo.add(&entity.PatientProfile{})
	doctor := addDoctorAt(doctorRepo, entity.SpecialtyCardiology, 12.9750, 77.5950)

	resp, err := uc.Create(context.Background(), patient.UserID, newCreateSOSRequest("chest pain", "CARDIOLOGY", 12.9716, 77.5946))
	require.NoError(t, err)
	require.Equal(t, 1, resp.InvitedCount)

	_, err = uc.Accept(context.Background(), doctor.UserID, resp.ID)
	require.NoError(t, err)

	invitationRepo.mu.Lock()
	defer invitationRepo.mu.Unlock()
	require.Len(t, invitationRepo.invitations, 1)
	assert.Equal(t, entity.InvitationAccepted, invitationRepo.invitations[0].Status)
	assert.NotNil(t, invitationRepo.invitations[0].RespondedAt)
}

func TestSOSCancelOnlyPending(t *testing.T) {
	uc, _, patientRepo, sosRepo, _ := newSOSFixture(t)
	patient := patientRepo.add(&entity.PatientProfile{})
	sos := sosRepo.add(&entity.SOSRequest{PatientID: patient.ID, Specialty: entity.SpecialtyCardiology})

	require.NoError(t, uc.Cancel(context.Background(), patient.UserID, sos.ID))

	err := uc.Cancel(context.Background(), patient.UserID, sos.ID)
	assert.ErrorIs(t, err, ErrSOSNotPending)
}

func TestSOSCancelNotOwner(t *testing.T) {
	uc, _, patientRepo, sosRepo, _ := newSOSFixture(t)
	owner := patientRepo.add(&entity.PatientProfile{})
	other := patientRepo.add(&entity.PatientProfile{})
	sos := sosRepo.add(&entity.SOSRequest{PatientID: owner.ID, Specialty: entity.SpecialtyCardiology})

	err := uc.Cancel(context.Background(), other.UserID, sos.ID)
	assert.ErrorIs(t, err, ErrSOSNotFound)
}
