package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-medical-dispatch/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignmentFixture(t *testing.T) (AssignmentUsecase, *fakeDoctorRepo, *fakeAppointmentRepo, *fakeAssignmentRepo) {
	t.Helper()
	doctorRepo := newFakeDoctorRepo()
	appointmentRepo := newFakeAppointmentRepo()
	assignmentRepo := newFakeAssignmentRepo()
	uc := NewAssignmentUsecase(testDB(t), testLogger(), assignmentRepo, appointmentRepo, doctorRepo)
	return uc, doctorRepo, appointmentRepo, assignmentRepo
}

func addDoctor(repo *fakeDoctorRepo, specialties ...string) *entity.DoctorProfile {
	if len(specialties) == 0 {
		specialties = []string{string(entity.SpecialtyGeneralPhysician)}
	}
	return repo.add(&entity.DoctorProfile{
		Specialties: specialties,
		IsActive:    true,
	})
}

func TestAcceptAssignsQueuePositions(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{
		PatientID: uuid.New(),
		Specialty: entity.SpecialtyGeneralPhysician,
		Mode:      entity.ModeOnline,
	})

	first := addDoctor(doctorRepo)
	second := addDoctor(doctorRepo)

	resp, err := uc.Accept(context.Background(), first.UserID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QueuePosition)
	assert.Equal(t, string(entity.AssignmentAccepted), resp.Status)

	resp, err = uc.Accept(context.Background(), second.UserID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QueuePosition)
}

func TestAcceptRejectsThirdDoctor(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})

	for i := 0; i < entity.MaxAcceptedAssignments; i++ {
		doctor := addDoctor(doctorRepo)
		_, err := uc.Accept(context.Background(), doctor.UserID, appointment.ID)
		require.NoError(t, err)
	}

	third := addDoctor(doctorRepo)
	_, err := uc.Accept(context.Background(), third.UserID, appointment.ID)
	assert.ErrorIs(t, err, ErrAssignmentCapacityFull)
}

func TestAcceptConcurrentRace(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})

	const racers = 3
	doctors := make([]*entity.DoctorProfile, racers)
	for i := range doctors {
		doctors[i] = addDoctor(doctorRepo)
	}

	var wg sync.WaitGroup
	positions := make(chan int, racers)
	failures := make(chan error, racers)
	for _, doctor := range doctors {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			resp, err := uc.Accept(context.Background(), userID, appointment.ID)
			if err != nil {
				failures <- err
				return
			}
			positions <- resp.QueuePosition
		}(doctor.UserID)
	}
	wg.Wait()
	close(positions)
	close(failures)

	got := map[int]bool{}
	for p := range positions {
		assert.False(t, got[p], "queue position %d assigned twice", p)
		got[p] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, got)

	var capacityErrs int
	for err := range failures {
		assert.ErrorIs(t, err, ErrAssignmentCapacityFull)
		capacityErrs++
	}
	assert.Equal(t, 1, capacityErrs)
}

func TestAcceptIsIdempotentPerDoctor(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})
	doctor := addDoctor(doctorRepo)

	first, err := uc.Accept(context.Background(), doctor.UserID, appointment.ID)
	require.NoError(t, err)

	replay, err := uc.Accept(context.Background(), doctor.UserID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)
	assert.Equal(t, first.QueuePosition, replay.QueuePosition)
}

func TestAcceptUnknownAppointment(t *testing.T) {
	uc, doctorRepo, _, _ := newAssignmentFixture(t)
	doctor := addDoctor(doctorRepo)

	_, err := uc.Accept(context.Background(), doctor.UserID, uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAcceptTerminalAppointment(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{
		PatientID: uuid.New(),
		Status:    entity.AppointmentCancelled,
	})
	doctor := addDoctor(doctorRepo)

	_, err := uc.Accept(context.Background(), doctor.UserID, appointment.ID)
	assert.ErrorIs(t, err, ErrAppointmentTerminal)
}

func TestCancelAssignmentKeepsPosition(t *testing.T) {
	uc, doctorRepo, appointmentRepo, assignmentRepo := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})
	first := addDoctor(doctorRepo)
	second := addDoctor(doctorRepo)

	_, err := uc.Accept(context.Background(), first.UserID, appointment.ID)
	require.NoError(t, err)
	require.NoError(t, uc.Cancel(context.Background(), first.UserID, appointment.ID))

	// The freed slot opens capacity but the position is never reused.
	resp, err := uc.Accept(context.Background(), second.UserID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QueuePosition)

	count, err := assignmentRepo.CountAccepted(nil, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCancelAssignmentTwiceConflicts(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})
	doctor := addDoctor(doctorRepo)

	_, err := uc.Accept(context.Background(), doctor.UserID, appointment.ID)
	require.NoError(t, err)
	require.NoError(t, uc.Cancel(context.Background(), doctor.UserID, appointment.ID))

	err = uc.Cancel(context.Background(), doctor.UserID, appointment.ID)
	assert.ErrorIs(t, err, ErrAssignmentNotAccepted)
}

func TestCancelAssignmentWithoutRow(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})
	doctor := addDoctor(doctorRepo)

	err := uc.Cancel(context.Background(), doctor.UserID, appointment.ID)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestUpdateStatusRequiresAcceptedAssignment(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})
	doctor := addDoctor(doctorRepo)

	err := uc.UpdateAppointmentStatus(context.Background(), doctor.UserID, appointment.ID, "CONFIRMED")
	assert.ErrorIs(t, err, ErrAssignmentNotAccepted)
}

func TestUpdateStatusAllowList(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})
	doctor := addDoctor(doctorRepo)
	_, err := uc.Accept(context.Background(), doctor.UserID, appointment.ID)
	require.NoError(t, err)

	err = uc.UpdateAppointmentStatus(context.Background(), doctor.UserID, appointment.ID, "PENDING")
	assert.ErrorIs(t, err, ErrInvalidAppointmentStatus)

	err = uc.UpdateAppointmentStatus(context.Background(), doctor.UserID, appointment.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidAppointmentStatus)

	require.NoError(t, uc.UpdateAppointmentStatus(context.Background(), doctor.UserID, appointment.ID, "CONFIRMED"))
	require.NoError(t, uc.UpdateAppointmentStatus(context.Background(), doctor.UserID, appointment.ID, "COMPLETED"))

	// Terminal afterwards.
	err = uc.UpdateAppointmentStatus(context.Background(), doctor.UserID, appointment.ID, "IN_PROGRESS")
	assert.ErrorIs(t, err, ErrAppointmentTerminal)
}

func TestListOpenAppointmentsFiltersSpecialtyAndRadius(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)

	lat, lng := 12.9716, 77.5946
	doctor := doctorRepo.add(&entity.DoctorProfile{
		Specialties: []string{string(entity.SpecialtyCardiology)},
		IsActive:    true,
		CurrentLat:  &lat,
		CurrentLng:  &lng,
	})

	nearLat, nearLng := 12.98, 77.60
	farLat, farLng := 13.9716, 77.5946 // about 111 km north
	appointmentRepo.add(&entity.Appointment{
		PatientID:  uuid.New(),
		Specialty:  entity.SpecialtyCardiology,
		Mode:       entity.ModeOffline,
		AddressLat: &nearLat,
		AddressLng: &nearLng,
	})
	appointmentRepo.add(&entity.Appointment{
		PatientID:  uuid.New(),
		Specialty:  entity.SpecialtyCardiology,
		Mode:       entity.ModeOffline,
		AddressLat: &farLat,
		AddressLng: &farLng,
	})
	appointmentRepo.add(&entity.Appointment{
		PatientID: uuid.New(),
		Specialty: entity.SpecialtyDermatology,
		Mode:      entity.ModeOnline,
	})

	radius := 5.0
	resp, err := uc.ListOpenAppointments(context.Background(), doctor.UserID, &radius)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, string(entity.SpecialtyCardiology), resp.Appointments[0].Specialty)
	assert.InDelta(t, nearLat, *resp.Appointments[0].AddressLat, 1e-9)
}

func TestListOpenAppointmentsRadiusNeedsBothLocations(t *testing.T) {
	uc, doctorRepo, appointmentRepo, _ := newAssignmentFixture(t)

	lat, lng := 12.9716, 77.5946
	located := doctorRepo.add(&entity.DoctorProfile{
		Specialties: []string{string(entity.SpecialtyCardiology)},
		IsActive:    true,
		CurrentLat:  &lat,
		CurrentLng:  &lng,
	})
	locationless := doctorRepo.add(&entity.DoctorProfile{
		Specialties: []string{string(entity.SpecialtyCardiology)},
		IsActive:    true,
	})

	// ONLINE appointment carries no address.
	appointmentRepo.add(&entity.Appointment{
		PatientID: uuid.New(),
		Specialty: entity.SpecialtyCardiology,
		Mode:      entity.ModeOnline,
	})

	radius := 5.0
	resp, err := uc.ListOpenAppointments(context.Background(), located.UserID, &radius)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)

	resp, err = uc.ListOpenAppointments(context.Background(), locationless.UserID, &radius)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)

	// Without a radius the same appointment is listed for both.
	resp, err = uc.ListOpenAppointments(context.Background(), locationless.UserID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestAcceptMissingDoctorProfile(t *testing.T) {
	uc, _, appointmentRepo, _ := newAssignmentFixture(t)
	appointment := appointmentRepo.add(&entity.Appointment{PatientID: uuid.New()})

	_, err := uc.Accept(context.Background(), uuid.New(), appointment.ID)
	assert.True(t, errors.Is(err, ErrDoctorProfileNotFound))
}
