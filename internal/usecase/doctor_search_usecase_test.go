package usecase

import (
	"context"
	"testing"

	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchFixture(t *testing.T) (DoctorSearchUsecase, *fakeDoctorRepo, *fakePatientRepo) {
	t.Helper()
	doctorRepo := newFakeDoctorRepo()
	patientRepo := newFakePatientRepo()
	uc := NewDoctorSearchUsecase(testDB(t), testLogger(), doctorRepo, patientRepo, 5)
	return uc, doctorRepo, patientRepo
}

func addSearchDoctor(repo *fakeDoctorRepo, name string, years int, lat, lng *float64, services ...entity.DoctorService) *entity.DoctorProfile {
	d := &entity.DoctorProfile{
		YearsOfExperience: years,
		IsActive:          true,
		CurrentLat:        lat,
		CurrentLng:        lng,
		Services:          services,
		User:              entity.User{Name: name},
	}
	specialties := make([]string, 0, len(services))
	for _, s := range services {
		specialties = append(specialties, string(s.Specialty))
	}
	if len(specialties) == 0 {
		specialties = []string{string(entity.SpecialtyCardiology)}
	}
	d.Specialties = specialties
	return repo.add(d)
}

func cardioService(price int64) entity.DoctorService {
	return entity.DoctorService{
		Specialty:            entity.SpecialtyCardiology,
		BasePrice:            decimal.NewFromInt(price),
		PerKmRate:            decimal.NewFromInt(15),
		IsOnlineAvailable:    true,
		IsHomeVisitAvailable: true,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestSearchRanksByDistanceThenExperience(t *testing.T) {
	uc, doctorRepo, _ := newSearchFixture(t)

	addSearchDoctor(doctorRepo, "Far", 20, floatPtr(12.9850), floatPtr(77.6050), cardioService(500))
	addSearchDoctor(doctorRepo, "Near", 5, floatPtr(12.9720), floatPtr(77.5950), cardioService(500))
	addSearchDoctor(doctorRepo, "Unknown", 30, nil, nil, cardioService(500))

	resp, err := uc.SearchPublic(context.Background(), &dto.SearchDoctorsRequest{
		Specialty: "CARDIOLOGY",
		Lat:       floatPtr(12.9716),
		Lng:       floatPtr(77.5946),
	})
	require.NoError(t, err)
	// Locationless doctors are skipped when an origin is present.
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Near", resp.Results[0].Name)
	assert.Equal(t, "Far", resp.Results[1].Name)
	require.NotNil(t, resp.Results[0].DistanceKm)
	assert.Less(t, *resp.Results[0].DistanceKm, *resp.Results[1].DistanceKm)
}

func TestSearchExcludesDoctorsOutsideRadius(t *testing.T) {
	uc, doctorRepo, _ := newSearchFixture(t)

	addSearchDoctor(doctorRepo, "Inside", 5, floatPtr(12.9720), floatPtr(77.5950), cardioService(500))
	// One degree of latitude is roughly 111 km, far outside the 5 km default.
	addSearchDoctor(doctorRepo, "Outside", 5, floatPtr(13.9716), floatPtr(77.5946), cardioService(500))

	resp, err := uc.SearchPublic(context.Background(), &dto.SearchDoctorsRequest{
		Specialty: "CARDIOLOGY",
		Lat:       floatPtr(12.9716),
		Lng:       floatPtr(77.5946),
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Inside", resp.Results[0].Name)
}

func TestSearchCustomRadiusWidens(t *testing.T) {
	uc, doctorRepo, _ := newSearchFixture(t)

	addSearchDoctor(doctorRepo, "Outside", 5, floatPtr(13.9716), floatPtr(77.5946), cardioService(500))

	resp, err := uc.SearchPublic(context.Background(), &dto.SearchDoctorsRequest{
		Specialty: "CARDIOLOGY",
		Lat:       floatPtr(12.9716),
		Lng:       floatPtr(77.5946),
		RadiusKm:  floatPtr(150),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestSearchPriceBand(t *testing.T) {
	uc, doctorRepo, _ := newSearchFixture(t)

	addSearchDoctor(doctorRepo, "Cheap", 5, floatPtr(12.9720), floatPtr(77.5950), cardioService(300))
	addSearchDoctor(doctorRepo, "Mid", 5, floatPtr(12.9720), floatPtr(77.5950), cardioService(600))
	addSearchDoctor(doctorRepo, "Expensive", 5, floatPtr(12.9720), floatPtr(77.5950), cardioService(1200))

	minPrice := decimal.NewFromInt(400)
	maxPrice := decimal.NewFromInt(1000)
	resp, err := uc.SearchPublic(context.Background(), &dto.SearchDoctorsRequest{
		Specialty: "CARDIOLOGY",
		Lat:       floatPtr(12.9716),
		Lng:       floatPtr(77.5946),
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Mid", resp.Results[0].Name)
}

func TestSearchModeFilter(t *testing.T) {
	uc, doctorRepo, _ := newSearchFixture(t)

	onlineOnly := cardioService(500)
	onlineOnly.IsHomeVisitAvailable = false
	addSearchDoctor(doctorRepo, "OnlineOnly", 5, floatPtr(12.9720), floatPtr(77.5950), onlineOnly)
	addSearchDoctor(doctorRepo, "Both", 5, floatPtr(12.9720), floatPtr(77.5950), cardioService(500))

	mode := string(entity.ModeOffline)
	resp, err := uc.SearchPublic(context.Background(), &dto.SearchDoctorsRequest{
		Specialty: "CARDIOLOGY",
		Lat:       floatPtr(12.9716),
		Lng:       floatPtr(77.5946),
		Mode:      &mode,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Both", resp.Results[0].Name)
}

func TestSearchPublicRequiresOrigin(t *testing.T) {
	uc, _, _ := newSearchFixture(t)

	_, err := uc.SearchPublic(context.Background(), &dto.SearchDoctorsRequest{Specialty: "CARDIOLOGY"})
	assert.ErrorIs(t, err, ErrOriginRequired)
}

func TestSearchFallsBackToPatientAddress(t *testing.T) {
	uc, doctorRepo, patientRepo := newSearchFixture(t)

	patient := patientRepo.add(&entity.PatientProfile{
		AddressLat: floatPtr(12.9716),
		AddressLng: floatPtr(77.5946),
	})
	addSearchDoctor(doctorRepo, "Near", 5, floatPtr(12.9720), floatPtr(77.5950), cardioService(500))
	addSearchDoctor(doctorRepo, "Outside", 5, floatPtr(13.9716), floatPtr(77.5946), cardioService(500))

	resp, err := uc.Search(context.Background(), patient.UserID, &dto.SearchDoctorsRequest{Specialty: "CARDIOLOGY"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Near", resp.Results[0].Name)
	require.NotNil(t, resp.OriginLat)
	assert.Equal(t, 12.9716, *resp.OriginLat)
}

func TestSearchWithoutAnyOriginListsUnranked(t *testing.T) {
	uc, doctorRepo, patientRepo := newSearchFixture(t)

	// Patient has no saved address, so no origin exists anywhere.
	patient := patientRepo.add(&entity.PatientProfile{})
	addSearchDoctor(doctorRepo, "Junior", 3, floatPtr(12.9720), floatPtr(77.5950), cardioService(500))
	addSearchDoctor(doctorRepo, "Senior", 15, nil, nil, cardioService(500))

	resp, err := uc.Search(context.Background(), patient.UserID, &dto.SearchDoctorsRequest{Specialty: "CARDIOLOGY"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Senior", resp.Results[0].Name)
	assert.Nil(t, resp.Results[0].DistanceKm)
}

func TestSearchUnknownSpecialty(t *testing.T) {
	uc, _, _ := newSearchFixture(t)

	_, err := uc.SearchPublic(context.Background(), &dto.SearchDoctorsRequest{
		Specialty: "WIZARDRY",
		Lat:       floatPtr(12.9716),
		Lng:       floatPtr(77.5946),
	})
	assert.ErrorIs(t, err, ErrInvalidSpecialty)
}

func TestSearchMissingPatientProfile(t *testing.T) {
	uc, _, _ := newSearchFixture(t)

	_, err := uc.Search(context.Background(), uuid.New(), &dto.SearchDoctorsRequest{Specialty: "CARDIOLOGY"})
	assert.ErrorIs(t, err, ErrPatientProfileNotFound)
}
