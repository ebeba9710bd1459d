package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpecialty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Specialty
		ok    bool
	}{
		{"exact", "CARDIOLOGY", SpecialtyCardiology, true},
		{"lowercase", "cardiology", SpecialtyCardiology, true},
		{"surrounding space", "  neurology ", SpecialtyNeurology, true},
		{"unknown", "WIZARDRY", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSpecialty(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchSpecialty(t *testing.T) {
	got, ok := MatchSpecialty("model said: definitely CARDIOLOGY, not sure though")
	assert.True(t, ok)
	assert.Equal(t, SpecialtyCardiology, got)

	// Canonical order wins when several members appear.
	got, ok = MatchSpecialty("GENERAL_PHYSICIAN or maybe CARDIOLOGY")
	assert.True(t, ok)
	assert.Equal(t, SpecialtyGeneralPhysician, got)

	_, ok = MatchSpecialty("nothing recognizable here")
	assert.False(t, ok)
}

func TestSpecialtyValid(t *testing.T) {
	assert.True(t, SpecialtyPathology.Valid())
	assert.Equal(t, 23, len(AllSpecialties))
	assert.False(t, Specialty("CARDIOLOGY ").Valid())
}

func TestDoctorSettableStatuses(t *testing.T) {
	assert.NotContains(t, DoctorSettableStatuses, AppointmentPending)
	assert.Contains(t, DoctorSettableStatuses, AppointmentCompleted)
}
