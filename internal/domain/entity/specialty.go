package entity

import "strings"

// Specialty is the closed vocabulary the dispatch core operates on. Every
// classifier answer, doctor declaration, and appointment is validated
// against it; unknown values never reach storage.
type Specialty string

const (
	SpecialtyGeneralPhysician  Specialty = "GENERAL_PHYSICIAN"
	SpecialtyCardiology        Specialty = "CARDIOLOGY"
	SpecialtyGynecology        Specialty = "GYNECOLOGY"
	SpecialtyPediatrics        Specialty = "PEDIATRICS"
	SpecialtyOrthopedics       Specialty = "ORTHOPEDICS"
	SpecialtyDermatology       Specialty = "DERMATOLOGY"
	SpecialtyNeurology         Specialty = "NEUROLOGY"
	SpecialtyPsychiatry        Specialty = "PSYCHIATRY"
	SpecialtyPulmonology       Specialty = "PULMONOLOGY"
	SpecialtyGastroenterology  Specialty = "GASTROENTEROLOGY"
	SpecialtyNephrology        Specialty = "NEPHROLOGY"
	SpecialtyEndocrinology     Specialty = "ENDOCRINOLOGY"
	SpecialtyENT               Specialty = "ENT"
	SpecialtyOphthalmology     Specialty = "OPHTHALMOLOGY"
	SpecialtyDentistry         Specialty = "DENTISTRY"
	SpecialtyEmergencyMedicine Specialty = "EMERGENCY_MEDICINE"
	SpecialtyUrology           Specialty = "UROLOGY"
	SpecialtyOncology          Specialty = "ONCOLOGY"
	SpecialtyRadiology         Specialty = "RADIOLOGY"
	SpecialtyAnesthesiology    Specialty = "ANESTHESIOLOGY"
	SpecialtyRheumatology      Specialty = "RHEUMATOLOGY"
	SpecialtyPhysiotherapy     Specialty = "PHYSIOTHERAPY"
	SpecialtyPathology         Specialty = "PATHOLOGY"
)

// AllSpecialties is the vocabulary in canonical order. The order matters:
// the heuristic fallback scans it front to back, so GENERAL_PHYSICIAN wins
// ties for generic descriptions.
var AllSpecialties = []Specialty{
	SpecialtyGeneralPhysician,
	SpecialtyCardiology,
	SpecialtyGynecology,
	SpecialtyPediatrics,
	SpecialtyOrthopedics,
	SpecialtyDermatology,
	SpecialtyNeurology,
	SpecialtyPsychiatry,
	SpecialtyPulmonology,
	SpecialtyGastroenterology,
	SpecialtyNephrology,
	SpecialtyEndocrinology,
	SpecialtyENT,
	SpecialtyOphthalmology,
	SpecialtyDentistry,
	SpecialtyEmergencyMedicine,
	SpecialtyUrology,
	SpecialtyOncology,
	SpecialtyRadiology,
	SpecialtyAnesthesiology,
	SpecialtyRheumatology,
	SpecialtyPhysiotherapy,
	SpecialtyPathology,
}

// Valid reports whether s is a vocabulary member.
func (s Specialty) Valid() bool {
	for _, known := range AllSpecialties {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSpecialty normalizes raw input (case, surrounding space) to a
// vocabulary member.
func ParseSpecialty(raw string) (Specialty, bool) {
	candidate := Specialty(strings.ToUpper(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, true
	}
	return "", false
}

// MatchSpecialty scans free text for the first vocabulary member it
// mentions, in canonical order. Used by the triage fallback on both the
// patient's description and a failed classifier's raw output.
func MatchSpecialty(text string) (Specialty, bool) {
	upper := strings.ToUpper(text)
	for _, s := range AllSpecialties {
		if strings.Contains(upper, string(s)) {
			return s, true
		}
	}
	return "", false
}
