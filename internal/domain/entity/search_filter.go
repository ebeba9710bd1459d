package entity

import "github.com/shopspring/decimal"

// DoctorSearchFilter is the domain-level filter for the geo-matching
// search. Used by usecase and repository layers to avoid coupling with
// delivery DTOs.
type DoctorSearchFilter struct {
	Specialty Specialty
	OriginLat *float64
	OriginLng *float64
	RadiusKm  *float64
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Mode      *AppointmentMode
}

// HasOrigin reports whether a distance can be computed for candidates.
func (f *DoctorSearchFilter) HasOrigin() bool {
	return f.OriginLat != nil && f.OriginLng != nil
}
