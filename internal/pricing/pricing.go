// Package pricing computes the deterministic fee applied when an
// appointment closes. It is pure: the caller resolves inputs from the
// doctor's service row and persists the resulting total.
package pricing

import "github.com/shopspring/decimal"

var (
	gstRate         = decimal.NewFromFloat(0.18)
	platformFeeRate = decimal.NewFromFloat(0.20)

	// DefaultPerKmRate applies when the doctor has no service row for the
	// appointment's specialty.
	DefaultPerKmRate = decimal.NewFromInt(15)
)

// Quote is the fee breakdown for one appointment close. Only Total is
// rounded; the intermediate components keep full precision so the caller
// never accumulates cent-level drift by re-rounding.
type Quote struct {
	BasePrice   decimal.Decimal `json:"base_price"`
	PerKmRate   decimal.Decimal `json:"per_km_rate"`
	DistanceKm  decimal.Decimal `json:"distance_km"`
	Transport   decimal.Decimal `json:"transport"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	GST         decimal.Decimal `json:"gst"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Compute derives the full quote:
//
//	transport   = perKmRate * distanceKm
//	subtotal    = basePrice + transport
//	gst         = subtotal * 0.18
//	platformFee = subtotal * 0.20
//	total       = round2(subtotal + gst + platformFee)
//
// Rounding happens once, on the final total.
func Compute(basePrice, perKmRate, distanceKm decimal.Decimal) Quote {
	transport := perKmRate.Mul(distanceKm)
	subtotal := basePrice.Add(transport)
	gst := subtotal.Mul(gstRate)
	platformFee := subtotal.Mul(platformFeeRate)
	total := subtotal.Add(gst).Add(platformFee).Round(2)

	return Quote{
		BasePrice:   basePrice,
		PerKmRate:   perKmRate,
		DistanceKm:  distanceKm,
		Transport:   transport,
		Subtotal:    subtotal,
		GST:         gst,
		PlatformFee: platformFee,
		Total:       total,
	}
}
