package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name            string
		basePrice       string
		perKmRate       string
		distanceKm      string
		wantTransport   string
		wantSubtotal    string
		wantGST         string
		wantPlatformFee string
		wantTotal       string
	}{
		{
			name:      "reference case",
			basePrice: "500", perKmRate: "15", distanceKm: "4",
			wantTransport: "60", wantSubtotal: "560",
			wantGST: "100.80", wantPlatformFee: "112.00",
			wantTotal: "772.80",
		},
		{
			name:      "zero distance charges base only",
			basePrice: "300", perKmRate: "15", distanceKm: "0",
			wantTransport: "0", wantSubtotal: "300",
			wantGST: "54", wantPlatformFee: "60",
			wantTotal: "414.00",
		},
		{
			name:      "everything zero",
			basePrice: "0", perKmRate: "15", distanceKm: "0",
			wantTransport: "0", wantSubtotal: "0",
			wantGST: "0", wantPlatformFee: "0",
			wantTotal: "0.00",
		},
		{
			name:      "fractional distance does not round intermediates",
			basePrice: "199.99", perKmRate: "12.5", distanceKm: "3.33",
			wantTransport: "41.625", wantSubtotal: "241.615",
			wantGST: "43.4907", wantPlatformFee: "48.3230",
			// 241.615 * 1.38 = 333.4287 -> 333.43
			wantTotal: "333.43",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compute(d(tt.basePrice), d(tt.perKmRate), d(tt.distanceKm))

			assert.True(t, q.Transport.Equal(d(tt.wantTransport)), "transport = %s", q.Transport)
			assert.True(t, q.Subtotal.Equal(d(tt.wantSubtotal)), "subtotal = %s", q.Subtotal)
			assert.True(t, q.GST.Equal(d(tt.wantGST)), "gst = %s", q.GST)
			assert.True(t, q.PlatformFee.Equal(d(tt.wantPlatformFee)), "platformFee = %s", q.PlatformFee)
			assert.True(t, q.Total.Equal(d(tt.wantTotal)), "total = %s", q.Total)
		})
	}
}

// Rounding is applied once at the end. Re-rounding gst and platformFee
// independently would produce a different total for inputs like this one.
func TestComputeSingleFinalRounding(t *testing.T) {
	q := Compute(d("100.07"), d("15"), d("0.37"))

	// subtotal = 105.62, gst = 19.0116, fee = 21.124
	// exact total = 145.7556 -> 145.76
	assert.True(t, q.Total.Equal(d("145.76")), "total = %s", q.Total)

	rounded := q.Subtotal.Round(2).Add(q.GST.Round(2)).Add(q.PlatformFee.Round(2))
	assert.True(t, rounded.Equal(d("145.75")), "per-step rounding diverges: %s", rounded)
}
