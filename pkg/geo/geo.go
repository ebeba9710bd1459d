package geo

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Round2 rounds a distance to 2 decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
