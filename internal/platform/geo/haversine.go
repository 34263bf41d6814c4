package geo

import (
	"math"

	"proximity-analysis-service/internal/domain"
)

// Mean Earth radius in kilometers.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two points in
// kilometers, rounded to 2 decimal places. It is pure and deterministic,
// which makes it a safe last resort when routing services are unavailable.
func Haversine(a, b domain.Location) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return RoundKm(earthRadiusKm * c)
}

// RoundKm rounds a distance to 2 decimal places.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
