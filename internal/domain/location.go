package domain

import "math"

// Immutable geographic point in decimal degrees.
type Location struct {
	Lat float64
	Lon float64
}

// Valid reports whether the location is usable for distance computation:
// both coordinates finite and within their degree ranges.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) {
		return false
	}
	if math.IsNaN(l.Lon) || math.IsInf(l.Lon, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}
