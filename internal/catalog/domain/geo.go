package domain

import "math"

const (
	// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
	EarthRadiusMeters = 6_371_000.0

	// NearbyRadiusMeters bounds the proximity search.
	NearbyRadiusMeters = 10_000.0
)

// ValidCoordinates checks that longitude is in [-180,180] and latitude in [-90,90].
func ValidCoordinates(lng, lat float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ValidPoint reports whether lng/lat are finite and in range.
func ValidPoint(lng, lat float64) bool {
	return finite(lng) && finite(lat) && ValidCoordinates(lng, lat)
}

// Haversine returns the great-circle distance in meters between two points
// given as longitude/latitude in degrees.
func Haversine(lng1, lat1, lng2, lat2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}
