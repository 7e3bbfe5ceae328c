package util

import "math"

const earthRadiusMeters = 6371000

// HaversineMeters returns the great-circle distance between two coordinates,
// rounded to whole meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) int {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(math.Round(earthRadiusMeters * c))
}

// VerifyLocation checks a reading against the venue coordinates.
// Returns whether the reading falls inside the acceptance radius and the
// measured distance in meters.
func VerifyLocation(lat, lng, venueLat, venueLng float64, radiusMeters int) (bool, int) {
	distance := HaversineMeters(lat, lng, venueLat, venueLng)
	return distance <= radiusMeters, distance
}
