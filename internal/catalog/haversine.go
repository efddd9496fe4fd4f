package catalog

import "math"

// earthRadiusKm is the mean radius of the Earth.
const earthRadiusKm = 6371

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b Location) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// DistanceBetween computes the haversine distance when both endpoints are
// known. A nil result means the distance is unknown, which callers must
// preserve rather than substituting zero.
func DistanceBetween(a, b *Location) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := Haversine(*a, *b)
	return &d
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
