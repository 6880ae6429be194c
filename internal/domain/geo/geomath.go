package geo

import "math"

// earthRadiusKM is the mean Earth radius used for great-circle math.
const earthRadiusKM = 6371.0

// DistanceKM returns the haversine great-circle distance between two
// coordinates in kilometers. Symmetric; DistanceKM(a, a) == 0.
func DistanceKM(a, b Coordinate) float64 {
	la1 := a.Latitude * math.Pi / 180
	la2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKM * c
}

// BearingDegrees returns the initial compass bearing from a to b, normalized
// to [0, 360). Degenerate input (a == b) yields 0 by convention. The result is
// not continuous under small perturbations near the poles; callers that need
// polar-grade navigation should not use this.
func BearingDegrees(a, b Coordinate) float64 {
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180
	la1 := a.Latitude * math.Pi / 180
	la2 := b.Latitude * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(la2)
	x := math.Cos(la1)*math.Sin(la2) - math.Sin(la1)*math.Cos(la2)*math.Cos(dLng)
	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// Offset shifts origin by distanceKM along bearingRad using an equirectangular
// approximation (1 degree ~ 111 km). Good enough at city scale; not geodesic.
func Offset(origin Coordinate, distanceKM, bearingRad float64) Coordinate {
	latOffset := (distanceKM / 111) * math.Cos(bearingRad)
	lngOffset := (distanceKM / (111 * math.Cos(origin.Latitude*math.Pi/180))) * math.Sin(bearingRad)
	return Coordinate{
		Latitude:  origin.Latitude + latOffset,
		Longitude: origin.Longitude + lngOffset,
	}
}
