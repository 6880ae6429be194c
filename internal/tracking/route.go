package tracking

import (
	"math"
	"math/rand"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
)

// synthesizeStart picks a synthetic departure point 1.5-3.0 km from the
// customer at a uniformly random bearing, using the equirectangular offset.
func synthesizeStart(rng *rand.Rand, customer geo.Coordinate) geo.Coordinate {
	bearing := rng.Float64() * 2 * math.Pi
	distanceKM := 1.5 + rng.Float64()*1.5
	return geo.Offset(customer, distanceKM, bearing)
}

// synthesizeWaypoints generates 2-4 intermediate waypoints by linear
// interpolation between start and customer, each nudged by a small random
// jitter for visual plausibility. Waypoints are display-only; the movement
// simulation interpolates the straight line.
func synthesizeWaypoints(rng *rand.Rand, start, customer geo.Coordinate) []geo.Coordinate {
	count := rng.Intn(3) + 2
	waypoints := make([]geo.Coordinate, 0, count)

	for i := 0; i < count; i++ {
		progress := float64(i+1) / float64(count+1)
		jitter := 0.002 * (rng.Float64() - 0.5)
		waypoints = append(waypoints, geo.Coordinate{
			Latitude:  lerp(start.Latitude, customer.Latitude, progress) + jitter,
			Longitude: lerp(start.Longitude, customer.Longitude, progress) + jitter,
		})
	}
	return waypoints
}

// lerp interpolates linearly between a and b. Applied independently to
// latitude and longitude; deliberately not geodesic.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
