package tracking

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
)

func TestSynthesizeStartDistanceBand(t *testing.T) {
	customer := geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		start := synthesizeStart(rng, customer)
		require.NoError(t, start.Validate())

		// the offset is equirectangular, the measurement haversine; allow a
		// small band around the 1.5-3.0 km request
		distance := geo.DistanceKM(start, customer)
		assert.GreaterOrEqual(t, distance, 1.4, "seed %d", seed)
		assert.LessOrEqual(t, distance, 3.1, "seed %d", seed)
	}
}

func TestSynthesizeStartDeterministic(t *testing.T) {
	customer := geo.Coordinate{Latitude: 19.0760, Longitude: 72.8777}
	a := synthesizeStart(rand.New(rand.NewSource(42)), customer)
	b := synthesizeStart(rand.New(rand.NewSource(42)), customer)
	assert.Equal(t, a, b)
}

func TestSynthesizeWaypoints(t *testing.T) {
	customer := geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		start := synthesizeStart(rng, customer)
		waypoints := synthesizeWaypoints(rng, start, customer)

		require.GreaterOrEqual(t, len(waypoints), 2, "seed %d", seed)
		require.LessOrEqual(t, len(waypoints), 4, "seed %d", seed)

		for i, wp := range waypoints {
			require.NoError(t, wp.Validate(), "seed %d waypoint %d", seed, i)

			// each waypoint hugs the straight segment: jitter is at most
			// 0.001 degrees in each axis
			p := float64(i+1) / float64(len(waypoints)+1)
			assert.InDelta(t, lerp(start.Latitude, customer.Latitude, p), wp.Latitude, 0.0011)
			assert.InDelta(t, lerp(start.Longitude, customer.Longitude, p), wp.Longitude, 0.0011)
		}
	}
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 5.0, lerp(5, 9, 0))
	assert.Equal(t, 9.0, lerp(5, 9, 1))
	assert.Equal(t, 7.0, lerp(5, 9, 0.5))
}
