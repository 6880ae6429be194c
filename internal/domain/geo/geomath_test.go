package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinateValidation(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr error
	}{
		{"valid delhi", 28.6139, 77.2090, nil},
		{"valid negative", -33.8688, 151.2093, nil},
		{"lat too high", 999, 0, ErrInvalidLatitude},
		{"lat too low", -90.0001, 0, ErrInvalidLatitude},
		{"lng too high", 0, 180.5, ErrInvalidLongitude},
		{"lng too low", 0, -181, ErrInvalidLongitude},
		{"boundary lat", 90, 0, nil},
		{"boundary lng", 0, -180, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoordinate(tt.lat, tt.lng)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDistanceKMSymmetry(t *testing.T) {
	a := Coordinate{Latitude: 28.6139, Longitude: 77.2090}  // Delhi
	b := Coordinate{Latitude: 19.0760, Longitude: 72.8777}  // Mumbai
	c := Coordinate{Latitude: -33.8688, Longitude: 151.2093} // Sydney

	assert.InDelta(t, DistanceKM(a, b), DistanceKM(b, a), 1e-9)
	assert.InDelta(t, DistanceKM(a, c), DistanceKM(c, a), 1e-9)
	assert.Zero(t, DistanceKM(a, a))
	assert.Zero(t, DistanceKM(c, c))
}

func TestDistanceKMKnownValues(t *testing.T) {
	delhi := Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	mumbai := Coordinate{Latitude: 19.0760, Longitude: 72.8777}

	// Delhi-Mumbai great-circle distance is roughly 1150 km.
	d := DistanceKM(delhi, mumbai)
	assert.InDelta(t, 1150, d, 20)

	// A driver ping a few hundred meters out.
	ping := Coordinate{Latitude: 19.08, Longitude: 72.88}
	short := DistanceKM(ping, mumbai)
	assert.Greater(t, short, 0.4)
	assert.Less(t, short, 0.8)
}

func TestDistanceKMNeverNegative(t *testing.T) {
	points := []Coordinate{
		{0, 0},
		{90, 0},
		{-90, 0},
		{45.0, -179.9},
		{45.0, 179.9},
	}
	for _, a := range points {
		for _, b := range points {
			assert.GreaterOrEqual(t, DistanceKM(a, b), 0.0)
		}
	}
}

func TestBearingDegrees(t *testing.T) {
	origin := Coordinate{Latitude: 28.6139, Longitude: 77.2090}

	north := Coordinate{Latitude: 29.6139, Longitude: 77.2090}
	east := Coordinate{Latitude: 28.6139, Longitude: 78.2090}
	south := Coordinate{Latitude: 27.6139, Longitude: 77.2090}
	west := Coordinate{Latitude: 28.6139, Longitude: 76.2090}

	assert.InDelta(t, 0, BearingDegrees(origin, north), 1)
	assert.InDelta(t, 90, BearingDegrees(origin, east), 2)
	assert.InDelta(t, 180, BearingDegrees(origin, south), 1)
	assert.InDelta(t, 270, BearingDegrees(origin, west), 2)

	// degenerate input: bearing to self is 0 by convention
	assert.Zero(t, BearingDegrees(origin, origin))
}

func TestBearingDegreesRange(t *testing.T) {
	points := []Coordinate{
		{28.6139, 77.2090},
		{19.0760, 72.8777},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
	}
	for _, a := range points {
		for _, b := range points {
			got := BearingDegrees(a, b)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, 360.0)
		}
	}
}

func TestOffsetRoundTripDistance(t *testing.T) {
	origin := Coordinate{Latitude: 28.6139, Longitude: 77.2090}

	for _, d := range []float64{0.5, 1.5, 3.0} {
		for _, bearing := range []float64{0, 0.7, 1.57, 3.0, 4.5, 6.0} {
			shifted := Offset(origin, d, bearing)
			require.NoError(t, shifted.Validate())

			// equirectangular is approximate; haversine back should agree within ~5%
			back := DistanceKM(origin, shifted)
			assert.InDelta(t, d, back, d*0.05)
		}
	}
}
