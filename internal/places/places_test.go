package places

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
)

var connaughtPlace = geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("gas_station")
	require.NoError(t, err)
	assert.Equal(t, KindFuel, kind)

	kind, err = ParseKind(" Mechanic ")
	require.NoError(t, err)
	assert.Equal(t, KindMechanic, kind)

	_, err = ParseKind("restaurant")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFindNearbySortsByDistance(t *testing.T) {
	finder := NewCatalogFinder()

	results, err := finder.FindNearby(context.Background(), KindFuel, connaughtPlace, 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "fuel-1", results[0].ID)
	assert.Zero(t, results[0].DistanceKM)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].DistanceKM, results[i-1].DistanceKM)
	}
}

func TestFindNearbyRadiusFilter(t *testing.T) {
	finder := NewCatalogFinder()

	// The whole catalog sits within a few hundred metres of Connaught Place,
	// so a 5 km radius keeps everything and a 1-metre radius keeps only the
	// co-located entry.
	all, err := finder.FindNearby(context.Background(), KindFuel, connaughtPlace, 5)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	tight, err := finder.FindNearby(context.Background(), KindFuel, connaughtPlace, 0.001)
	require.NoError(t, err)
	require.Len(t, tight, 1)
	assert.Equal(t, "fuel-1", tight[0].ID)
}

func TestFindNearbyFarAwayIsEmpty(t *testing.T) {
	finder := NewCatalogFinder()

	mumbai := geo.Coordinate{Latitude: 19.0760, Longitude: 72.8777}
	results, err := finder.FindNearby(context.Background(), KindMechanic, mumbai, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindNearbyRejectsBadInput(t *testing.T) {
	finder := NewCatalogFinder()

	_, err := finder.FindNearby(context.Background(), KindFuel, geo.Coordinate{Latitude: 999}, 5)
	assert.ErrorIs(t, err, geo.ErrInvalidLatitude)

	_, err = finder.FindNearby(context.Background(), Kind("restaurant"), connaughtPlace, 5)
	assert.ErrorIs(t, err, ErrUnknownKind)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = finder.FindNearby(ctx, KindFuel, connaughtPlace, 5)
	assert.ErrorIs(t, err, context.Canceled)
}
