package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
)

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("  On_The_Way ")
	require.NoError(t, err)
	assert.Equal(t, StatusOnTheWay, got)

	_, err = ParseStatus("en_route")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPreparing, StatusOnTheWay, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusPreparing, StatusArriving, false},
		{StatusPreparing, StatusCompleted, false},
		{StatusOnTheWay, StatusArriving, true},
		{StatusOnTheWay, StatusCancelled, true},
		{StatusOnTheWay, StatusPreparing, false},
		{StatusOnTheWay, StatusCompleted, false},
		{StatusArriving, StatusCompleted, true},
		{StatusArriving, StatusCancelled, true},
		{StatusArriving, StatusOnTheWay, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPreparing, false},
		{StatusCancelled, StatusOnTheWay, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPreparing.Terminal())
	assert.False(t, StatusOnTheWay.Terminal())
	assert.False(t, StatusArriving.Terminal())
}

func TestOrderLifecycleHappyPath(t *testing.T) {
	loc := geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	ord, err := NewOrder("cust-1", KindFuel, loc, "123 Main Street", 513.6, Details{
		FuelType:       "petrol",
		QuantityLiters: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, ord.Status)

	require.NoError(t, ord.AssignDriver("driver-42"))
	assert.Equal(t, StatusPreparing, ord.Status)
	require.NotNil(t, ord.AcceptedAt)

	require.NoError(t, ord.MarkOnTheWay())
	require.NoError(t, ord.MarkArriving())
	require.NoError(t, ord.Complete())

	assert.Equal(t, StatusCompleted, ord.Status)
	require.NotNil(t, ord.CompletedAt)

	// terminal: no further transitions
	assert.ErrorIs(t, ord.Cancel("too late"), ErrInvalidStatusTransition)
	assert.ErrorIs(t, ord.MarkOnTheWay(), ErrInvalidStatusTransition)
}

func TestOrderCancelFromAnyNonTerminal(t *testing.T) {
	loc := geo.Coordinate{Latitude: 19.0760, Longitude: 72.8777}

	mk := func(t *testing.T) *Order {
		ord, err := NewOrder("cust-2", KindMechanic, loc, "roadside", 230, Details{MechanicService: "tire_change"})
		require.NoError(t, err)
		return ord
	}

	t.Run("from preparing", func(t *testing.T) {
		ord := mk(t)
		require.NoError(t, ord.Cancel("changed my mind"))
		assert.Equal(t, StatusCancelled, ord.Status)
		require.NotNil(t, ord.CancellationReason)
		assert.Equal(t, "changed my mind", *ord.CancellationReason)
	})

	t.Run("from on_the_way", func(t *testing.T) {
		ord := mk(t)
		require.NoError(t, ord.MarkOnTheWay())
		require.NoError(t, ord.Cancel(""))
		assert.Equal(t, StatusCancelled, ord.Status)
		assert.Nil(t, ord.CancellationReason)
	})

	t.Run("from arriving", func(t *testing.T) {
		ord := mk(t)
		require.NoError(t, ord.MarkOnTheWay())
		require.NoError(t, ord.MarkArriving())
		require.NoError(t, ord.Cancel("driver stuck"))
		assert.Equal(t, StatusCancelled, ord.Status)
	})
}

func TestOrderValidation(t *testing.T) {
	valid := geo.Coordinate{Latitude: 19.0760, Longitude: 72.8777}

	_, err := NewOrder("", KindFuel, valid, "addr", 100, Details{})
	assert.ErrorIs(t, err, ErrCustomerRequired)

	_, err = NewOrder("cust", Kind("scooter"), valid, "addr", 100, Details{})
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = NewOrder("cust", KindFuel, geo.Coordinate{Latitude: 999}, "addr", 100, Details{})
	assert.ErrorIs(t, err, geo.ErrInvalidLatitude)

	_, err = NewOrder("cust", KindFuel, valid, "addr", -1, Details{})
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestAssignDriverGuards(t *testing.T) {
	loc := geo.Coordinate{Latitude: 19.0760, Longitude: 72.8777}
	ord, err := NewOrder("cust-3", KindFuel, loc, "addr", 100, Details{})
	require.NoError(t, err)

	assert.ErrorIs(t, ord.AssignDriver("  "), ErrDriverRequired)
	require.NoError(t, ord.AssignDriver("driver-1"))
	assert.ErrorIs(t, ord.AssignDriver("driver-2"), ErrAlreadyAssigned)
}
