package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuelTotal(t *testing.T) {
	total, err := FuelTotal("petrol", 10)
	require.NoError(t, err)
	assert.Equal(t, 967.2, total)

	total, err = FuelTotal("Diesel", 5.5)
	require.NoError(t, err)
	assert.Equal(t, 492.91, total)

	total, err = FuelTotal("premium", 1)
	require.NoError(t, err)
	assert.Equal(t, 102.50, total)
}

func TestFuelTotalRejectsBadInput(t *testing.T) {
	_, err := FuelTotal("kerosene", 10)
	assert.ErrorIs(t, err, ErrUnknownFuelType)

	_, err = FuelTotal("petrol", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = FuelTotal("petrol", -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestMechanicCharge(t *testing.T) {
	cases := map[string]float64{
		"tire_change":   200,
		"battery_jump":  150,
		"engine_repair": 500,
		"towing":        800,
		"other":         300,
	}
	for service, want := range cases {
		got, err := MechanicCharge(service)
		require.NoError(t, err, service)
		assert.Equal(t, want, got, service)
	}

	_, err := MechanicCharge("oil_change")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestDeliveryChargeBands(t *testing.T) {
	assert.Equal(t, 30.0, DeliveryCharge(0))
	assert.Equal(t, 30.0, DeliveryCharge(5))
	assert.Equal(t, 40.0, DeliveryCharge(5.01))
	assert.Equal(t, 40.0, DeliveryCharge(10))
	assert.Equal(t, 50.0, DeliveryCharge(10.5))
	assert.Equal(t, 50.0, DeliveryCharge(200))
}

func TestSimulatedProcessorConfirms(t *testing.T) {
	proc := &SimulatedProcessor{Delay: time.Millisecond}
	result, err := proc.Charge(context.Background(), "ord-1", 450.0, "cash")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", result.OrderID)
	assert.Equal(t, 450.0, result.Amount)
	assert.NotEmpty(t, result.PaymentID)
	assert.False(t, result.PaidAt.IsZero())
}

func TestSimulatedProcessorHonorsContext(t *testing.T) {
	proc := &SimulatedProcessor{Delay: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := proc.Charge(ctx, "ord-1", 100.0, "cash")
	assert.ErrorIs(t, err, context.Canceled)
}
