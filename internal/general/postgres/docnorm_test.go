package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
)

func TestNormalizeDetailsCanonical(t *testing.T) {
	raw := []byte(`{"fuel_type":"petrol","quantity_liters":12.5,"notes":"gate code 4411"}`)
	details, err := normalizeDetails(raw)
	require.NoError(t, err)
	assert.Equal(t, order.Details{
		FuelType:       "petrol",
		QuantityLiters: 12.5,
		Notes:          "gate code 4411",
	}, details)
}

func TestNormalizeDetailsLegacyCamelCase(t *testing.T) {
	// mobile client releases before the schema cleanup
	raw := []byte(`{"fuelType":"Diesel","quantity":"10","vehicleType":"SUV"}`)
	details, err := normalizeDetails(raw)
	require.NoError(t, err)
	assert.Equal(t, "diesel", details.FuelType)
	assert.Equal(t, 10.0, details.QuantityLiters)
	assert.Equal(t, "suv", details.VehicleType)
}

func TestNormalizeDetailsLegacyServiceLabels(t *testing.T) {
	cases := map[string]string{
		"Tyre Change": "tire_change",
		"tire_change": "tire_change",
		"jumpstart":   "battery_jump",
		"battery":     "battery_jump",
		"Engine":      "engine_repair",
		"tow":         "towing",
		"towing":      "towing",
		"other":       "other",
	}
	for input, want := range cases {
		raw := []byte(`{"serviceType":"` + input + `"}`)
		details, err := normalizeDetails(raw)
		require.NoError(t, err, input)
		assert.Equal(t, want, details.MechanicService, input)
	}
}

func TestNormalizeDetailsAliasPrecedence(t *testing.T) {
	// canonical spelling wins over the legacy one when both are present
	raw := []byte(`{"fuel_type":"petrol","fuelType":"diesel"}`)
	details, err := normalizeDetails(raw)
	require.NoError(t, err)
	assert.Equal(t, "petrol", details.FuelType)
}

func TestNormalizeDetailsEmptyAndInvalid(t *testing.T) {
	details, err := normalizeDetails(nil)
	require.NoError(t, err)
	assert.Zero(t, details)

	_, err = normalizeDetails([]byte(`{not json`))
	assert.Error(t, err)

	_, err = normalizeDetails([]byte(`{"quantity":"a lot"}`))
	assert.Error(t, err)
}

func TestMarshalDetailsRoundTrip(t *testing.T) {
	in := order.Details{FuelType: "premium", QuantityLiters: 20}
	raw, err := marshalDetails(in)
	require.NoError(t, err)

	out, err := normalizeDetails(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
