package billing

import (
	"errors"
	"math"
	"strings"
)

// Per-litre fuel prices in rupees. The catalog is fixed; there is no market
// feed behind it.
var fuelPricePerLiter = map[string]float64{
	"petrol":  96.72,
	"diesel":  89.62,
	"premium": 102.50,
}

// Flat mechanic call-out charges in rupees.
var mechanicServicePrice = map[string]float64{
	"tire_change":   200,
	"battery_jump":  150,
	"engine_repair": 500,
	"towing":        800,
	"other":         300,
}

var (
	ErrUnknownFuelType = errors.New("unknown fuel type")
	ErrUnknownService  = errors.New("unknown mechanic service")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// FuelTotal returns the fuel cost for the given type and quantity, excluding
// the delivery charge.
func FuelTotal(fuelType string, quantityLiters float64) (float64, error) {
	if quantityLiters <= 0 || math.IsNaN(quantityLiters) {
		return 0, ErrInvalidQuantity
	}
	price, ok := fuelPricePerLiter[strings.ToLower(strings.TrimSpace(fuelType))]
	if !ok {
		return 0, ErrUnknownFuelType
	}
	return round2(price * quantityLiters), nil
}

// MechanicCharge returns the flat charge for a mechanic service. Unrecognized
// services are an error rather than silently priced as "other".
func MechanicCharge(service string) (float64, error) {
	price, ok := mechanicServicePrice[strings.ToLower(strings.TrimSpace(service))]
	if !ok {
		return 0, ErrUnknownService
	}
	return price, nil
}

// DeliveryCharge returns the distance-banded delivery fee in rupees.
func DeliveryCharge(distanceKM float64) float64 {
	switch {
	case distanceKM <= 5:
		return 30
	case distanceKM <= 10:
		return 40
	default:
		return 50
	}
}

// FuelPrice returns the per-litre price for display.
func FuelPrice(fuelType string) (float64, bool) {
	price, ok := fuelPricePerLiter[strings.ToLower(strings.TrimSpace(fuelType))]
	return price, ok
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
