package provider

import (
	"errors"
	"math"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
)

// Location is a provider position sample, produced either by the tracking
// simulation or by a live driver feed. ObservedAt is monotonically increasing
// within one tracking session.
type Location struct {
	Position       geo.Coordinate `json:"position"`
	HeadingDegrees float64        `json:"heading_degrees"`
	SpeedKMH       float64        `json:"speed_kmh"`
	ObservedAt     time.Time      `json:"observed_at"`
}

var (
	ErrNegativeSpeed      = errors.New("speed_kmh cannot be negative")
	ErrInvalidHeading     = errors.New("heading_degrees must be between 0 and 360")
	ErrObservedAtZeroTime = errors.New("observed_at must be a valid timestamp")
)

// NewLocation constructs a validated Location sample.
func NewLocation(position geo.Coordinate, headingDegrees, speedKMH float64, observedAt time.Time) (Location, error) {
	location := Location{
		Position:       position,
		HeadingDegrees: headingDegrees,
		SpeedKMH:       speedKMH,
		ObservedAt:     observedAt,
	}
	if err := location.Validate(); err != nil {
		return Location{}, err
	}
	return location, nil
}

// Validate checks invariants of the Location sample.
func (location Location) Validate() error {
	if err := location.Position.Validate(); err != nil {
		return err
	}
	// allow exactly 360 (some SDKs report 360.0 instead of 0.0)
	if location.HeadingDegrees < 0 || location.HeadingDegrees > 360 || math.IsNaN(location.HeadingDegrees) {
		return ErrInvalidHeading
	}
	if location.SpeedKMH < 0 || math.IsNaN(location.SpeedKMH) {
		return ErrNegativeSpeed
	}
	if location.ObservedAt.IsZero() {
		return ErrObservedAtZeroTime
	}
	return nil
}
