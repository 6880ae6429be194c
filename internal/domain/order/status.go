package order

import (
	"errors"
	"strings"
)

// Status is the fulfillment status of an order as stored in the `orders` table.
type Status string

const (
	StatusPreparing Status = "preparing"
	StatusOnTheWay  Status = "on_the_way"
	StatusArriving  Status = "arriving"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

// ParseStatus normalizes (lowercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed order status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusPreparing, StatusOnTheWay, StatusArriving, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// CanTransitionTo specifies if the status can transition to the next status.
// The happy path is monotonic: preparing -> on_the_way -> arriving -> completed.
// Cancellation is allowed from any non-terminal status.
func (status Status) CanTransitionTo(next Status) bool {
	switch status {
	case StatusPreparing:
		return next == StatusOnTheWay || next == StatusCancelled

	case StatusOnTheWay:
		return next == StatusArriving || next == StatusCancelled

	case StatusArriving:
		return next == StatusCompleted || next == StatusCancelled

	case StatusCompleted, StatusCancelled:
		return false

	default:
		return false
	}
}

// Terminal indicates if the status is in a terminal state.
func (status Status) Terminal() bool {
	return status == StatusCompleted || status == StatusCancelled
}
