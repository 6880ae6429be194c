package tracking

import "errors"

var (
	// ErrInvalidInput is returned synchronously by Start for malformed
	// coordinates or missing required configuration.
	ErrInvalidInput = errors.New("tracking: invalid input")

	// ErrSubscriptionFailure marks a live-feed subscription that could not be
	// established or dropped. It is surfaced through the update stream, never
	// by silently falling back to simulated movement.
	ErrSubscriptionFailure = errors.New("tracking: subscription failure")
)
