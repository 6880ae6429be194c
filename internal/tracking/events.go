package tracking

import (
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
)

// Update is delivered to the session's observer on every state change.
// Provider, DistanceKM and ETAMinutes are nil until movement begins.
type Update struct {
	Status     order.Status
	Provider   *provider.Location
	DistanceKM *float64
	ETAMinutes *int

	// Err is set when the session is degraded (live-feed subscription
	// failure). The session stays cancellable; metrics keep their last
	// known values.
	Err error
}

// Terminal is delivered exactly once, when the session reaches completed or
// cancelled.
type Terminal struct {
	Status order.Status
}

// UpdateFunc observes session state changes. Invoked from the session's own
// goroutine; implementations must return quickly. Calling Cancel or
// NotifyOrderCompleted from inside the callback is safe.
type UpdateFunc func(Update)

// TerminalFunc observes the single terminal event of a session.
type TerminalFunc func(Terminal)
