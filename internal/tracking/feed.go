package tracking

import (
	"context"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
)

// DriverPing is one reported driver position from the live location feed.
type DriverPing struct {
	Position   geo.Coordinate
	ObservedAt time.Time
}

// LocationFeed supplies driver position updates keyed by driver ID. The
// returned unsubscribe func must be safe to call more than once. The channel
// is closed by the feed when the subscription drops; the session treats that
// as a subscription failure.
type LocationFeed interface {
	Subscribe(ctx context.Context, driverID string) (<-chan DriverPing, func(), error)
}
