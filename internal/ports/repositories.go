package ports

import (
	"context"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/user"
)

// UnitOfWork interface is used to manage transactions across multiple repository operations.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the methods for managing user data.
type UserRepository interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// OrderRepository defines the methods for managing order data.
type OrderRepository interface {
	CreateOrder(ctx context.Context, ord *order.Order) error
	GetByID(ctx context.Context, id string) (*order.Order, error)
	GetActiveForCustomer(ctx context.Context, customerID string) (*order.Order, error)
	GetActiveForDriver(ctx context.Context, driverID string) (*order.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]*order.Order, error)
	ListPendingByKind(ctx context.Context, kind order.Kind, limit int) ([]*order.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status, ts time.Time) error
	AssignDriver(ctx context.Context, orderID, driverID string, acceptedAt time.Time) error
	Complete(ctx context.Context, orderID string, finalAmount float64, completedAt time.Time) error
	Cancel(ctx context.Context, orderID, reason string, cancelledAt time.Time) error
	CountActive(ctx context.Context) (int, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error)
	CancellationRateBetween(ctx context.Context, start, end time.Time) (float64, error)
	SumAmountCompletedBetween(ctx context.Context, start, end time.Time) (float64, error)
	AvgDeliveryMinutesBetween(ctx context.Context, start, end time.Time) (float64, error)
	HydrateActiveRows(ctx context.Context, offset, limit int) ([]ActiveOrderRow, error)
}

// OrderEventRepository defines the methods for managing order event data.
type OrderEventRepository interface {
	Append(ctx context.Context, e *order.Event) error
}

// ProviderRepository defines the methods for managing provider data.
type ProviderRepository interface {
	CreateProvider(ctx context.Context, prov *provider.Provider) error
	GetByID(ctx context.Context, providerID string) (*provider.Provider, error)
	UpdateStatus(ctx context.Context, providerID string, status provider.Status) error
	FindNearbyAvailable(ctx context.Context, lat, lng float64, kind order.Kind, radiusKM float64, limit int) ([]provider.Provider, error)
	IncrementCountersOnComplete(ctx context.Context, providerID string, earnings float64) error
	CountByStatus(ctx context.Context, status provider.Status) (int, error)
	CountByKind(ctx context.Context, kind order.Kind) (int, error)
}

// CoordinatesRepository defines methods for managing provider and customer coordinates.
type CoordinatesRepository interface {
	SaveProviderLocation(ctx context.Context, providerID string, loc provider.Location, address string) (coordinateID string, updatedAt time.Time, err error)
	GetCurrentForProvider(ctx context.Context, providerID string) (*provider.Location, error)
	UpsertForCustomer(ctx context.Context, customerID string, coord geo.Coordinate, makeCurrent bool) (string, time.Time, error)
}

// LocationCache holds the most recent reported position per driver for cheap
// reads on the hot tracking path.
type LocationCache interface {
	SetCurrent(ctx context.Context, driverID string, loc provider.Location) error
	GetCurrent(ctx context.Context, driverID string) (*provider.Location, error)
}
