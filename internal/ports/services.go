package ports

import (
	"context"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
)

// ----- DTOs for Order Service -----

// CreateOrderInput is the validated input required to place a fuel or
// mechanic order.
type CreateOrderInput struct {
	CustomerID string
	Kind       order.Kind

	// fuel orders
	FuelType       string
	QuantityLiters float64

	// mechanic orders
	MechanicService string
	VehicleType     string

	Latitude  float64
	Longitude float64
	Address   string
	Notes     string
}

// CreateOrderResult is returned by OrderService.CreateOrder().
type CreateOrderResult struct {
	OrderID          string  `json:"order_id"`
	Status           string  `json:"status"`
	Amount           float64 `json:"amount"`
	DeliveryCharge   float64 `json:"delivery_charge"`
	EstimatedMinutes int     `json:"estimated_minutes"`
}

type CancelOrderResult struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelled_at"`
	Message     string `json:"message"`
}

// OrderView is the customer-facing projection of an order. CustomerID is
// carried for ownership checks but never serialized.
type OrderView struct {
	CustomerID  string        `json:"-"`
	OrderID     string        `json:"order_id"`
	Kind        string        `json:"kind"`
	Status      string        `json:"status"`
	Amount      float64       `json:"amount"`
	Details     order.Details `json:"details"`
	Address     string        `json:"address"`
	Location    GeoPoint      `json:"location"`
	DriverID    *string       `json:"driver_id,omitempty"`
	RequestedAt time.Time     `json:"requested_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

// ----- Order Service Interface -----

// OrderService exposes the customer-facing order operations.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error)
	CancelOrder(ctx context.Context, orderID, customerID, reason string) (CancelOrderResult, error)
	GetOrder(ctx context.Context, orderID string) (OrderView, error)
	ListOrders(ctx context.Context, customerID string, limit int) ([]OrderView, error)
	RunBackgroundConsumers(ctx context.Context)
}

// ---------------------------------------------------------------------------------------------------------------

// ----- DTOs for Dispatch Service -----

// AcceptOrderInput is the validated input for POST /drivers/{driver_id}/accept.
type AcceptOrderInput struct {
	DriverID string // from path
	OrderID  string // from body
}

// AcceptOrderResult matches the API response for accepting an order.
type AcceptOrderResult struct {
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	AcceptedAt time.Time `json:"accepted_at"`
	Message    string    `json:"message"`
}

// GoOnlineInput is the validated input for POST /drivers/{driver_id}/online.
type GoOnlineInput struct {
	DriverID  string  // from path
	Latitude  float64 // from body
	Longitude float64 // from body
}

// GoOnlineResult matches the API response for going online.
type GoOnlineResult struct {
	Status  string `json:"status"` // "available"
	Message string `json:"message"`
}

// GoOfflineInput is the validated input for POST /drivers/{driver_id}/offline.
type GoOfflineInput struct {
	DriverID string // from path
}

// GoOfflineResult matches the API response for going offline.
type GoOfflineResult struct {
	Status  string `json:"status"` // "offline"
	Message string `json:"message"`
}

// ReportLocationInput is the validated input for POST /drivers/{driver_id}/location.
type ReportLocationInput struct {
	DriverID       string   // from path
	Latitude       float64  // from body
	Longitude      float64  // from body
	SpeedKMH       *float64 // optional
	HeadingDegrees *float64 // optional
}

// ReportLocationResult matches the API response for a location report.
type ReportLocationResult struct {
	CoordinateID string    `json:"coordinate_id"`
	UpdatedAt    time.Time `json:"updated_at"`
	Throttled    bool      `json:"throttled"`
}

// CompleteOrderInput is the validated input for POST /drivers/{driver_id}/complete.
type CompleteOrderInput struct {
	DriverID      string   // from path
	OrderID       string   // from body
	FinalLocation GeoPoint `json:"final_location"`
	FinalAmount   float64  `json:"final_amount"`
}

// CompleteOrderResult matches the API response for completing an order.
type CompleteOrderResult struct {
	OrderID        string    `json:"order_id"`
	Status         string    `json:"status"`
	CompletedAt    time.Time `json:"completed_at"`
	DriverEarnings float64   `json:"driver_earnings"`
	Message        string    `json:"message"`
}

// ----- Dispatch Service Interface -----

// DispatchService defines driver-side order and location operations.
type DispatchService interface {
	GoOnline(ctx context.Context, in GoOnlineInput) (GoOnlineResult, error)
	GoOffline(ctx context.Context, in GoOfflineInput) (GoOfflineResult, error)
	AcceptOrder(ctx context.Context, in AcceptOrderInput) (AcceptOrderResult, error)
	ReportLocation(ctx context.Context, in ReportLocationInput) (ReportLocationResult, error)
	CompleteOrder(ctx context.Context, in CompleteOrderInput) (CompleteOrderResult, error)
	StartBackgroundConsumer(ctx context.Context)
}

// ---------------------------------------------------------------------------------------------------------------

// ----- DTOs for Admin Dashboard -----

// OverviewMetrics groups all numeric KPIs for the overview.
type OverviewMetrics struct {
	ActiveOrders           int     `json:"active_orders"`
	AvailableDrivers       int     `json:"available_drivers"`
	BusyDrivers            int     `json:"busy_drivers"`
	TotalOrdersToday       int     `json:"total_orders_today"`
	TotalRevenueToday      float64 `json:"total_revenue_today"`
	AverageDeliveryMinutes float64 `json:"average_delivery_minutes"`
	CancellationRate       float64 `json:"cancellation_rate"`
}

// ProviderDistribution shows provider counts by order kind served.
type ProviderDistribution struct {
	Fuel     int `json:"fuel"`
	Mechanic int `json:"mechanic"`
}

// SystemOverviewResult is the top-level response DTO for GET /admin/overview endpoint.
type SystemOverviewResult struct {
	Timestamp            time.Time            `json:"timestamp"`
	Metrics              OverviewMetrics      `json:"metrics"`
	ProviderDistribution ProviderDistribution `json:"provider_distribution"`
}

// GeoPoint represents a simple latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ActiveOrderRow represents a single active order row in the admin overview.
type ActiveOrderRow struct {
	OrderID               string    `json:"order_id"`
	Kind                  string    `json:"kind"`
	Status                string    `json:"status"`
	CustomerID            string    `json:"customer_id"`
	DriverID              string    `json:"driver_id"`
	Address               string    `json:"address"`
	RequestedAt           time.Time `json:"requested_at"`
	CurrentDriverLocation GeoPoint  `json:"current_driver_location"`
	DistanceRemainingKM   float64   `json:"distance_remaining_km"`
}

// ActiveOrdersResult is the top-level response DTO for GET /admin/orders/active endpoint.
type ActiveOrdersResult struct {
	Orders     []ActiveOrderRow `json:"orders"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// ----- Admin Service Interface -----

// AdminService exposes monitoring and analytics operations for administrators.
type AdminService interface {
	GetSystemOverview(ctx context.Context) (SystemOverviewResult, error)
	GetActiveOrders(ctx context.Context, page, pageSize string) (ActiveOrdersResult, error)
}
