package order

import (
	"errors"
	"strings"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
)

// Details carries the kind-specific fields of an order in canonical form.
// Legacy documents stored these under several historical names; the postgres
// adapter normalizes them before an Order is ever constructed.
type Details struct {
	FuelType        string  `json:"fuel_type,omitempty"`
	QuantityLiters  float64 `json:"quantity_liters,omitempty"`
	MechanicService string  `json:"mechanic_service,omitempty"`
	VehicleType     string  `json:"vehicle_type,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// Order is the domain entity corresponding to the `orders` table.
type Order struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Actors
	CustomerID string
	DriverID   *string // nil until a driver accepts

	// Core state
	Kind    Kind
	Status  Status
	Amount  float64
	Details Details

	// Delivery target
	Location geo.Coordinate
	Address  string

	// Lifecycle timestamps
	RequestedAt time.Time
	AcceptedAt  *time.Time
	ArrivedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CancellationReason *string
}

var (
	ErrCustomerRequired        = errors.New("customer id is required")
	ErrNegativeAmount          = errors.New("amount cannot be negative")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrAlreadyAssigned         = errors.New("driver already assigned")
	ErrNoDriverAssigned        = errors.New("no driver assigned")
	ErrDriverRequired          = errors.New("driver id is required")
)

// NewOrder creates a new order in preparing state.
func NewOrder(customerID string, kind Kind, location geo.Coordinate, address string, amount float64, details Details) (*Order, error) {
	if customerID = strings.TrimSpace(customerID); customerID == "" {
		return nil, ErrCustomerRequired
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	now := time.Now().UTC()
	return &Order{
		CreatedAt:   now,
		UpdatedAt:   now,
		CustomerID:  customerID,
		Kind:        kind,
		Status:      StatusPreparing,
		Amount:      amount,
		Details:     details,
		Location:    location,
		Address:     strings.TrimSpace(address),
		RequestedAt: now,
	}, nil
}

// AssignDriver records the accepting driver. The order stays in preparing
// until the driver actually departs.
func (ord *Order) AssignDriver(driverID string) error {
	if driverID = strings.TrimSpace(driverID); driverID == "" {
		return ErrDriverRequired
	}
	if ord.DriverID != nil && *ord.DriverID != "" {
		return ErrAlreadyAssigned
	}
	if ord.Status != StatusPreparing {
		return ErrInvalidStatusTransition
	}

	ord.DriverID = &driverID
	now := time.Now().UTC()
	ord.AcceptedAt = &now
	ord.touch()
	return nil
}

// MarkOnTheWay transitions preparing -> on_the_way.
func (ord *Order) MarkOnTheWay() error {
	if !ord.Status.CanTransitionTo(StatusOnTheWay) {
		return ErrInvalidStatusTransition
	}
	ord.setStatus(StatusOnTheWay)
	return nil
}

// MarkArriving transitions on_the_way -> arriving.
func (ord *Order) MarkArriving() error {
	if !ord.Status.CanTransitionTo(StatusArriving) {
		return ErrInvalidStatusTransition
	}
	ord.setStatus(StatusArriving)
	return nil
}

// Complete transitions arriving -> completed.
func (ord *Order) Complete() error {
	if !ord.Status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	ord.ArrivedAt = &now
	ord.CompletedAt = &now
	ord.setStatus(StatusCompleted)
	return nil
}

// Cancel transitions to cancelled (if not terminal).
func (ord *Order) Cancel(reason string) error {
	if ord.Status.Terminal() {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	ord.CancelledAt = &now
	if rs := strings.TrimSpace(reason); rs != "" {
		ord.CancellationReason = &rs
	}
	ord.setStatus(StatusCancelled)
	return nil
}

// ----- internal helpers -----

func (ord *Order) setStatus(status Status) {
	ord.Status = status
	ord.touch()
}

func (ord *Order) touch() {
	ord.UpdatedAt = time.Now().UTC()
}
