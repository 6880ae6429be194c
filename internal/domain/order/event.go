package order

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Event is an append-only audit record for an order's timeline.
type Event struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time

	// Foreign keys
	OrderID string

	// Core payload
	Type EventType
	Data map[string]any
}

var (
	ErrOrderIDRequired = errors.New("order id is required")
	ErrEventDataNil    = errors.New("event data must not be nil")
)

// NewEvent constructs a new domain Event.
func NewEvent(orderID string, eventType EventType, eventData map[string]any) (*Event, error) {
	if orderID = strings.TrimSpace(orderID); orderID == "" {
		return nil, ErrOrderIDRequired
	}
	if !eventType.Valid() {
		return nil, ErrInvalidEventType
	}
	if eventData == nil {
		return nil, ErrEventDataNil
	}
	return &Event{
		OrderID: orderID,
		Type:    eventType,
		Data:    eventData,
	}, nil
}

// Validate checks invariants of the Event.
func (event *Event) Validate() error {
	if strings.TrimSpace(event.OrderID) == "" {
		return ErrOrderIDRequired
	}
	if !event.Type.Valid() {
		return ErrInvalidEventType
	}
	if event.Data == nil {
		return ErrEventDataNil
	}
	return nil
}

// DataJSON serializes the event payload for the JSONB column.
func (event *Event) DataJSON() ([]byte, error) {
	return json.Marshal(event.Data)
}
