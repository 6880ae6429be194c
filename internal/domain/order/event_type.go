package order

import (
	"errors"
	"strings"
)

// EventType enumerates the audit event kinds written to order_events.
type EventType string

const (
	EventOrderRequested  EventType = "ORDER_REQUESTED"
	EventDriverAssigned  EventType = "DRIVER_ASSIGNED"
	EventDriverDeparted  EventType = "DRIVER_DEPARTED"
	EventDriverArriving  EventType = "DRIVER_ARRIVING"
	EventOrderCompleted  EventType = "ORDER_COMPLETED"
	EventOrderCancelled  EventType = "ORDER_CANCELLED"
	EventStatusChanged   EventType = "STATUS_CHANGED"
	EventLocationUpdated EventType = "LOCATION_UPDATED"
)

var ErrInvalidEventType = errors.New("invalid order event type")

// ParseEventType normalizes (uppercases+trims) and validates an event type string.
func ParseEventType(input string) (EventType, error) {
	eventType := EventType(strings.ToUpper(strings.TrimSpace(input)))
	if eventType.Valid() {
		return eventType, nil
	}
	return "", ErrInvalidEventType
}

// Valid reports whether the event type is one of the known kinds.
func (eventType EventType) Valid() bool {
	switch eventType {
	case EventOrderRequested, EventDriverAssigned, EventDriverDeparted,
		EventDriverArriving, EventOrderCompleted, EventOrderCancelled,
		EventStatusChanged, EventLocationUpdated:
		return true
	}
	return false
}

// String returns the raw string form.
func (eventType EventType) String() string {
	return string(eventType)
}
