package contracts

import "time"

// OrderStatusMessage is published by the order service on every status change.
// Routing key: "order.status.{status}" on ExchangeOrderTopic.
type OrderStatusMessage struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"` // preparing|on_the_way|arriving|completed|cancelled
	Timestamp   time.Time `json:"timestamp"`
	DriverID    string    `json:"driver_id,omitempty"`
	FinalAmount *float64  `json:"final_amount,omitempty"`
	Envelope
}
