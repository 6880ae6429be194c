package contracts

// OrderMatchRequest is published by the order service to request a driver.
// Routing key: "order.request.{kind}" on ExchangeOrderTopic.
type OrderMatchRequest struct {
	OrderID         string   `json:"order_id"` // UUID
	Kind            string   `json:"kind"`     // fuel|mechanic
	DeliveryTarget  GeoPoint `json:"delivery_target"`
	FuelType        string   `json:"fuel_type,omitempty"`
	QuantityLiters  float64  `json:"quantity_liters,omitempty"`
	MechanicService string   `json:"mechanic_service,omitempty"`
	Amount          float64  `json:"amount,omitempty"`
	MaxDistanceKM   float64  `json:"max_distance_km,omitempty"` // e.g., 5.0
	TimeoutSeconds  int      `json:"timeout_seconds,omitempty"` // e.g., 30
	Envelope
}
