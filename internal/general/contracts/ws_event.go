package contracts

import "time"

// WSTrackingUpdate mirrors "tracking_update" sent over the customer tracking
// WebSocket on every simulated or live movement step.
type WSTrackingUpdate struct {
	Type           string    `json:"type"` // "tracking_update"
	OrderID        string    `json:"order_id"`
	Status         string    `json:"status"`
	Location       *GeoPoint `json:"location,omitempty"`
	SpeedKMH       float64   `json:"speed_kmh,omitempty"`
	HeadingDegrees float64   `json:"heading_degrees,omitempty"`
	DistanceKM     *float64  `json:"distance_km,omitempty"`
	ETAMinutes     *int      `json:"eta_minutes,omitempty"`
	Degraded       bool      `json:"degraded,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Envelope
}

// WSTrackingTerminal mirrors the final "tracking_terminal" frame closing a
// tracking stream.
type WSTrackingTerminal struct {
	Type     string       `json:"type"` // "tracking_terminal"
	OrderID  string       `json:"order_id"`
	Status   string       `json:"status"` // completed|cancelled
	Driver   *DriverBrief `json:"driver_info,omitempty"`
	Envelope              // allows correlation_id reuse
}

// WSOrderStatus mirrors order lifecycle pushes to the customer app.
type WSOrderStatus struct {
	Type     string       `json:"type"` // "order_status_update"
	OrderID  string       `json:"order_id"`
	Status   string       `json:"status"`
	Driver   *DriverBrief `json:"driver_info,omitempty"`
	Envelope              // allows correlation_id reuse
}
