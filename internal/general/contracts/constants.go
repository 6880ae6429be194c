package contracts

// Exchanges
const (
	ExchangeOrderTopic     = "order_topic"
	ExchangeDriverTopic    = "driver_topic"
	ExchangeLocationFanout = "location_fanout"
)

// Queues
const (
	QueueOrderRequests    = "order_requests"
	QueueOrderStatus      = "order_status"
	QueueDriverMatching   = "driver_matching"
	QueueDriverStatus     = "driver_status"
	QueueLocationTracking = "location_updates_tracking"
)

// Routing patterns
const (
	RouteOrderRequestPrefix = "order.request." // {kind}
	RouteOrderStatusPrefix  = "order.status."  // {status}
	RouteDriverStatusPrefix = "driver.status." // {driver_id}
)
