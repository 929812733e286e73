package contracts

// Exchanges
const (
	ExchangeOrderTopic   = "order_events_topic"
	ExchangeCourierTopic = "courier_topic"
)

// Queues
const (
	QueueCourierLocationReports = "courier_location_reports"
	QueueOrderEvents            = "order_events"
)

// Routing patterns
const (
	RouteOrderStatusPrefix     = "order.status."     // {order_id}
	RouteOrderDeliveredPrefix  = "order.delivered."  // {order_id}
	RouteCourierLocationPrefix = "courier.location." // {order_id}
)

// Realtime event names delivered into order rooms.
const (
	EventStatusChanged   = "status_changed"
	EventCourierAssigned = "courier_assigned"
	EventLocationUpdated = "location_updated"
	EventDelivered       = "delivered"
)
