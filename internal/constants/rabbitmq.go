package constants

const (
	// RoutingKeySearchCompleted is the routing key for search lifecycle events.
	RoutingKeySearchCompleted = "search.completed"
)
