package orders

import (
	"fmt"
	"time"

	"agriconnect/models"
)

// statusDescriptions is the fixed timeline wording per status. Any
// status outside the table gets a generated fallback.
var statusDescriptions = map[models.OrderStatus]string{
	models.OrderPending:   "Order placed and waiting for confirmation",
	models.OrderConfirmed: "Order confirmed by farmer",
	models.OrderPreparing: "Farmer is preparing your order",
	models.OrderShipped:   "Order has been shipped",
	models.OrderDelivered: "Order delivered successfully",
	models.OrderCancelled: "Order was cancelled",
}

// transitions is the allowed status graph: strictly forward on the
// happy path, cancellable from any non-terminal state. delivered and
// cancelled are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:   {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed: {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:   {models.OrderDelivered, models.OrderCancelled},
	models.OrderDelivered: {},
	models.OrderCancelled: {},
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an order in state from may move to to.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(s models.OrderStatus) bool {
	return ValidStatus(s) && len(transitions[s]) == 0
}

// TimelineDescription returns the canonical wording for a status.
func TimelineDescription(s models.OrderStatus) string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return fmt.Sprintf("Order status changed to %s", s)
}

// NewTimelineEntry builds the immutable record appended to an order
// whenever its status actually changes.
func NewTimelineEntry(s models.OrderStatus, at time.Time) models.TimelineEntry {
	return models.TimelineEntry{
		Status:      s,
		Description: TimelineDescription(s),
		Timestamp:   at,
	}
}
