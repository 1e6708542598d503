package enums

import "fmt"

// OrderEvent names a transition request against the order state machine.
type OrderEvent string

const (
	OrderEventMarkOutForDelivery OrderEvent = "mark_out_for_delivery"
	OrderEventMarkReadyForPickup OrderEvent = "mark_ready_for_pickup"
	OrderEventMarkCompleted      OrderEvent = "mark_completed"
	OrderEventMarkCancelled      OrderEvent = "mark_cancelled"
)

var validOrderEvents = []OrderEvent{
	OrderEventMarkOutForDelivery,
	OrderEventMarkReadyForPickup,
	OrderEventMarkCompleted,
	OrderEventMarkCancelled,
}

// String implements fmt.Stringer.
func (e OrderEvent) String() string {
	return string(e)
}

// IsValid reports whether the value is a known OrderEvent.
func (e OrderEvent) IsValid() bool {
	for _, candidate := range validOrderEvents {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOrderEvent converts raw input into an OrderEvent.
func ParseOrderEvent(value string) (OrderEvent, error) {
	for _, candidate := range validOrderEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event %q", value)
}
