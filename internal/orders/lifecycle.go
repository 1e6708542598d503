package orders

import (
	"time"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
)

// transitionRule describes one edge of the order state machine: where it may
// start from, which fulfillment mode it requires (if any), and which
// lifecycle timestamp it stamps.
type transitionRule struct {
	sources      []enums.OrderStatus
	requiresMode enums.DeliveryMode
	stamp        func(order *models.Order, at time.Time)
}

// eventTargets maps boundary transition events to their target status.
var eventTargets = map[enums.OrderEvent]enums.OrderStatus{
	enums.OrderEventMarkOutForDelivery: enums.OrderStatusOutForDelivery,
	enums.OrderEventMarkReadyForPickup: enums.OrderStatusReadyForPickup,
	enums.OrderEventMarkCompleted:      enums.OrderStatusCompleted,
	enums.OrderEventMarkCancelled:      enums.OrderStatusCancelled,
}

// TargetForEvent resolves a transition event to the status it requests.
func TargetForEvent(event enums.OrderEvent) (enums.OrderStatus, bool) {
	target, ok := eventTargets[event]
	return target, ok
}

var transitionRules = map[enums.OrderStatus]transitionRule{
	enums.OrderStatusOutForDelivery: {
		sources:      []enums.OrderStatus{enums.OrderStatusPending},
		requiresMode: enums.DeliveryModeDelivery,
		stamp: func(order *models.Order, at time.Time) {
			order.OutForDeliveryAt = &at
		},
	},
	enums.OrderStatusReadyForPickup: {
		sources:      []enums.OrderStatus{enums.OrderStatusPending},
		requiresMode: enums.DeliveryModePickup,
		stamp: func(order *models.Order, at time.Time) {
			order.ReadyForPickupAt = &at
		},
	},
	enums.OrderStatusCompleted: {
		sources: []enums.OrderStatus{
			enums.OrderStatusPending,
			enums.OrderStatusOutForDelivery,
			enums.OrderStatusReadyForPickup,
		},
		stamp: func(order *models.Order, at time.Time) {
			order.CompletedAt = &at
		},
	},
	enums.OrderStatusCancelled: {
		sources: []enums.OrderStatus{
			enums.OrderStatusPending,
			enums.OrderStatusOutForDelivery,
			enums.OrderStatusReadyForPickup,
		},
		stamp: func(order *models.Order, at time.Time) {
			order.CancelledAt = &at
		},
	},
}

// canTransition reports whether the order may move to target, distinguishing
// an unknown target, a wrong source state, and a fulfillment-mode mismatch.
func canTransition(order *models.Order, target enums.OrderStatus) (transitionRule, bool) {
	rule, ok := transitionRules[target]
	if !ok {
		return transitionRule{}, false
	}
	allowed := false
	for _, source := range rule.sources {
		if order.Status == source {
			allowed = true
			break
		}
	}
	if !allowed {
		return transitionRule{}, false
	}
	if rule.requiresMode != "" && order.DeliveryDetails.Mode != rule.requiresMode {
		return transitionRule{}, false
	}
	return rule, true
}
