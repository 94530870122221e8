package service

import "github.com/Skotchmaster/shopfront/internal/models"

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered: nil,
	models.OrderStatusCancelled: nil,
}

// CanTransition reports whether an order may move from one status to another.
// Staying on the same status is not a transition.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
