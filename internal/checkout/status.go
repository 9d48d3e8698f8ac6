package checkout

import "github.com/oseayemenre/bookstore/internal/models"

var transitions = map[string][]string{
	models.OrderStatusPending: {models.OrderStatusPaid, models.OrderStatusCancelled, models.OrderStatusShipped},
	models.OrderStatusPaid:    {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped: {models.OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
// Cancelled and Delivered are terminal.
func CanTransition(from string, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// Cancellable reports whether the owner may still cancel an order.
func Cancellable(status string) bool {
	return status == models.OrderStatusPending || status == models.OrderStatusPaid
}
