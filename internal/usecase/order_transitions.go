package usecase

import (
	"fmt"

	"roostermarket/internal/domain/entity"
	"roostermarket/pkg/errors"
)

type actor int

const (
	actorSeller actor = 1 << iota
	actorBuyer
)

type transition struct {
	from  string
	to    string
	actor actor
}

// orderTransitions is the complete set of legal status changes. Cancellation is
// handled separately since it is allowed from every non-terminal status.
var orderTransitions = []transition{
	{entity.OrderStatusPending, entity.OrderStatusConfirmed, actorSeller},
	{entity.OrderStatusConfirmed, entity.OrderStatusShipped, actorSeller},
	{entity.OrderStatusShipped, entity.OrderStatusDelivered, actorBuyer},
	{entity.OrderStatusDelivered, entity.OrderStatusCompleted, actorBuyer},
}

func isTerminal(status string) bool {
	return status == entity.OrderStatusCompleted || status == entity.OrderStatusCancelled
}

// ApplyTransition moves order to newStatus on behalf of actorID, or returns an
// error and leaves order untouched.
func ApplyTransition(order *entity.Order, actorID, newStatus string) error {
	var who actor
	if order.IsSeller(actorID) {
		who |= actorSeller
	}
	if order.IsBuyer(actorID) {
		who |= actorBuyer
	}
	if who == 0 {
		return errors.Forbidden("Only the buyer or seller can update this order", nil)
	}

	if !entity.IsValidOrderStatus(newStatus) {
		return errors.InvalidTransition(fmt.Sprintf("Unknown order status %q", newStatus))
	}

	if newStatus == entity.OrderStatusCancelled {
		if isTerminal(order.Status) {
			return errors.InvalidTransition(fmt.Sprintf("Cannot cancel an order that is %s", order.Status))
		}
		order.Status = newStatus
		return nil
	}

	for _, t := range orderTransitions {
		if t.to != newStatus {
			continue
		}
		if t.from != order.Status {
			return errors.InvalidTransition(fmt.Sprintf("Cannot move order from %s to %s", order.Status, newStatus))
		}
		if who&t.actor == 0 {
			return errors.Forbidden(fmt.Sprintf("Only the %s can mark an order %s", t.actor, newStatus), nil)
		}
		order.Status = newStatus
		return nil
	}

	return errors.InvalidTransition(fmt.Sprintf("Cannot move order from %s to %s", order.Status, newStatus))
}

func (a actor) String() string {
	if a == actorSeller {
		return "seller"
	}
	return "buyer"
}
