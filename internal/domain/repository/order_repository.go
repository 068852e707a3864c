package repository

import (
	"context"

	"roostermarket/internal/domain/entity"
)

const (
	OrderRoleBuyer  = "buyer"
	OrderRoleSeller = "seller"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ListByUser lists orders where userID plays role, newest first. An empty
	// status matches every status.
	ListByUser(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Order, int64, error)
	// Transition loads the order, hands it to fn and persists the result in one
	// transaction. Nothing is written when fn returns an error.
	Transition(ctx context.Context, id string, fn func(order *entity.Order) error) (*entity.Order, error)
	// HasCompletedBetween reports a Completed order between a and b in either direction.
	HasCompletedBetween(ctx context.Context, a, b string) (bool, error)
	HasCompletedForListing(ctx context.Context, buyerID, listingID string) (bool, error)
}
