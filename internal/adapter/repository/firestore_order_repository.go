package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = r.client.Collection(ordersCollection).NewDoc().ID
	}

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	if _, err := r.client.Collection(ordersCollection).Doc(order.ID).Create(ctx, order); err != nil {
		return errors.Internal("Failed to create order", err)
	}
	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return getDoc[entity.Order](ctx, r.client.Collection(ordersCollection).Doc(id), "Order")
}

func (r *firestoreOrderRepository) ListByUser(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Order, int64, error) {
	field := "buyerId"
	if role == repository.OrderRoleSeller {
		field = "sellerId"
	}

	query := r.client.Collection(ordersCollection).Where(field, "==", userID)
	if status != "" {
		query = query.Where("status", "==", status)
	}

	total, err := count(ctx, query, "orders")
	if err != nil {
		return nil, 0, err
	}

	query = paginate(query.OrderBy("createdAt", firestore.Desc), limit, offset)
	orders, err := collect[entity.Order](query.Documents(ctx), "orders")
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Transition runs fn against the stored order inside a transaction. Firestore
// retries fn when a concurrent writer touched the order first.
func (r *firestoreOrderRepository) Transition(ctx context.Context, id string, fn func(order *entity.Order) error) (*entity.Order, error) {
	ref := r.client.Collection(ordersCollection).Doc(id)
	var result entity.Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Order", err)
			}
			return err
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return errors.Internal("Failed to parse order data", err)
		}
		if err := fn(&order); err != nil {
			return err
		}

		result = order
		return tx.Set(ref, &order)
	})
	if err != nil {
		var appErr *errors.AppError
		if asAppError(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to update order", err)
	}
	return &result, nil
}

func (r *firestoreOrderRepository) HasCompletedBetween(ctx context.Context, a, b string) (bool, error) {
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		ok, err := exists(ctx, r.client.Collection(ordersCollection).
			Where("buyerId", "==", pair[0]).
			Where("sellerId", "==", pair[1]).
			Where("status", "==", entity.OrderStatusCompleted), "orders")
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (r *firestoreOrderRepository) HasCompletedForListing(ctx context.Context, buyerID, listingID string) (bool, error) {
	return exists(ctx, r.client.Collection(ordersCollection).
		Where("buyerId", "==", buyerID).
		Where("listingId", "==", listingID).
		Where("status", "==", entity.OrderStatusCompleted), "orders")
}
