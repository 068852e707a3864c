package usecase

import (
	"context"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/policy"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/logger"
	"roostermarket/pkg/utils"
)

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
	}
}

type CreateOrderInput struct {
	ListingID string
	Quantity  int
	// Price overrides the listing's current price when set.
	Price *float64
}

func (uc *OrderUseCase) CreateOrder(ctx context.Context, sess *entity.Session, input CreateOrderInput) (*entity.Order, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if input.Quantity < 1 {
		return nil, errors.BadRequest("Quantity must be at least 1", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.BadRequest("Listing does not exist", err)
		}
		return nil, err
	}
	if !listing.HasSeller() {
		return nil, errors.BadRequest("Listing has no seller", nil)
	}
	if listing.SellerID == sess.UserID {
		return nil, errors.BadRequest("You cannot order your own listing", nil)
	}

	price := listing.Price
	if input.Price != nil {
		price = *input.Price
	}
	if price <= 0 {
		return nil, errors.BadRequest("Order has no price", nil)
	}

	acl, err := policy.Build(policy.KindOrder, policy.Principals{
		Owners:       []string{sess.UserID},
		Participants: []string{listing.SellerID},
	})
	if err != nil {
		return nil, errors.Internal("Failed to build order permissions", err)
	}

	ts := now()
	order := &entity.Order{
		BuyerID:   sess.UserID,
		SellerID:  listing.SellerID,
		ListingID: listing.ID,
		Status:    entity.OrderStatusPending,
		Price:     price,
		Quantity:  input.Quantity,
		ACL:       acl,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"order_id": order.ID, "buyer_id": order.BuyerID, "seller_id": order.SellerID,
	}).Info("order created")
	return order, nil
}

// UpdateOrderStatus applies one transition. The read, the check and the write
// happen in a single repository transaction.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, sess *entity.Session, orderID, newStatus string) (*entity.Order, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	var from string
	order, err := uc.orderRepo.Transition(ctx, orderID, func(order *entity.Order) error {
		if !order.ACL.CanWrite(sess) {
			return errors.Forbidden("Only the buyer or seller can update this order", nil)
		}
		from = order.Status
		if err := ApplyTransition(order, sess.UserID, newStatus); err != nil {
			return err
		}
		order.UpdatedAt = now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"order_id": order.ID, "from": from, "to": order.Status, "actor": sess.UserID,
	}).Info("order status changed")
	return order, nil
}

// GetOrder returns the order with its listing and both parties. Only the buyer
// and the seller can see it.
func (uc *OrderUseCase) GetOrder(ctx context.Context, sess *entity.Session, orderID string) (*entity.OrderView, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.ACL.CanRead(sess) || !order.IsParticipant(sess.UserID) {
		return nil, errors.Forbidden("You cannot view this order", nil)
	}

	view := &entity.OrderView{Order: order, Total: order.Total()}

	if view.Listing, err = uc.listingRepo.GetByID(ctx, order.ListingID); err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if view.Buyer, err = uc.userRepo.GetByID(ctx, order.BuyerID); err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if view.Seller, err = uc.userRepo.GetByID(ctx, order.SellerID); err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	return view, nil
}

// ListOrders lists the caller's purchases (asBuyer) or sales, newest first.
func (uc *OrderUseCase) ListOrders(ctx context.Context, sess *entity.Session, asBuyer bool, status string, p utils.PaginationParams) ([]*entity.Order, int64, error) {
	if !sess.IsAuthenticated() {
		return nil, 0, errors.Unauthorized("Authentication required", nil)
	}
	if status != "" && !entity.IsValidOrderStatus(status) {
		return nil, 0, errors.BadRequest("Unknown order status", nil)
	}

	role := repository.OrderRoleSeller
	if asBuyer {
		role = repository.OrderRoleBuyer
	}
	return uc.orderRepo.ListByUser(ctx, sess.UserID, role, status, p.PageSize, p.Offset)
}
