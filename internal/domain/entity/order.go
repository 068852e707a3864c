package entity

import (
	"time"
)

const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// IsValidOrderStatus reports whether status is one of the order statuses above.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        string  `json:"id" firestore:"id"`
	BuyerID   string  `json:"buyer_id" firestore:"buyerId"`
	SellerID  string  `json:"seller_id" firestore:"sellerId"`
	ListingID string  `json:"listing_id" firestore:"listingId"`
	Status    string  `json:"status" firestore:"status"`
	Price     float64 `json:"price" firestore:"price"` // unit price captured at order time
	Quantity  int     `json:"quantity" firestore:"quantity"`
	ACL       ACL     `json:"-" firestore:"acl"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (o *Order) IsBuyer(userID string) bool {
	return userID != "" && o.BuyerID == userID
}

func (o *Order) IsSeller(userID string) bool {
	return userID != "" && o.SellerID == userID
}

func (o *Order) IsParticipant(userID string) bool {
	return o.IsBuyer(userID) || o.IsSeller(userID)
}

// Involves reports whether the order is between a and b, in either direction.
func (o *Order) Involves(a, b string) bool {
	return (o.BuyerID == a && o.SellerID == b) || (o.BuyerID == b && o.SellerID == a)
}

func (o *Order) Total() float64 {
	return o.Price * float64(o.Quantity)
}

// OrderView is an order with its listing and both parties loaded.
type OrderView struct {
	*Order
	Total   float64  `json:"total"`
	Listing *Listing `json:"listing,omitempty"`
	Buyer   *User    `json:"buyer,omitempty"`
	Seller  *User    `json:"seller,omitempty"`
}
