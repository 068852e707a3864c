package entity

import (
	"time"
)

type Listing struct {
	ID          string   `json:"id" firestore:"id"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Price       float64  `json:"price" firestore:"price"`
	SellerID    string   `json:"seller_id" firestore:"sellerId"`
	IsTraceable bool     `json:"is_traceable" firestore:"isTraceable"`
	TraceID     string   `json:"trace_id,omitempty" firestore:"traceId,omitempty"`
	ImageIDs    []string `json:"image_ids" firestore:"imageIds"`
	ACL         ACL      `json:"-" firestore:"acl"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (l *Listing) HasSeller() bool {
	return l.SellerID != ""
}

// ListingView is a listing with its seller loaded.
type ListingView struct {
	*Listing
	Seller *User `json:"seller,omitempty"`
}
