package entity

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// Feedback is a rating one user leaves about another.
type Feedback struct {
	ID         string `json:"id" firestore:"id"`
	FromUserID string `json:"from_user_id" firestore:"fromUserId"`
	ToUserID   string `json:"to_user_id" firestore:"toUserId"`
	OrderID    string `json:"order_id,omitempty" firestore:"orderId"`
	Rating     int    `json:"rating" firestore:"rating"`
	Comment    string `json:"comment,omitempty" firestore:"comment"`
	ACL        ACL    `json:"-" firestore:"acl"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// ProductFeedback is a rating a buyer leaves about a listing.
type ProductFeedback struct {
	ID        string `json:"id" firestore:"id"`
	UserID    string `json:"user_id" firestore:"userId"`
	ListingID string `json:"listing_id" firestore:"listingId"`
	Rating    int    `json:"rating" firestore:"rating"`
	Comment   string `json:"comment,omitempty" firestore:"comment"`
	ACL       ACL    `json:"-" firestore:"acl"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type RatingSummary struct {
	SubjectID string  `json:"subject_id"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
}
