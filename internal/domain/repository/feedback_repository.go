package repository

import (
	"context"

	"roostermarket/internal/domain/entity"
)

type FeedbackRepository interface {
	CreateUserFeedback(ctx context.Context, feedback *entity.Feedback) error
	ExistsUserFeedback(ctx context.Context, fromUserID, toUserID, orderID string) (bool, error)
	ListUserFeedback(ctx context.Context, toUserID string, limit, offset int) ([]*entity.Feedback, int64, error)
	UserRatings(ctx context.Context, toUserID string) ([]int, error)

	CreateProductFeedback(ctx context.Context, feedback *entity.ProductFeedback) error
	ExistsProductFeedback(ctx context.Context, userID, listingID string) (bool, error)
	ListProductFeedback(ctx context.Context, listingID string, limit, offset int) ([]*entity.ProductFeedback, int64, error)
	ListingRatings(ctx context.Context, listingID string) ([]int, error)
}
