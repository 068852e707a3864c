package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
)

type firestoreFeedbackRepository struct {
	client *firestore.Client
}

func NewFirestoreFeedbackRepository(client *firestore.Client) repository.FeedbackRepository {
	return &firestoreFeedbackRepository{
		client: client,
	}
}

// create uses Create rather than Set so a second write to the same id fails.
func (r *firestoreFeedbackRepository) create(ctx context.Context, collection, id string, data interface{}) error {
	_, err := r.client.Collection(collection).Doc(id).Create(ctx, data)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Feedback already submitted")
		}
		return errors.Internal("Failed to create feedback", err)
	}
	return nil
}

func (r *firestoreFeedbackRepository) CreateUserFeedback(ctx context.Context, feedback *entity.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = r.client.Collection(feedbackCollection).NewDoc().ID
	}
	return r.create(ctx, feedbackCollection, feedback.ID, feedback)
}

func (r *firestoreFeedbackRepository) ExistsUserFeedback(ctx context.Context, fromUserID, toUserID, orderID string) (bool, error) {
	return exists(ctx, r.client.Collection(feedbackCollection).
		Where("fromUserId", "==", fromUserID).
		Where("toUserId", "==", toUserID).
		Where("orderId", "==", orderID), "feedback")
}

func (r *firestoreFeedbackRepository) ListUserFeedback(ctx context.Context, toUserID string, limit, offset int) ([]*entity.Feedback, int64, error) {
	query := r.client.Collection(feedbackCollection).Where("toUserId", "==", toUserID)

	total, err := count(ctx, query, "feedback")
	if err != nil {
		return nil, 0, err
	}

	query = paginate(query.OrderBy("createdAt", firestore.Desc), limit, offset)
	items, err := collect[entity.Feedback](query.Documents(ctx), "feedback")
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *firestoreFeedbackRepository) UserRatings(ctx context.Context, toUserID string) ([]int, error) {
	items, err := collect[entity.Feedback](r.client.Collection(feedbackCollection).
		Where("toUserId", "==", toUserID).
		Select("rating").
		Documents(ctx), "feedback")
	if err != nil {
		return nil, err
	}
	ratings := make([]int, len(items))
	for i, f := range items {
		ratings[i] = f.Rating
	}
	return ratings, nil
}

func (r *firestoreFeedbackRepository) CreateProductFeedback(ctx context.Context, feedback *entity.ProductFeedback) error {
	if feedback.ID == "" {
		feedback.ID = r.client.Collection(productFeedbackCollection).NewDoc().ID
	}
	return r.create(ctx, productFeedbackCollection, feedback.ID, feedback)
}

func (r *firestoreFeedbackRepository) ExistsProductFeedback(ctx context.Context, userID, listingID string) (bool, error) {
	return exists(ctx, r.client.Collection(productFeedbackCollection).
		Where("userId", "==", userID).
		Where("listingId", "==", listingID), "product feedback")
}

func (r *firestoreFeedbackRepository) ListProductFeedback(ctx context.Context, listingID string, limit, offset int) ([]*entity.ProductFeedback, int64, error) {
	query := r.client.Collection(productFeedbackCollection).Where("listingId", "==", listingID)

	total, err := count(ctx, query, "product feedback")
	if err != nil {
		return nil, 0, err
	}

	query = paginate(query.OrderBy("createdAt", firestore.Desc), limit, offset)
	items, err := collect[entity.ProductFeedback](query.Documents(ctx), "product feedback")
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *firestoreFeedbackRepository) ListingRatings(ctx context.Context, listingID string) ([]int, error) {
	items, err := collect[entity.ProductFeedback](r.client.Collection(productFeedbackCollection).
		Where("listingId", "==", listingID).
		Select("rating").
		Documents(ctx), "product feedback")
	if err != nil {
		return nil, err
	}
	ratings := make([]int, len(items))
	for i, f := range items {
		ratings[i] = f.Rating
	}
	return ratings, nil
}
