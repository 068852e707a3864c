package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/policy"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/logger"
	"roostermarket/pkg/utils"
)

var feedbackNamespace = uuid.MustParse("6f1d3c2a-8b0e-4f4e-9a57-3c1e5b7d9f20")

// feedbackID is stable per (author, subject, order) so a duplicate write collides
// on the document id even when two submissions race past the existence check.
func feedbackID(parts ...string) string {
	return uuid.NewSHA1(feedbackNamespace, []byte(strings.Join(parts, "\x00"))).String()
}

type FeedbackUseCase struct {
	feedbackRepo repository.FeedbackRepository
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	listingRepo  repository.ListingRepository
}

func NewFeedbackUseCase(
	feedbackRepo repository.FeedbackRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
) *FeedbackUseCase {
	return &FeedbackUseCase{
		feedbackRepo: feedbackRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		listingRepo:  listingRepo,
	}
}

type FeedbackInput struct {
	Rating  int
	Comment string
	// OrderID optionally names the order the feedback is about.
	OrderID string
}

// SubmitUserFeedback lets the caller rate another user they have completed an
// order with.
func (uc *FeedbackUseCase) SubmitUserFeedback(ctx context.Context, sess *entity.Session, toUserID string, input FeedbackInput) (*entity.Feedback, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if !entity.IsValidRating(input.Rating) {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}
	if toUserID == "" {
		return nil, errors.BadRequest("Target user is required", nil)
	}
	if toUserID == sess.UserID {
		return nil, errors.BadRequest("You cannot leave feedback for yourself", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, toUserID); err != nil {
		return nil, err
	}

	if err := uc.checkUserEligibility(ctx, sess.UserID, toUserID, input.OrderID); err != nil {
		return nil, err
	}

	exists, err := uc.feedbackRepo.ExistsUserFeedback(ctx, sess.UserID, toUserID, input.OrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("You already left feedback for this user and order")
	}

	acl, err := policy.Build(policy.KindFeedback, policy.Principals{
		Owners:       []string{sess.UserID},
		Participants: []string{toUserID},
	})
	if err != nil {
		return nil, errors.Internal("Failed to build feedback permissions", err)
	}

	feedback := &entity.Feedback{
		ID:         feedbackID("user", sess.UserID, toUserID, input.OrderID),
		FromUserID: sess.UserID,
		ToUserID:   toUserID,
		OrderID:    input.OrderID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		ACL:        acl,
		CreatedAt:  now(),
	}
	if err := uc.feedbackRepo.CreateUserFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"from": feedback.FromUserID, "to": feedback.ToUserID, "order_id": feedback.OrderID,
	}).Info("user feedback submitted")
	return feedback, nil
}

func (uc *FeedbackUseCase) checkUserEligibility(ctx context.Context, fromUserID, toUserID, orderID string) error {
	if orderID == "" {
		ok, err := uc.orderRepo.HasCompletedBetween(ctx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NotEligible("You need a completed order with this user to leave feedback")
		}
		return nil
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.BadRequest("Related order does not exist", err)
		}
		return err
	}
	if !order.Involves(fromUserID, toUserID) {
		return errors.NotEligible("The related order is not between you and this user")
	}
	if order.Status != entity.OrderStatusCompleted {
		return errors.NotEligible("The related order is not completed")
	}
	return nil
}

// SubmitProductFeedback lets a buyer rate a listing they completed an order for.
func (uc *FeedbackUseCase) SubmitProductFeedback(ctx context.Context, sess *entity.Session, listingID string, input FeedbackInput) (*entity.ProductFeedback, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if !entity.IsValidRating(input.Rating) {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	ok, err := uc.orderRepo.HasCompletedForListing(ctx, sess.UserID, listing.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotEligible("You need a completed order for this product to leave feedback")
	}

	exists, err := uc.feedbackRepo.ExistsProductFeedback(ctx, sess.UserID, listing.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("You already left feedback for this product")
	}

	acl, err := policy.Build(policy.KindProductFeedback, policy.Principals{
		Owners:       []string{sess.UserID},
		Participants: []string{listing.SellerID},
	})
	if err != nil {
		return nil, errors.Internal("Failed to build feedback permissions", err)
	}

	feedback := &entity.ProductFeedback{
		ID:        feedbackID("product", sess.UserID, listing.ID),
		UserID:    sess.UserID,
		ListingID: listing.ID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		ACL:       acl,
		CreatedAt: now(),
	}
	if err := uc.feedbackRepo.CreateProductFeedback(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// ListUserFeedback returns the feedback the user received that the caller may read.
func (uc *FeedbackUseCase) ListUserFeedback(ctx context.Context, sess *entity.Session, userID string, p utils.PaginationParams) ([]*entity.Feedback, int64, error) {
	items, total, err := uc.feedbackRepo.ListUserFeedback(ctx, userID, p.PageSize, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	visible := make([]*entity.Feedback, 0, len(items))
	for _, f := range items {
		if f.ACL.CanRead(sess) {
			visible = append(visible, f)
		}
	}
	return visible, visibleTotal(total, len(items), len(visible)), nil
}

func (uc *FeedbackUseCase) ListProductFeedback(ctx context.Context, sess *entity.Session, listingID string, p utils.PaginationParams) ([]*entity.ProductFeedback, int64, error) {
	items, total, err := uc.feedbackRepo.ListProductFeedback(ctx, listingID, p.PageSize, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	visible := make([]*entity.ProductFeedback, 0, len(items))
	for _, f := range items {
		if f.ACL.CanRead(sess) {
			visible = append(visible, f)
		}
	}
	return visible, visibleTotal(total, len(items), len(visible)), nil
}

// visibleTotal removes the entries hidden on this page from the stored count.
// Entries hidden on other pages are not known here, so the result is an upper bound.
func visibleTotal(total int64, fetched, visible int) int64 {
	total -= int64(fetched - visible)
	if total < int64(visible) {
		return int64(visible)
	}
	return total
}

func (uc *FeedbackUseCase) UserRating(ctx context.Context, userID string) (*entity.RatingSummary, error) {
	ratings, err := uc.feedbackRepo.UserRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(userID, ratings), nil
}

func (uc *FeedbackUseCase) ListingRating(ctx context.Context, listingID string) (*entity.RatingSummary, error) {
	ratings, err := uc.feedbackRepo.ListingRatings(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return summarize(listingID, ratings), nil
}

func summarize(subjectID string, ratings []int) *entity.RatingSummary {
	summary := &entity.RatingSummary{SubjectID: subjectID, Count: len(ratings)}
	if len(ratings) == 0 {
		return summary
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	summary.Average = float64(sum) / float64(len(ratings))
	return summary
}
