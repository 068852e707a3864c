package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roostermarket/internal/domain/entity"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/utils"
)

type feedbackFixture struct {
	uc       *FeedbackUseCase
	orders   *fakeOrderRepo
	feedback *fakeFeedbackRepo
	seller   *entity.User
	buyer    *entity.User
	other    *entity.User
}

func newFeedbackFixture() *feedbackFixture {
	seller := newUser("seller", entity.RoleFarmer)
	buyer := newUser("buyer", entity.RoleGeneralUser)
	other := newUser("other", entity.RoleEnthusiast)

	listings := newFakeListingRepo()
	listings.listings["l1"] = &entity.Listing{ID: "l1", SellerID: seller.ID, Price: 5}

	orders := newFakeOrderRepo()
	feedback := newFakeFeedbackRepo()
	return &feedbackFixture{
		uc:       NewFeedbackUseCase(feedback, orders, newFakeUserRepo(seller, buyer, other), listings),
		orders:   orders,
		feedback: feedback,
		seller:   seller,
		buyer:    buyer,
		other:    other,
	}
}

func (f *feedbackFixture) addOrder(id, buyer, seller, status string) {
	f.orders.orders[id] = &entity.Order{ID: id, BuyerID: buyer, SellerID: seller, ListingID: "l1", Status: status}
}

func TestSubmitUserFeedback_RatingRange(t *testing.T) {
	f := newFeedbackFixture()
	f.addOrder("o1", f.buyer.ID, f.seller.ID, entity.OrderStatusCompleted)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.uc.SubmitUserFeedback(context.Background(), sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: rating})
		assert.True(t, errors.Is(err, "BAD_REQUEST"), "rating %d", rating)
	}
	assert.Empty(t, f.feedback.user)
}

func TestSubmitUserFeedback_RequiresCompletedOrder(t *testing.T) {
	f := newFeedbackFixture()
	f.addOrder("o1", f.buyer.ID, f.seller.ID, entity.OrderStatusDelivered)

	_, err := f.uc.SubmitUserFeedback(context.Background(), sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 5})
	assert.True(t, errors.Is(err, "NOT_ELIGIBLE"))
}

func TestSubmitUserFeedback_EitherDirection(t *testing.T) {
	f := newFeedbackFixture()
	f.addOrder("o1", f.buyer.ID, f.seller.ID, entity.OrderStatusCompleted)

	// the seller can rate the buyer too
	fb, err := f.uc.SubmitUserFeedback(context.Background(), sessionFor(f.seller), f.buyer.ID, FeedbackInput{Rating: 4, Comment: " good "})
	require.NoError(t, err)
	assert.Equal(t, "good", fb.Comment)
	assert.True(t, fb.ACL.CanWrite(sessionFor(f.seller)))
	assert.True(t, fb.ACL.CanRead(sessionFor(f.buyer)))
	assert.False(t, fb.ACL.CanWrite(sessionFor(f.buyer)))
}

func TestSubmitUserFeedback_Duplicate(t *testing.T) {
	f := newFeedbackFixture()
	f.addOrder("o1", f.buyer.ID, f.seller.ID, entity.OrderStatusCompleted)
	ctx := context.Background()

	_, err := f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 5, OrderID: "o1"})
	require.NoError(t, err)

	_, err = f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 3, OrderID: "o1"})
	assert.True(t, errors.Is(err, "CONFLICT"))

	// without an order the triple has an empty order id, which is a separate slot
	_, err = f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 3})
	require.NoError(t, err)
	_, err = f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 2})
	assert.True(t, errors.Is(err, "CONFLICT"))

	assert.Len(t, f.feedback.user, 2)
}

func TestSubmitUserFeedback_RelatedOrderChecks(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()
	f.addOrder("pending", f.buyer.ID, f.seller.ID, entity.OrderStatusPending)
	f.addOrder("foreign", f.other.ID, f.seller.ID, entity.OrderStatusCompleted)

	_, err := f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 5, OrderID: "pending"})
	assert.True(t, errors.Is(err, "NOT_ELIGIBLE"))

	_, err = f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 5, OrderID: "foreign"})
	assert.True(t, errors.Is(err, "NOT_ELIGIBLE"))

	_, err = f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 5, OrderID: "nope"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSubmitUserFeedback_SelfAndMissingTarget(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	_, err := f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.buyer.ID, FeedbackInput{Rating: 5})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), "ghost", FeedbackInput{Rating: 5})
	assert.True(t, errors.IsNotFound(err))
}

func TestSubmitProductFeedback_RequiresCompletedOrder(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	_, err := f.uc.SubmitProductFeedback(ctx, sessionFor(f.buyer), "l1", FeedbackInput{Rating: 4})
	assert.True(t, errors.Is(err, "NOT_ELIGIBLE"))

	f.addOrder("o1", f.buyer.ID, f.seller.ID, entity.OrderStatusCompleted)
	fb, err := f.uc.SubmitProductFeedback(ctx, sessionFor(f.buyer), "l1", FeedbackInput{Rating: 4})
	require.NoError(t, err)
	assert.True(t, fb.ACL.CanRead(sessionFor(f.seller)))

	_, err = f.uc.SubmitProductFeedback(ctx, sessionFor(f.buyer), "l1", FeedbackInput{Rating: 1})
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestRatings(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	empty, err := f.uc.UserRating(ctx, f.seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.Equal(t, 0.0, empty.Average)

	f.addOrder("o1", f.buyer.ID, f.seller.ID, entity.OrderStatusCompleted)
	f.addOrder("o2", f.other.ID, f.seller.ID, entity.OrderStatusCompleted)
	_, err = f.uc.SubmitUserFeedback(ctx, sessionFor(f.buyer), f.seller.ID, FeedbackInput{Rating: 5, OrderID: "o1"})
	require.NoError(t, err)
	_, err = f.uc.SubmitUserFeedback(ctx, sessionFor(f.other), f.seller.ID, FeedbackInput{Rating: 2, OrderID: "o2"})
	require.NoError(t, err)

	summary, err := f.uc.UserRating(ctx, f.seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 3.5, summary.Average, 0.0001)

	// the target and role readers see it, an anonymous caller does not
	items, _, err := f.uc.ListUserFeedback(ctx, sessionFor(f.seller), f.seller.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Len(t, items, 2)
	items, total, err := f.uc.ListUserFeedback(ctx, nil, f.seller.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestListFeedback_TotalExcludesHiddenEntries(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	f.feedback.user["open"] = &entity.Feedback{ID: "open", ToUserID: f.seller.ID, Rating: 4, ACL: entity.ACL{PublicRead: true}}
	f.feedback.user["private"] = &entity.Feedback{ID: "private", ToUserID: f.seller.ID, Rating: 1, ACL: entity.ACL{Readers: []string{f.seller.ID}}}
	f.feedback.product["open"] = &entity.ProductFeedback{ID: "open", ListingID: "l1", Rating: 5, ACL: entity.ACL{PublicRead: true}}
	f.feedback.product["private"] = &entity.ProductFeedback{ID: "private", ListingID: "l1", Rating: 2, ACL: entity.ACL{Readers: []string{f.buyer.ID}}}

	items, total, err := f.uc.ListUserFeedback(ctx, sessionFor(f.other), f.seller.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)

	items, total, err = f.uc.ListUserFeedback(ctx, sessionFor(f.seller), f.seller.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), total)

	products, total, err := f.uc.ListProductFeedback(ctx, nil, "l1", utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int64(1), total)
}

func TestVisibleTotal(t *testing.T) {
	assert.Equal(t, int64(20), visibleTotal(20, 10, 10))
	assert.Equal(t, int64(17), visibleTotal(20, 10, 7))
	assert.Equal(t, int64(0), visibleTotal(3, 3, 0))
}

func TestFeedbackID_Stable(t *testing.T) {
	assert.Equal(t, feedbackID("user", "a", "b", "o"), feedbackID("user", "a", "b", "o"))
	assert.NotEqual(t, feedbackID("user", "a", "b", "o"), feedbackID("user", "a", "b", ""))
	assert.NotEqual(t, feedbackID("user", "ab", "c", ""), feedbackID("user", "a", "bc", ""))
}
