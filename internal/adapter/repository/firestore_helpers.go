package repository

import (
	"context"
	stderrors "errors"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roostermarket/pkg/errors"
)

const (
	usersCollection           = "users"
	rolesCollection           = "roles"
	listingsCollection        = "listings"
	ordersCollection          = "orders"
	feedbackCollection        = "feedback"
	productFeedbackCollection = "productFeedback"
	mediaCollection           = "media"
	postsCollection           = "posts"
	commentsCollection        = "comments"
	likesCollection           = "likes"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef, resource string) (*T, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound(resource, err)
		}
		return nil, errors.Internal("Failed to get "+resource, err)
	}

	var item T
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse "+resource+" data", err)
	}
	return &item, nil
}

func collect[T any](iter *firestore.DocumentIterator, resource string) ([]*T, error) {
	defer iter.Stop()

	items := []*T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate "+resource, err)
		}
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse "+resource+" data", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

// first returns the first match of q, or NotFound.
func first[T any](ctx context.Context, q firestore.Query, resource string) (*T, error) {
	items, err := collect[T](q.Limit(1).Documents(ctx), resource)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NotFound(resource, nil)
	}
	return items[0], nil
}

func exists(ctx context.Context, q firestore.Query, resource string) (bool, error) {
	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, errors.Internal("Failed to query "+resource, err)
	}
	return true, nil
}

// count runs a server-side count aggregation instead of reading every document.
func count(ctx context.Context, q firestore.Query, resource string) (int64, error) {
	result, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to count "+resource, err)
	}
	v, ok := result["total"].(*firestorepb.Value)
	if !ok {
		return 0, errors.Internal("Unexpected count result for "+resource, nil)
	}
	return v.GetIntegerValue(), nil
}

func paginate(q firestore.Query, limit, offset int) firestore.Query {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func asAppError(err error, target **errors.AppError) bool {
	return stderrors.As(err, target)
}
