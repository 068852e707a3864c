package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = r.client.Collection(listingsCollection).NewDoc().ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	if _, err := r.client.Collection(listingsCollection).Doc(listing.ID).Set(ctx, listing); err != nil {
		return errors.Internal("Failed to create listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return getDoc[entity.Listing](ctx, r.client.Collection(listingsCollection).Doc(id), "Listing")
}

func (r *firestoreListingRepository) List(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection(listingsCollection).Query
	if sellerID != "" {
		query = query.Where("sellerId", "==", sellerID)
	}

	total, err := count(ctx, query, "listings")
	if err != nil {
		return nil, 0, err
	}

	query = paginate(query.OrderBy("createdAt", firestore.Desc), limit, offset)
	listings, err := collect[entity.Listing](query.Documents(ctx), "listings")
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()
	if _, err := r.client.Collection(listingsCollection).Doc(listing.ID).Set(ctx, listing); err != nil {
		return errors.Internal("Failed to update listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(listingsCollection).Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) AddImage(ctx context.Context, listingID, mediaID string) error {
	return r.updateImages(ctx, listingID, firestore.ArrayUnion(mediaID))
}

func (r *firestoreListingRepository) RemoveImage(ctx context.Context, listingID, mediaID string) error {
	return r.updateImages(ctx, listingID, firestore.ArrayRemove(mediaID))
}

func (r *firestoreListingRepository) updateImages(ctx context.Context, listingID string, op interface{}) error {
	_, err := r.client.Collection(listingsCollection).Doc(listingID).Update(ctx, []firestore.Update{
		{Path: "imageIds", Value: op},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing images", err)
	}
	return nil
}
