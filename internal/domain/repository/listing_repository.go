package repository

import (
	"context"

	"roostermarket/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// List returns listings newest first; an empty sellerID lists every seller.
	List(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, listingID, mediaID string) error
	RemoveImage(ctx context.Context, listingID, mediaID string) error
}
