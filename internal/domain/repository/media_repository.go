package repository

import (
	"context"

	"roostermarket/internal/domain/entity"
)

type MediaRepository interface {
	Create(ctx context.Context, media *entity.Media) error
	GetByID(ctx context.Context, id string) (*entity.Media, error)
	ListByListing(ctx context.Context, listingID string) ([]*entity.Media, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Media, int64, error)
	Delete(ctx context.Context, id string) error
}
