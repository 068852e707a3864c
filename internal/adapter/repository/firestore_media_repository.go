package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
)

type firestoreMediaRepository struct {
	client *firestore.Client
}

func NewFirestoreMediaRepository(client *firestore.Client) repository.MediaRepository {
	return &firestoreMediaRepository{
		client: client,
	}
}

func (r *firestoreMediaRepository) Create(ctx context.Context, media *entity.Media) error {
	if media.ID == "" {
		media.ID = r.client.Collection(mediaCollection).NewDoc().ID
	}
	if media.CreatedAt.IsZero() {
		media.CreatedAt = time.Now()
	}

	if _, err := r.client.Collection(mediaCollection).Doc(media.ID).Set(ctx, media); err != nil {
		return errors.Internal("Failed to create media", err)
	}
	return nil
}

func (r *firestoreMediaRepository) GetByID(ctx context.Context, id string) (*entity.Media, error) {
	return getDoc[entity.Media](ctx, r.client.Collection(mediaCollection).Doc(id), "Media")
}

func (r *firestoreMediaRepository) ListByListing(ctx context.Context, listingID string) ([]*entity.Media, error) {
	query := r.client.Collection(mediaCollection).
		Where("listingId", "==", listingID).
		OrderBy("createdAt", firestore.Asc)
	return collect[entity.Media](query.Documents(ctx), "media")
}

func (r *firestoreMediaRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Media, int64, error) {
	query := r.client.Collection(mediaCollection).Where("ownerId", "==", ownerID)

	total, err := count(ctx, query, "media")
	if err != nil {
		return nil, 0, err
	}

	query = paginate(query.OrderBy("createdAt", firestore.Desc), limit, offset)
	items, err := collect[entity.Media](query.Documents(ctx), "media")
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *firestoreMediaRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(mediaCollection).Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete media", err)
	}
	return nil
}
