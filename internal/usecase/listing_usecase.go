package usecase

import (
	"context"
	"strings"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/policy"
	"roostermarket/internal/domain/repository"
	"roostermarket/internal/domain/service"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/logger"
	"roostermarket/pkg/utils"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	mediaRepo   repository.MediaRepository
	files       service.FileUploadService
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	mediaRepo repository.MediaRepository,
	files service.FileUploadService,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		mediaRepo:   mediaRepo,
		files:       files,
	}
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	IsTraceable bool
	TraceID     string
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *float64
	IsTraceable *bool
	TraceID     *string
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, sess *entity.Session, input CreateListingInput) (*entity.Listing, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if sess.Role != entity.RoleFarmer {
		return nil, errors.Forbidden("Only farmers can create listings", nil)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.BadRequest("Title is required", nil)
	}
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be greater than zero", nil)
	}

	acl, err := policy.Build(policy.KindListing, policy.Owner(sess.UserID))
	if err != nil {
		return nil, errors.Internal("Failed to build listing permissions", err)
	}

	ts := now()
	listing := &entity.Listing{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		SellerID:    sess.UserID,
		IsTraceable: input.IsTraceable,
		TraceID:     input.TraceID,
		ImageIDs:    []string{},
		ACL:         acl,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if !listing.IsTraceable {
		listing.TraceID = ""
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// GetListing loads a listing together with its seller.
func (uc *ListingUseCase) GetListing(ctx context.Context, sess *entity.Session, id string) (*entity.ListingView, error) {
	listing, err := uc.readable(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	view := &entity.ListingView{Listing: listing}
	seller, err := uc.userRepo.GetByID(ctx, listing.SellerID)
	if err == nil {
		view.Seller = seller
	} else if !errors.IsNotFound(err) {
		return nil, err
	}
	return view, nil
}

func (uc *ListingUseCase) ListListings(ctx context.Context, sellerID string, p utils.PaginationParams) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.List(ctx, sellerID, p.PageSize, p.Offset)
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, sess *entity.Session, id string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.writable(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, errors.BadRequest("Title is required", nil)
		}
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, errors.BadRequest("Price must be greater than zero", nil)
		}
		listing.Price = *input.Price
	}
	if input.IsTraceable != nil {
		listing.IsTraceable = *input.IsTraceable
	}
	if input.TraceID != nil {
		listing.TraceID = *input.TraceID
	}
	if !listing.IsTraceable {
		listing.TraceID = ""
	}

	listing.UpdatedAt = now()
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes the listing's media first and then the listing. Media
// failures are logged and skipped; the cascade is not transactional.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, sess *entity.Session, id string) error {
	listing, err := uc.writable(ctx, sess, id)
	if err != nil {
		return err
	}

	media, err := uc.mediaRepo.ListByListing(ctx, listing.ID)
	if err != nil {
		logger.Warn("Failed to list media of listing %s: %v", listing.ID, err)
	}
	for _, m := range media {
		if m.ObjectName != "" {
			if err := uc.files.DeleteFile(ctx, m.ObjectName); err != nil {
				logger.Warn("Failed to delete file %s of listing %s: %v", m.ObjectName, listing.ID, err)
			}
		}
		if err := uc.mediaRepo.Delete(ctx, m.ID); err != nil {
			logger.Warn("Failed to delete media %s of listing %s: %v", m.ID, listing.ID, err)
		}
	}

	return uc.listingRepo.Delete(ctx, listing.ID)
}

// AddImage attaches an already uploaded image of the seller to the listing.
func (uc *ListingUseCase) AddImage(ctx context.Context, sess *entity.Session, listingID, mediaID string) (*entity.Listing, error) {
	listing, err := uc.writable(ctx, sess, listingID)
	if err != nil {
		return nil, err
	}

	media, err := uc.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media.OwnerID != sess.UserID {
		return nil, errors.Forbidden("You can only attach your own media", nil)
	}

	if err := uc.listingRepo.AddImage(ctx, listing.ID, media.ID); err != nil {
		return nil, err
	}
	for _, existing := range listing.ImageIDs {
		if existing == media.ID {
			return listing, nil
		}
	}
	listing.ImageIDs = append(listing.ImageIDs, media.ID)
	return listing, nil
}

func (uc *ListingUseCase) readable(ctx context.Context, sess *entity.Session, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.ACL.CanRead(sess) {
		return nil, errors.Forbidden("You cannot view this listing", nil)
	}
	return listing, nil
}

func (uc *ListingUseCase) writable(ctx context.Context, sess *entity.Session, id string) (*entity.Listing, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.ACL.CanWrite(sess) {
		return nil, errors.Forbidden("Only the seller can modify this listing", nil)
	}
	return listing, nil
}
