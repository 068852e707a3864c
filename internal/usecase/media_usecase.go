package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/policy"
	"roostermarket/internal/domain/repository"
	"roostermarket/internal/domain/service"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/logger"
	"roostermarket/pkg/utils"
)

type MediaUseCase struct {
	mediaRepo     repository.MediaRepository
	listingRepo   repository.ListingRepository
	files         service.FileUploadService
	maxUploadSize int64
}

func NewMediaUseCase(
	mediaRepo repository.MediaRepository,
	listingRepo repository.ListingRepository,
	files service.FileUploadService,
	maxUploadSize int64,
) *MediaUseCase {
	return &MediaUseCase{
		mediaRepo:     mediaRepo,
		listingRepo:   listingRepo,
		files:         files,
		maxUploadSize: maxUploadSize,
	}
}

type UploadMediaInput struct {
	Data      []byte
	Caption   string
	ListingID string
}

// Upload stores the bytes, records the media and links it to the listing when
// one is given. The media type comes from the content, not the client.
func (uc *MediaUseCase) Upload(ctx context.Context, sess *entity.Session, input UploadMediaInput) (*entity.Media, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if len(input.Data) == 0 {
		return nil, errors.BadRequest("File is empty", nil)
	}
	if uc.maxUploadSize > 0 && int64(len(input.Data)) > uc.maxUploadSize {
		return nil, errors.BadRequest(fmt.Sprintf("File exceeds %d bytes", uc.maxUploadSize), nil)
	}

	mt := mimetype.Detect(input.Data)
	mediaType := mediaTypeOf(mt.String())
	if mediaType == "" {
		return nil, errors.BadRequest(fmt.Sprintf("Unsupported file type %s", mt.String()), nil)
	}

	var listing *entity.Listing
	if input.ListingID != "" {
		var err error
		if listing, err = uc.listingRepo.GetByID(ctx, input.ListingID); err != nil {
			return nil, err
		}
		if !listing.ACL.CanWrite(sess) {
			return nil, errors.Forbidden("Only the seller can add media to this listing", nil)
		}
	}

	acl, err := policy.Build(policy.KindMedia, policy.Owner(sess.UserID))
	if err != nil {
		return nil, errors.Internal("Failed to build media permissions", err)
	}

	uploaded, err := uc.files.UploadFile(ctx, bytes.NewReader(input.Data), mt.String(), "media/"+sess.UserID, true)
	if err != nil {
		return nil, errors.Internal("Failed to upload file", err)
	}

	media := &entity.Media{
		URL:         uploaded.URL,
		ObjectName:  uploaded.ObjectName,
		OwnerID:     sess.UserID,
		ListingID:   input.ListingID,
		Caption:     strings.TrimSpace(input.Caption),
		MediaType:   mediaType,
		ContentType: mt.String(),
		Size:        int64(len(input.Data)),
		ACL:         acl,
		CreatedAt:   now(),
	}
	if err := uc.mediaRepo.Create(ctx, media); err != nil {
		if derr := uc.files.DeleteFile(ctx, uploaded.ObjectName); derr != nil {
			logger.Error("Failed to remove orphaned upload %s: %v", uploaded.ObjectName, derr)
		}
		return nil, err
	}

	if listing != nil {
		if err := uc.listingRepo.AddImage(ctx, listing.ID, media.ID); err != nil {
			logger.Warn("Media %s stored but not linked to listing %s: %v", media.ID, listing.ID, err)
			return media, err
		}
	}
	return media, nil
}

func mediaTypeOf(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return entity.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return entity.MediaTypeVideo
	}
	return ""
}

func (uc *MediaUseCase) GetMedia(ctx context.Context, sess *entity.Session, id string) (*entity.Media, error) {
	media, err := uc.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !media.ACL.CanRead(sess) {
		return nil, errors.Forbidden("You cannot view this media", nil)
	}
	return media, nil
}

// ListForListing returns the listing's media visible to the caller.
func (uc *MediaUseCase) ListForListing(ctx context.Context, sess *entity.Session, listingID string) ([]*entity.Media, error) {
	items, err := uc.mediaRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	visible := make([]*entity.Media, 0, len(items))
	for _, m := range items {
		if m.ACL.CanRead(sess) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

func (uc *MediaUseCase) ListMine(ctx context.Context, sess *entity.Session, p utils.PaginationParams) ([]*entity.Media, int64, error) {
	if !sess.IsAuthenticated() {
		return nil, 0, errors.Unauthorized("Authentication required", nil)
	}
	return uc.mediaRepo.ListByOwner(ctx, sess.UserID, p.PageSize, p.Offset)
}

// DeleteMedia unlinks the media from its listing, removes the blob and the record.
func (uc *MediaUseCase) DeleteMedia(ctx context.Context, sess *entity.Session, id string) error {
	if !sess.IsAuthenticated() {
		return errors.Unauthorized("Authentication required", nil)
	}
	media, err := uc.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !media.ACL.CanWrite(sess) {
		return errors.Forbidden("Only the owner can delete this media", nil)
	}

	if media.ListingID != "" {
		if err := uc.listingRepo.RemoveImage(ctx, media.ListingID, media.ID); err != nil && !errors.IsNotFound(err) {
			return err
		}
	}
	if media.ObjectName != "" {
		if err := uc.files.DeleteFile(ctx, media.ObjectName); err != nil {
			logger.Warn("Failed to delete file %s: %v", media.ObjectName, err)
		}
	}
	return uc.mediaRepo.Delete(ctx, media.ID)
}
