package usecase

import (
	"context"
	"strings"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
)

type UserUseCase struct {
	userRepo  repository.UserRepository
	mediaRepo repository.MediaRepository
}

func NewUserUseCase(userRepo repository.UserRepository, mediaRepo repository.MediaRepository) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		mediaRepo: mediaRepo,
	}
}

type UpdateProfileInput struct {
	Username *string
	Bio      *string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, sess *entity.Session, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.ACL.CanRead(sess) {
		return nil, errors.Forbidden("You cannot view this profile", nil)
	}
	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, sess *entity.Session, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.writableSelf(ctx, sess)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, errors.BadRequest("Username cannot be empty", nil)
		}
		if username != user.Username {
			existing, err := uc.userRepo.GetByUsername(ctx, username)
			if err == nil && existing.ID != user.ID {
				return nil, errors.Conflict("Username already taken")
			}
			if err != nil && !errors.IsNotFound(err) {
				return nil, err
			}
			user.Username = username
		}
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}

	user.UpdatedAt = now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetProfileImage points the caller's profile at one of their own images.
func (uc *UserUseCase) SetProfileImage(ctx context.Context, sess *entity.Session, mediaID string) (*entity.User, error) {
	user, err := uc.writableSelf(ctx, sess)
	if err != nil {
		return nil, err
	}

	media, err := uc.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media.OwnerID != user.ID {
		return nil, errors.Forbidden("You can only use your own media as profile image", nil)
	}
	if !media.IsImage() {
		return nil, errors.BadRequest("Profile image must be an image", nil)
	}

	user.ProfileImageID = media.ID
	user.UpdatedAt = now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) writableSelf(ctx context.Context, sess *entity.Session) (*entity.User, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	user, err := uc.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if !user.ACL.CanWrite(sess) {
		return nil, errors.Forbidden("You cannot modify this profile", nil)
	}
	return user, nil
}
