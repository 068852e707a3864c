package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roostermarket/internal/domain/entity"
	"roostermarket/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestGetProfile_PublicRead(t *testing.T) {
	alice := newUser("alice", entity.RoleFarmer)
	uc := NewUserUseCase(newFakeUserRepo(alice), newFakeMediaRepo())

	user, err := uc.GetProfile(context.Background(), nil, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = uc.GetProfile(context.Background(), nil, "nobody")
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateProfile(t *testing.T) {
	alice := newUser("alice", entity.RoleFarmer)
	bob := newUser("bob", entity.RoleGeneralUser)
	uc := NewUserUseCase(newFakeUserRepo(alice, bob), newFakeMediaRepo())
	ctx := context.Background()

	t.Run("requires session", func(t *testing.T) {
		_, err := uc.UpdateProfile(ctx, nil, UpdateProfileInput{Bio: strPtr("hi")})
		assert.True(t, errors.Is(err, "UNAUTHORIZED"))
	})

	t.Run("updates bio and username", func(t *testing.T) {
		user, err := uc.UpdateProfile(ctx, sessionFor(alice), UpdateProfileInput{
			Username: strPtr(" alice_farm "),
			Bio:      strPtr("Free-range roosters"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice_farm", user.Username)
		assert.Equal(t, "Free-range roosters", user.Bio)
	})

	t.Run("rejects taken username", func(t *testing.T) {
		_, err := uc.UpdateProfile(ctx, sessionFor(alice), UpdateProfileInput{Username: strPtr("bob")})
		assert.True(t, errors.Is(err, "CONFLICT"))
	})

	t.Run("rejects blank username", func(t *testing.T) {
		_, err := uc.UpdateProfile(ctx, sessionFor(alice), UpdateProfileInput{Username: strPtr("  ")})
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	})
}

func TestSetProfileImage(t *testing.T) {
	alice := newUser("alice", entity.RoleFarmer)
	bob := newUser("bob", entity.RoleGeneralUser)
	media := newFakeMediaRepo()
	media.media["img"] = &entity.Media{ID: "img", OwnerID: "alice", MediaType: entity.MediaTypeImage}
	media.media["vid"] = &entity.Media{ID: "vid", OwnerID: "alice", MediaType: entity.MediaTypeVideo}
	uc := NewUserUseCase(newFakeUserRepo(alice, bob), media)
	ctx := context.Background()

	user, err := uc.SetProfileImage(ctx, sessionFor(alice), "img")
	require.NoError(t, err)
	assert.Equal(t, "img", user.ProfileImageID)

	_, err = uc.SetProfileImage(ctx, sessionFor(alice), "vid")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.SetProfileImage(ctx, sessionFor(bob), "img")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
