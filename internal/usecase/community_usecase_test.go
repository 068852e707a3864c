package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roostermarket/internal/domain/entity"
	"roostermarket/pkg/errors"
)

func TestCreatePost(t *testing.T) {
	uc := NewCommunityUseCase(newFakePostRepo(), fakeLimiter{})
	author := newUser("author", entity.RoleEnthusiast)

	_, err := uc.CreatePost(context.Background(), sessionFor(author), CreatePostInput{Content: "  "})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	post, err := uc.CreatePost(context.Background(), sessionFor(author), CreatePostInput{
		Content: "Morning crow", Tags: []string{"#Roosters", "roosters", " ", "dawn"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"roosters", "dawn"}, post.Tags)
	assert.True(t, post.ACL.PublicRead)
	assert.True(t, post.ACL.CanWrite(sessionFor(author)))
}

func TestToggleLike_IsPerUser(t *testing.T) {
	posts := newFakePostRepo()
	uc := NewCommunityUseCase(posts, fakeLimiter{})
	ctx := context.Background()
	author := newUser("author", entity.RoleEnthusiast)
	fan := newUser("fan", entity.RoleGeneralUser)

	post, err := uc.CreatePost(ctx, sessionFor(author), CreatePostInput{Content: "hello"})
	require.NoError(t, err)

	p, liked, err := uc.ToggleLike(ctx, sessionFor(fan), post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, p.LikesCount)

	p, liked, err = uc.ToggleLike(ctx, sessionFor(fan), post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, p.LikesCount)
}

func TestToggleLike_ConcurrentUsers(t *testing.T) {
	posts := newFakePostRepo()
	uc := NewCommunityUseCase(posts, fakeLimiter{})
	ctx := context.Background()

	post, err := uc.CreatePost(ctx, sessionFor(newUser("author", entity.RoleEnthusiast)), CreatePostInput{Content: "hello"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := uc.ToggleLike(ctx, sessionFor(newUser(fmt.Sprintf("u%d", i), entity.RoleGeneralUser)), post.ID)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := uc.GetPost(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.LikesCount)
}

func TestToggleLike_RateLimited(t *testing.T) {
	uc := NewCommunityUseCase(newFakePostRepo(), fakeLimiter{deny: true})
	_, _, err := uc.ToggleLike(context.Background(), sessionFor(newUser("fan", entity.RoleGeneralUser)), "p1")
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestComments(t *testing.T) {
	posts := newFakePostRepo()
	uc := NewCommunityUseCase(posts, fakeLimiter{})
	ctx := context.Background()
	author := newUser("author", entity.RoleEnthusiast)

	post, err := uc.CreatePost(ctx, sessionFor(author), CreatePostInput{Content: "hello"})
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := uc.AddComment(ctx, sessionFor(author), post.ID, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
	}

	_, err = uc.AddComment(ctx, sessionFor(author), "missing", "hi")
	assert.True(t, errors.IsNotFound(err))

	got, err := uc.GetPost(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.CommentsCount)

	first, err := uc.ListComments(ctx, post.ID, 1)
	require.NoError(t, err)
	assert.Len(t, first, CommentsPageSize)
	second, err := uc.ListComments(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestFeedAndFeatured(t *testing.T) {
	posts := newFakePostRepo()
	uc := NewCommunityUseCase(posts, fakeLimiter{})
	ctx := context.Background()
	author := newUser("author", entity.RoleEnthusiast)

	for i := 0; i < 7; i++ {
		p, err := uc.CreatePost(ctx, sessionFor(author), CreatePostInput{Content: "post"})
		require.NoError(t, err)
		posts.posts[p.ID].IsFeatured = true
	}

	featured, err := uc.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, FeaturedPosts)

	feed, err := uc.Feed(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, feed, 7)
}
