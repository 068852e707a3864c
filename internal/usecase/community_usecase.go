package usecase

import (
	"context"
	"strings"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/policy"
	"roostermarket/internal/domain/repository"
	"roostermarket/internal/infrastructure/ratelimit"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/utils"
)

const (
	FeedPageSize     = 10
	FeaturedPosts    = 5
	CommentsPageSize = 10
)

type CommunityUseCase struct {
	postRepo repository.PostRepository
	limiter  RateLimiter
}

func NewCommunityUseCase(postRepo repository.PostRepository, limiter RateLimiter) *CommunityUseCase {
	return &CommunityUseCase{
		postRepo: postRepo,
		limiter:  limiter,
	}
}

type CreatePostInput struct {
	Title    string
	Content  string
	Tags     []string
	MediaIDs []string
}

func (uc *CommunityUseCase) CreatePost(ctx context.Context, sess *entity.Session, input CreatePostInput) (*entity.Post, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.BadRequest("Content is required", nil)
	}

	acl, err := policy.Build(policy.KindPost, policy.Owner(sess.UserID))
	if err != nil {
		return nil, errors.Internal("Failed to build post permissions", err)
	}

	ts := now()
	post := &entity.Post{
		AuthorID:  sess.UserID,
		Title:     strings.TrimSpace(input.Title),
		Content:   strings.TrimSpace(input.Content),
		Tags:      normalizeTags(input.Tags),
		MediaIDs:  append([]string{}, input.MediaIDs...),
		ACL:       acl,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := uc.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(t, "#")))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (uc *CommunityUseCase) GetPost(ctx context.Context, sess *entity.Session, id string) (*entity.Post, error) {
	post, err := uc.postRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.ACL.CanRead(sess) {
		return nil, errors.Forbidden("You cannot view this post", nil)
	}
	return post, nil
}

// Feed returns a page of posts, newest first.
func (uc *CommunityUseCase) Feed(ctx context.Context, page int) ([]*entity.Post, error) {
	p := utils.NewPaginationParams(page, FeedPageSize)
	return uc.postRepo.ListPosts(ctx, false, p.PageSize, p.Offset)
}

func (uc *CommunityUseCase) Featured(ctx context.Context) ([]*entity.Post, error) {
	return uc.postRepo.ListPosts(ctx, true, FeaturedPosts, 0)
}

func (uc *CommunityUseCase) AddComment(ctx context.Context, sess *entity.Session, postID, content string) (*entity.Comment, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("Comment cannot be empty", nil)
	}
	if _, err := uc.GetPost(ctx, sess, postID); err != nil {
		return nil, err
	}

	acl, err := policy.Build(policy.KindComment, policy.Owner(sess.UserID))
	if err != nil {
		return nil, errors.Internal("Failed to build comment permissions", err)
	}

	comment := &entity.Comment{
		PostID:    postID,
		AuthorID:  sess.UserID,
		Content:   content,
		ACL:       acl,
		CreatedAt: now(),
	}
	if err := uc.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *CommunityUseCase) ListComments(ctx context.Context, postID string, page int) ([]*entity.Comment, error) {
	p := utils.NewPaginationParams(page, CommentsPageSize)
	return uc.postRepo.ListComments(ctx, postID, p.PageSize, p.Offset)
}

// ToggleLike likes or unlikes the post for the caller and returns the new state.
func (uc *CommunityUseCase) ToggleLike(ctx context.Context, sess *entity.Session, postID string) (*entity.Post, bool, error) {
	if !sess.IsAuthenticated() {
		return nil, false, errors.Unauthorized("Authentication required", nil)
	}
	if ok, _ := uc.limiter.Allow(sess.UserID, ratelimit.ActionToggleLike); !ok {
		return nil, false, errors.TooManyRequests("Slow down")
	}
	return uc.postRepo.ToggleLike(ctx, postID, sess.UserID)
}
