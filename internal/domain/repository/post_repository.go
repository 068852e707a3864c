package repository

import (
	"context"

	"roostermarket/internal/domain/entity"
)

type PostRepository interface {
	CreatePost(ctx context.Context, post *entity.Post) error
	GetPost(ctx context.Context, id string) (*entity.Post, error)
	ListPosts(ctx context.Context, featuredOnly bool, limit, offset int) ([]*entity.Post, error)
	// CreateComment stores the comment and bumps the post's comment counter atomically.
	CreateComment(ctx context.Context, comment *entity.Comment) error
	ListComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error)
	// ToggleLike flips userID's like on the post and reports whether it is now liked.
	ToggleLike(ctx context.Context, postID, userID string) (*entity.Post, bool, error)
}
