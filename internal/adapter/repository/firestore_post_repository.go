package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
)

type firestorePostRepository struct {
	client *firestore.Client
}

func NewFirestorePostRepository(client *firestore.Client) repository.PostRepository {
	return &firestorePostRepository{
		client: client,
	}
}

func (r *firestorePostRepository) posts() *firestore.CollectionRef {
	return r.client.Collection(postsCollection)
}

func (r *firestorePostRepository) CreatePost(ctx context.Context, post *entity.Post) error {
	if post.ID == "" {
		post.ID = r.posts().NewDoc().ID
	}
	if post.MediaIDs == nil {
		post.MediaIDs = []string{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if _, err := r.posts().Doc(post.ID).Create(ctx, post); err != nil {
		return errors.Internal("Failed to create post", err)
	}
	return nil
}

func (r *firestorePostRepository) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	return getDoc[entity.Post](ctx, r.posts().Doc(id), "Post")
}

func (r *firestorePostRepository) ListPosts(ctx context.Context, featuredOnly bool, limit, offset int) ([]*entity.Post, error) {
	query := r.posts().Query
	if featuredOnly {
		query = query.Where("isFeatured", "==", true)
	}
	query = paginate(query.OrderBy("createdAt", firestore.Desc), limit, offset)
	return collect[entity.Post](query.Documents(ctx), "posts")
}

// CreateComment writes the comment and bumps commentsCount in one transaction.
func (r *firestorePostRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	postRef := r.posts().Doc(comment.PostID)
	commentRef := postRef.Collection(commentsCollection).NewDoc()
	if comment.ID == "" {
		comment.ID = commentRef.ID
	} else {
		commentRef = postRef.Collection(commentsCollection).Doc(comment.ID)
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(postRef); err != nil {
			if isNotFound(err) {
				return errors.NotFound("Post", err)
			}
			return err
		}
		if err := tx.Create(commentRef, comment); err != nil {
			return err
		}
		return tx.Update(postRef, []firestore.Update{
			{Path: "commentsCount", Value: firestore.Increment(1)},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		var appErr *errors.AppError
		if asAppError(err, &appErr) {
			return appErr
		}
		return errors.Internal("Failed to create comment", err)
	}
	return nil
}

func (r *firestorePostRepository) ListComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error) {
	query := paginate(r.posts().Doc(postID).Collection(commentsCollection).OrderBy("createdAt", firestore.Asc), limit, offset)
	return collect[entity.Comment](query.Documents(ctx), "comments")
}

// ToggleLike keeps one like document per user under the post, so repeated taps
// flip the state instead of drifting the counter.
func (r *firestorePostRepository) ToggleLike(ctx context.Context, postID, userID string) (*entity.Post, bool, error) {
	postRef := r.posts().Doc(postID)
	likeRef := postRef.Collection(likesCollection).Doc(userID)

	var (
		post  entity.Post
		liked bool
	)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		postDoc, err := tx.Get(postRef)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Post", err)
			}
			return err
		}
		if err := postDoc.DataTo(&post); err != nil {
			return err
		}

		_, err = tx.Get(likeRef)
		switch {
		case err == nil:
			liked = false
			post.LikesCount--
			if err := tx.Delete(likeRef); err != nil {
				return err
			}
			return tx.Update(postRef, []firestore.Update{{Path: "likesCount", Value: firestore.Increment(-1)}})
		case isNotFound(err):
			liked = true
			post.LikesCount++
			if err := tx.Create(likeRef, entity.PostLike{UserID: userID, CreatedAt: time.Now()}); err != nil {
				return err
			}
			return tx.Update(postRef, []firestore.Update{{Path: "likesCount", Value: firestore.Increment(1)}})
		default:
			return err
		}
	})
	if err != nil {
		var appErr *errors.AppError
		if asAppError(err, &appErr) {
			return nil, false, appErr
		}
		return nil, false, errors.Internal("Failed to toggle like", err)
	}
	return &post, liked, nil
}
