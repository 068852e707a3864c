package entity

import (
	"time"
)

type Post struct {
	ID            string   `json:"id" firestore:"id"`
	AuthorID      string   `json:"author_id" firestore:"authorId"`
	Title         string   `json:"title,omitempty" firestore:"title"`
	Content       string   `json:"content" firestore:"content"`
	MediaIDs      []string `json:"media_ids" firestore:"mediaIds"`
	Tags          []string `json:"tags" firestore:"tags"`
	LikesCount    int      `json:"likes_count" firestore:"likesCount"`
	CommentsCount int      `json:"comments_count" firestore:"commentsCount"`
	IsFeatured    bool     `json:"is_featured" firestore:"isFeatured"`
	ACL           ACL      `json:"-" firestore:"acl"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

type Comment struct {
	ID         string `json:"id" firestore:"id"`
	PostID     string `json:"post_id" firestore:"postId"`
	AuthorID   string `json:"author_id" firestore:"authorId"`
	Content    string `json:"content" firestore:"content"`
	LikesCount int    `json:"likes_count" firestore:"likesCount"`
	ACL        ACL    `json:"-" firestore:"acl"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// PostLike marks that a user liked a post; stored under posts/{id}/likes/{userId}.
type PostLike struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
