package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Post is a top-level post or, when ParentID is set, a reply to one.
// Engagement counts are denormalized and maintained transactionally.
type Post struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AuthorID    uuid.UUID  `json:"author_id" db:"author_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	Content     string     `json:"content" db:"content"`
	MediaURL    *string    `json:"media_url" db:"media_url"`
	LikeCount   int        `json:"like_count" db:"like_count"`
	RepostCount int        `json:"repost_count" db:"repost_count"`
	ReplyCount  int        `json:"reply_count" db:"reply_count"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Page is one cursor slice of a post listing, newest first
type Page struct {
	Items      []Post     `json:"items"`
	NextCursor *time.Time `json:"nextCursor"`
	HasMore    bool       `json:"hasMore"`
}

type PostRepository interface {
	// Create inserts the post and bumps the author's post count; for a reply
	// it also bumps the parent's reply count, in the same transaction.
	Create(ctx context.Context, post *Post) error

	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// Delete removes a post only when authorID owns it
	Delete(ctx context.Context, id, authorID uuid.UUID) error

	ListReplies(ctx context.Context, parentID uuid.UUID, cursor *time.Time, limit int) (Page, error)

	// Feed lists posts authored by the user or anyone the user follows,
	// newest first.
	Feed(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int) (Page, error)
}

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrNotPostOwner   = errors.New("post belongs to another user")
	ErrEmptyContent   = errors.New("post content is required")
	ErrContentTooLong = errors.New("post content exceeds maximum length")
)
