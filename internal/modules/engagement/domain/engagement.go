package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	postdomain "github.com/minhquang4309/social-be/internal/modules/post/domain"
)

// Bookmark is a private save; unlike likes and reposts it has no counter
// on the post and never notifies anyone.
type Bookmark struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EngagementRepository persists likes, reposts and bookmarks. The add
// operations return the post's author so the caller can notify them; the
// counter updates happen in the same transaction as the row insert.
type EngagementRepository interface {
	AddLike(ctx context.Context, userID, postID uuid.UUID) (authorID uuid.UUID, err error)
	RemoveLike(ctx context.Context, userID, postID uuid.UUID) error

	AddRepost(ctx context.Context, userID, postID uuid.UUID) (authorID uuid.UUID, err error)
	RemoveRepost(ctx context.Context, userID, postID uuid.UUID) error

	AddBookmark(ctx context.Context, userID, postID uuid.UUID) error
	RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) error
	ListBookmarks(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int) (postdomain.Page, error)
}

var (
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")
	ErrAlreadyReposted = errors.New("post already reposted")
	ErrNotReposted     = errors.New("post not reposted")
	ErrAlreadySaved    = errors.New("post already bookmarked")
	ErrNotSaved        = errors.New("post not bookmarked")
)
