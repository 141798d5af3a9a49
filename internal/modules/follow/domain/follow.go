package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: follower watches following.
type Follow struct {
	FollowerID  uuid.UUID `json:"follower_id" db:"follower_id"`
	FollowingID uuid.UUID `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FollowRepository persists follow edges and keeps both users'
// follower/following counters in step with the edge, transactionally.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID uuid.UUID) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
}

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)
