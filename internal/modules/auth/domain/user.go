package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents an account in the network. Follower/following/post counts
// are denormalized and maintained transactionally by the modules that change
// them.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Username       string    `json:"username" db:"username"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Bio            *string   `json:"bio" db:"bio"`
	AvatarURL      *string   `json:"avatar_url" db:"avatar_url"`
	CoverURL       *string   `json:"cover_url" db:"cover_url"`
	FollowersCount int       `json:"followers_count" db:"followers_count"`
	FollowingCount int       `json:"following_count" db:"following_count"`
	PostsCount     int       `json:"posts_count" db:"posts_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, bio, avatarURL, coverURL *string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// UserFinder is the read-only slice exposed to other modules
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
