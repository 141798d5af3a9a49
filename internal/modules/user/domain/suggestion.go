package domain

import (
	"context"

	"github.com/google/uuid"
)

// Suggestion is a candidate account for the caller to follow
type Suggestion struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Bio            *string   `json:"bio" db:"bio"`
	AvatarURL      *string   `json:"avatar_url" db:"avatar_url"`
	FollowersCount int       `json:"followers_count" db:"followers_count"`
}

// SuggestionRepository surfaces accounts the user does not follow yet,
// most-followed first.
type SuggestionRepository interface {
	SuggestForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Suggestion, error)
}
