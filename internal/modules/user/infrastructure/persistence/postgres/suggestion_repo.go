package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/minhquang4309/social-be/internal/modules/user/domain"
)

type PgSuggestionRepository struct {
	db *sqlx.DB
}

func NewPgSuggestionRepository(db *sqlx.DB) *PgSuggestionRepository {
	return &PgSuggestionRepository{db: db}
}

func (r *PgSuggestionRepository) SuggestForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Suggestion, error) {
	query := `
		SELECT u.id, u.username, u.bio, u.avatar_url, u.followers_count
		FROM users u
		WHERE u.id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM follows f
			WHERE f.follower_id = $1 AND f.following_id = u.id
		  )
		ORDER BY u.followers_count DESC, u.created_at DESC
		LIMIT $2
	`
	suggestions := []domain.Suggestion{}
	if err := r.db.SelectContext(ctx, &suggestions, query, userID, limit); err != nil {
		return nil, err
	}
	return suggestions, nil
}
