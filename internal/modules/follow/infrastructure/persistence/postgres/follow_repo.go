package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/minhquang4309/social-be/internal/modules/follow/domain"
)

type PgFollowRepository struct {
	db *sqlx.DB
}

func NewPgFollowRepository(db *sqlx.DB) *PgFollowRepository {
	return &PgFollowRepository{db: db}
}

func (r *PgFollowRepository) Create(ctx context.Context, followerID, followingID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES ($1, $2, $3)`,
		followerID, followingID, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyFollowing
		}
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET following_count = following_count + 1 WHERE id = $1`, followerID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET followers_count = followers_count + 1 WHERE id = $1`, followingID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PgFollowRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFollowing
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET following_count = following_count - 1 WHERE id = $1 AND following_count > 0`, followerID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET followers_count = followers_count - 1 WHERE id = $1 AND followers_count > 0`, followingID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PgFollowRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID)
	return exists, err
}
