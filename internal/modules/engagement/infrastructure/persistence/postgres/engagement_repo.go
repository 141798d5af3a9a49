package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/minhquang4309/social-be/internal/modules/engagement/domain"
	postdomain "github.com/minhquang4309/social-be/internal/modules/post/domain"
)

type PgEngagementRepository struct {
	db *sqlx.DB
}

func NewPgEngagementRepository(db *sqlx.DB) *PgEngagementRepository {
	return &PgEngagementRepository{db: db}
}

func (r *PgEngagementRepository) AddLike(ctx context.Context, userID, postID uuid.UUID) (uuid.UUID, error) {
	return r.add(ctx, userID, postID,
		`INSERT INTO likes (user_id, post_id, created_at) VALUES ($1, $2, $3)`,
		`UPDATE posts SET like_count = like_count + 1 WHERE id = $1`,
		domain.ErrAlreadyLiked)
}

func (r *PgEngagementRepository) RemoveLike(ctx context.Context, userID, postID uuid.UUID) error {
	return r.remove(ctx, userID, postID,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`,
		`UPDATE posts SET like_count = like_count - 1 WHERE id = $1 AND like_count > 0`,
		domain.ErrNotLiked)
}

func (r *PgEngagementRepository) AddRepost(ctx context.Context, userID, postID uuid.UUID) (uuid.UUID, error) {
	return r.add(ctx, userID, postID,
		`INSERT INTO reposts (user_id, post_id, created_at) VALUES ($1, $2, $3)`,
		`UPDATE posts SET repost_count = repost_count + 1 WHERE id = $1`,
		domain.ErrAlreadyReposted)
}

func (r *PgEngagementRepository) RemoveRepost(ctx context.Context, userID, postID uuid.UUID) error {
	return r.remove(ctx, userID, postID,
		`DELETE FROM reposts WHERE user_id = $1 AND post_id = $2`,
		`UPDATE posts SET repost_count = repost_count - 1 WHERE id = $1 AND repost_count > 0`,
		domain.ErrNotReposted)
}

func (r *PgEngagementRepository) AddBookmark(ctx context.Context, userID, postID uuid.UUID) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID); err != nil {
		return err
	}
	if !exists {
		return postdomain.ErrPostNotFound
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, post_id, created_at) VALUES ($1, $2, $3)`,
		userID, postID, time.Now().UTC())
	if isUniqueViolation(err) {
		return domain.ErrAlreadySaved
	}
	return err
}

func (r *PgEngagementRepository) RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotSaved
	}
	return nil
}

func (r *PgEngagementRepository) ListBookmarks(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int) (postdomain.Page, error) {
	query := `
		SELECT p.* FROM posts p
		JOIN bookmarks b ON b.post_id = p.id
		WHERE b.user_id = $1
		  AND ($2::timestamptz IS NULL OR b.created_at < $2)
		ORDER BY b.created_at DESC
		LIMIT $3
	`
	items := []postdomain.Post{}
	if err := r.db.SelectContext(ctx, &items, query, userID, cursor, limit+1); err != nil {
		return postdomain.Page{}, err
	}

	page := postdomain.Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1].CreatedAt
		page.NextCursor = &last
	}
	return page, nil
}

// add inserts an engagement row and bumps the post counter in one
// transaction, returning the post's author for notification.
func (r *PgEngagementRepository) add(ctx context.Context, userID, postID uuid.UUID, insertQuery, counterQuery string, dupErr error) (uuid.UUID, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	var authorID uuid.UUID
	err = tx.GetContext(ctx, &authorID, `SELECT author_id FROM posts WHERE id = $1`, postID)
	if err == sql.ErrNoRows {
		return uuid.Nil, postdomain.ErrPostNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := tx.ExecContext(ctx, insertQuery, userID, postID, time.Now().UTC()); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, dupErr
		}
		return uuid.Nil, err
	}

	if _, err := tx.ExecContext(ctx, counterQuery, postID); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return authorID, nil
}

func (r *PgEngagementRepository) remove(ctx context.Context, userID, postID uuid.UUID, deleteQuery, counterQuery string, missingErr error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, deleteQuery, userID, postID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return missingErr
	}

	if _, err := tx.ExecContext(ctx, counterQuery, postID); err != nil {
		return err
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
