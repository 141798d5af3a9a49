package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/minhquang4309/social-be/internal/modules/post/domain"
)

type PgPostRepository struct {
	db *sqlx.DB
}

func NewPgPostRepository(db *sqlx.DB) *PgPostRepository {
	return &PgPostRepository{db: db}
}

func (r *PgPostRepository) Create(ctx context.Context, post *domain.Post) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts (id, author_id, parent_id, content, media_url, created_at)
		VALUES (:id, :author_id, :parent_id, :content, :media_url, :created_at)
	`
	if _, err := tx.NamedExecContext(ctx, query, post); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET posts_count = posts_count + 1 WHERE id = $1`, post.AuthorID); err != nil {
		return err
	}

	if post.ParentID != nil {
		result, err := tx.ExecContext(ctx,
			`UPDATE posts SET reply_count = reply_count + 1 WHERE id = $1`, *post.ParentID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrPostNotFound
		}
	}

	return tx.Commit()
}

func (r *PgPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post := &domain.Post{}
	err := r.db.GetContext(ctx, post, `SELECT * FROM posts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PgPostRepository) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a missing post from someone else's post.
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id); err != nil {
			return err
		}
		if exists {
			return domain.ErrNotPostOwner
		}
		return domain.ErrPostNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET posts_count = posts_count - 1 WHERE id = $1 AND posts_count > 0`, authorID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PgPostRepository) ListReplies(ctx context.Context, parentID uuid.UUID, cursor *time.Time, limit int) (domain.Page, error) {
	query := `
		SELECT * FROM posts
		WHERE parent_id = $1
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	return r.page(ctx, query, parentID, cursor, limit)
}

func (r *PgPostRepository) Feed(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int) (domain.Page, error) {
	query := `
		SELECT p.* FROM posts p
		WHERE p.parent_id IS NULL
		  AND (p.author_id = $1 OR p.author_id IN (
			SELECT following_id FROM follows WHERE follower_id = $1
		  ))
		  AND ($2::timestamptz IS NULL OR p.created_at < $2)
		ORDER BY p.created_at DESC
		LIMIT $3
	`
	return r.page(ctx, query, userID, cursor, limit)
}

// page runs a newest-first cursor query fetching one extra row to probe for
// a further page.
func (r *PgPostRepository) page(ctx context.Context, query string, anchor uuid.UUID, cursor *time.Time, limit int) (domain.Page, error) {
	items := []domain.Post{}
	if err := r.db.SelectContext(ctx, &items, query, anchor, cursor, limit+1); err != nil {
		return domain.Page{}, err
	}

	page := domain.Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1].CreatedAt
		page.NextCursor = &last
	}
	return page, nil
}
