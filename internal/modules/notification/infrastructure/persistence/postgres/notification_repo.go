package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/minhquang4309/social-be/internal/modules/notification/domain"
)

// PgNotificationRepository implements domain.NotificationRepository on
// PostgreSQL. The notifications table is append-only except for is_read.
type PgNotificationRepository struct {
	db *sqlx.DB
}

func NewPgNotificationRepository(db *sqlx.DB) *PgNotificationRepository {
	return &PgNotificationRepository{db: db}
}

func (r *PgNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, actor_id, kind, subject_id, is_read, created_at)
		VALUES (:id, :recipient_id, :actor_id, :kind, :subject_id, :is_read, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, n)
	return err
}

// FindRecentDuplicate matches on the full (recipient, actor, kind, subject)
// tuple. IS NOT DISTINCT FROM makes a nil subject match NULL rows.
func (r *PgNotificationRepository) FindRecentDuplicate(ctx context.Context, ev domain.Event, window time.Duration) (*domain.Notification, error) {
	query := `
		SELECT * FROM notifications
		WHERE recipient_id = $1
		  AND actor_id = $2
		  AND kind = $3
		  AND subject_id IS NOT DISTINCT FROM $4
		  AND created_at >= $5
		ORDER BY created_at DESC
		LIMIT 1
	`
	cutoff := time.Now().UTC().Add(-window)

	n := &domain.Notification{}
	err := r.db.GetContext(ctx, n, query, ev.RecipientID, ev.ActorID, ev.Kind, ev.SubjectID, cutoff)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListPage pages ascending by created_at with a strictly-greater-than cursor.
// New rows only ever append past the end of the scan, so an active pagination
// neither repeats nor skips items. One extra row is fetched to probe HasMore.
func (r *PgNotificationRepository) ListPage(ctx context.Context, recipientID uuid.UUID, cursor *time.Time, limit int) (domain.Page, error) {
	query := `
		SELECT * FROM notifications
		WHERE recipient_id = $1
		  AND ($2::timestamptz IS NULL OR created_at > $2)
		ORDER BY created_at ASC
		LIMIT $3
	`
	items := []domain.Notification{}
	if err := r.db.SelectContext(ctx, &items, query, recipientID, cursor, limit+1); err != nil {
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

// MarkRead only succeeds when the recipient owns the row and it is still
// unread; anything else affects zero rows. is_read never flips back.
func (r *PgNotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID uuid.UUID) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2 AND is_read = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, notificationID, recipientID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PgNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE recipient_id = $1 AND is_read = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PgNotificationRepository) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_id = $1 AND is_read = FALSE
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, recipientID)
	return count, err
}
