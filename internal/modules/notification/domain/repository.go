package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationRepository is the store adapter contract owned by the core.
// The backing store is relational but callers only see this interface.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error

	// FindRecentDuplicate returns the newest notification matching the full
	// (recipient, actor, kind, subject) tuple created within the window, or
	// nil when none exists.
	FindRecentDuplicate(ctx context.Context, ev Event, window time.Duration) (*Notification, error)

	// ListPage returns notifications for a recipient in ascending created_at
	// order, strictly after the cursor when one is given.
	ListPage(ctx context.Context, recipientID uuid.UUID, cursor *time.Time, limit int) (Page, error)

	// MarkRead flips is_read for a single notification and returns the number
	// of rows affected. The update predicate includes the recipient, so a
	// mismatched recipient affects zero rows.
	MarkRead(ctx context.Context, notificationID, recipientID uuid.UUID) (int64, error)

	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)

	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error)
}
