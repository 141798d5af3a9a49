package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/minhquang4309/social-be/internal/modules/notification/domain"
)

// Presence answers whether a recipient currently has a live connection
type Presence interface {
	IsPresent(userID uuid.UUID) bool
}

// Pusher delivers an event to all of a user's live connections, best-effort
type Pusher interface {
	EmitToUser(userID uuid.UUID, event string, payload interface{})
}

// Event names pushed by the dispatcher. They mirror the gateway's constants
// but are owned here so the service has no dependency on the transport.
const (
	eventNewNotification = "new-notification"
	eventUnreadCount     = "unread-count"
)

// NotificationService is the decision engine for social-action events: it
// suppresses self-actions and recent duplicates, persists the rest, and
// pushes to recipients that are currently present. It also backs the
// client-initiated sync protocol and the REST notification surface.
type NotificationService struct {
	repo     domain.NotificationRepository
	presence Presence
	pusher   Pusher

	dedupeWindow time.Duration
	pageSize     int

	log *logrus.Entry
}

// NewNotificationService creates the dispatcher. dedupeWindow bounds the
// duplicate-suppression lookback; pageSize is the default backlog page size.
func NewNotificationService(repo domain.NotificationRepository, presence Presence, pusher Pusher, dedupeWindow time.Duration, pageSize int) *NotificationService {
	if dedupeWindow <= 0 {
		dedupeWindow = 24 * time.Hour
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &NotificationService{
		repo:         repo,
		presence:     presence,
		pusher:       pusher,
		dedupeWindow: dedupeWindow,
		pageSize:     pageSize,
		log:          logrus.WithField("module", "notification"),
	}
}

// Dispatch runs the state machine for one social-action event.
//
// Suppressed outcomes are not errors: a self-action returns (nil, nil) and a
// recent duplicate returns the existing record. A persistence failure aborts
// the flow and propagates. Pushes after a successful persist are best-effort;
// an absent recipient simply finds the notification on its next sync.
func (s *NotificationService) Dispatch(ctx context.Context, ev domain.Event) (*domain.Notification, error) {
	if !ev.Kind.Valid() {
		return nil, domain.ErrInvalidKind
	}

	// You cannot notify yourself.
	if ev.RecipientID == ev.ActorID {
		return nil, nil
	}

	duplicate, err := s.repo.FindRecentDuplicate(ctx, ev, s.dedupeWindow)
	if err != nil {
		return nil, err
	}
	if duplicate != nil {
		return duplicate, nil
	}

	n := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: ev.RecipientID,
		ActorID:     ev.ActorID,
		Kind:        ev.Kind,
		SubjectID:   ev.SubjectID,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.presence.IsPresent(ev.RecipientID) {
		s.pusher.EmitToUser(ev.RecipientID, eventNewNotification, n)

		// Recomputed from the store, never incremented in memory.
		count, err := s.repo.UnreadCount(ctx, ev.RecipientID)
		if err != nil {
			s.log.WithError(err).WithField("recipient_id", ev.RecipientID).
				Warn("unread count after push failed")
		} else {
			s.pusher.EmitToUser(ev.RecipientID, eventUnreadCount, map[string]int{"count": count})
		}
	}

	return n, nil
}

// DispatchAsync detaches dispatch from the producer's critical path. The
// producing action (like, follow, ...) has already committed; notification
// delivery must never fail it, so errors are logged and swallowed here.
func (s *NotificationService) DispatchAsync(ev domain.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if _, err := s.Dispatch(ctx, ev); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"recipient_id": ev.RecipientID,
				"actor_id":     ev.ActorID,
				"kind":         ev.Kind,
			}).Error("notification dispatch failed")
		}
	}()
}

// Backlog returns one page of the recipient's notification history. A zero
// limit falls back to the configured default.
func (s *NotificationService) Backlog(ctx context.Context, recipientID uuid.UUID, cursor *time.Time, limit int) (domain.Page, error) {
	if limit <= 0 || limit > 100 {
		limit = s.pageSize
	}
	return s.repo.ListPage(ctx, recipientID, cursor, limit)
}

// MarkRead flips one notification to read. Zero affected rows means the
// notification does not exist, was already read, or belongs to someone else;
// none of those is an error.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, recipientID uuid.UUID) (int64, error) {
	return s.repo.MarkRead(ctx, notificationID, recipientID)
}

// MarkAllRead flips every unread notification of the recipient
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

// UnreadCount recomputes the recipient's unread counter from the store
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}
