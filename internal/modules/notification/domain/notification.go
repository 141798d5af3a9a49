package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NotificationKind is the closed set of social actions that can notify a user.
type NotificationKind string

const (
	KindLike    NotificationKind = "LIKE"
	KindComment NotificationKind = "COMMENT"
	KindFollow  NotificationKind = "FOLLOW"
	KindRepost  NotificationKind = "REPOST"
)

// Valid reports whether the kind belongs to the closed set.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindLike, KindComment, KindFollow, KindRepost:
		return true
	}
	return false
}

// Notification is the persisted record of a social event. Once created it is
// never mutated except for the is_read flag, which only flips false -> true.
type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	RecipientID uuid.UUID        `json:"recipientId" db:"recipient_id"`
	ActorID     uuid.UUID        `json:"actorId" db:"actor_id"`
	Kind        NotificationKind `json:"kind" db:"kind"`
	SubjectID   *uuid.UUID       `json:"subjectId,omitempty" db:"subject_id"`
	IsRead      bool             `json:"isRead" db:"is_read"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
}

// Event is a raw social action handed to the dispatcher by a producer.
// SubjectID is nil for kinds that act on a user rather than a post (FOLLOW).
type Event struct {
	RecipientID uuid.UUID
	ActorID     uuid.UUID
	Kind        NotificationKind
	SubjectID   *uuid.UUID
}

// Page is one slice of a recipient's backlog. NextCursor is the created_at
// of the last item and is only set when more items remain.
type Page struct {
	Items      []Notification `json:"items"`
	NextCursor *time.Time     `json:"nextCursor"`
	HasMore    bool           `json:"hasMore"`
}

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidKind          = errors.New("invalid notification kind")
)
