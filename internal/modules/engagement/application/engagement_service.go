package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/minhquang4309/social-be/internal/modules/engagement/domain"
	notifdomain "github.com/minhquang4309/social-be/internal/modules/notification/domain"
	postdomain "github.com/minhquang4309/social-be/internal/modules/post/domain"
)

// Notifier hands a social-action event to the notification dispatcher
// without blocking the producing request.
type Notifier interface {
	DispatchAsync(ev notifdomain.Event)
}

// EngagementService provides like, repost and bookmark operations. Likes
// and reposts notify the post's author after the write commits; bookmarks
// are private and never notify.
type EngagementService struct {
	repo     domain.EngagementRepository
	notifier Notifier
	pageSize int

	log *logrus.Entry
}

func NewEngagementService(repo domain.EngagementRepository, notifier Notifier, pageSize int) *EngagementService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &EngagementService{
		repo:     repo,
		notifier: notifier,
		pageSize: pageSize,
		log:      logrus.WithField("module", "engagement"),
	}
}

// Like records a like and notifies the post's author
func (s *EngagementService) Like(ctx context.Context, userID, postID uuid.UUID) error {
	authorID, err := s.repo.AddLike(ctx, userID, postID)
	if err != nil {
		return err
	}

	s.notifier.DispatchAsync(notifdomain.Event{
		RecipientID: authorID,
		ActorID:     userID,
		Kind:        notifdomain.KindLike,
		SubjectID:   &postID,
	})
	return nil
}

// Unlike removes a like. No notification is retracted; the record of the
// original like simply ages out of relevance.
func (s *EngagementService) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	return s.repo.RemoveLike(ctx, userID, postID)
}

// Repost records a repost and notifies the post's author
func (s *EngagementService) Repost(ctx context.Context, userID, postID uuid.UUID) error {
	authorID, err := s.repo.AddRepost(ctx, userID, postID)
	if err != nil {
		return err
	}

	s.notifier.DispatchAsync(notifdomain.Event{
		RecipientID: authorID,
		ActorID:     userID,
		Kind:        notifdomain.KindRepost,
		SubjectID:   &postID,
	})
	return nil
}

// Unrepost removes a repost
func (s *EngagementService) Unrepost(ctx context.Context, userID, postID uuid.UUID) error {
	return s.repo.RemoveRepost(ctx, userID, postID)
}

// Bookmark saves a post privately
func (s *EngagementService) Bookmark(ctx context.Context, userID, postID uuid.UUID) error {
	return s.repo.AddBookmark(ctx, userID, postID)
}

// Unbookmark removes a saved post
func (s *EngagementService) Unbookmark(ctx context.Context, userID, postID uuid.UUID) error {
	return s.repo.RemoveBookmark(ctx, userID, postID)
}

// ListBookmarks pages through the caller's saved posts, newest save first
func (s *EngagementService) ListBookmarks(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int) (postdomain.Page, error) {
	if limit <= 0 || limit > 100 {
		limit = s.pageSize
	}
	return s.repo.ListBookmarks(ctx, userID, cursor, limit)
}
