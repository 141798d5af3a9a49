package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	authdomain "github.com/minhquang4309/social-be/internal/modules/auth/domain"
	"github.com/minhquang4309/social-be/internal/modules/follow/domain"
	notifdomain "github.com/minhquang4309/social-be/internal/modules/notification/domain"
)

// Notifier hands a social-action event to the notification dispatcher
// without blocking the producing request.
type Notifier interface {
	DispatchAsync(ev notifdomain.Event)
}

// FollowService provides follow-edge operations. A new follow notifies the
// followed user; the event carries no subject because it acts on the user
// directly.
type FollowService struct {
	repo     domain.FollowRepository
	users    authdomain.UserFinder
	notifier Notifier

	log *logrus.Entry
}

func NewFollowService(repo domain.FollowRepository, users authdomain.UserFinder, notifier Notifier) *FollowService {
	return &FollowService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		log:      logrus.WithField("module", "follow"),
	}
}

// Follow creates the edge follower -> following and notifies the target
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return domain.ErrSelfFollow
	}

	exists, err := s.users.Exists(ctx, followingID)
	if err != nil {
		return err
	}
	if !exists {
		return authdomain.ErrUserNotFound
	}

	if err := s.repo.Create(ctx, followerID, followingID); err != nil {
		return err
	}

	s.notifier.DispatchAsync(notifdomain.Event{
		RecipientID: followingID,
		ActorID:     followerID,
		Kind:        notifdomain.KindFollow,
	})
	return nil
}

// Unfollow removes the edge
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return s.repo.Delete(ctx, followerID, followingID)
}

// IsFollowing reports whether the edge exists
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, followerID, followingID)
}
