package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	notifdomain "github.com/minhquang4309/social-be/internal/modules/notification/domain"
	"github.com/minhquang4309/social-be/internal/modules/post/domain"
)

const maxContentLength = 500

// Notifier hands a social-action event to the notification dispatcher
// without blocking the producing request.
type Notifier interface {
	DispatchAsync(ev notifdomain.Event)
}

type CreatePostRequest struct {
	Content  string  `json:"content"`
	MediaURL *string `json:"media_url"`
}

// PostService provides post, reply and feed operations
type PostService struct {
	repo     domain.PostRepository
	notifier Notifier
	pageSize int

	log *logrus.Entry
}

func NewPostService(repo domain.PostRepository, notifier Notifier, pageSize int) *PostService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &PostService{
		repo:     repo,
		notifier: notifier,
		pageSize: pageSize,
		log:      logrus.WithField("module", "post"),
	}
}

// CreatePost creates a top-level post
func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*domain.Post, error) {
	return s.create(ctx, authorID, nil, req)
}

// CreateReply creates a reply under parentID and notifies the parent's
// author. The notification is detached: a reply never fails because
// delivery did.
func (s *PostService) CreateReply(ctx context.Context, authorID, parentID uuid.UUID, req CreatePostRequest) (*domain.Post, error) {
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	reply, err := s.create(ctx, authorID, &parentID, req)
	if err != nil {
		return nil, err
	}

	s.notifier.DispatchAsync(notifdomain.Event{
		RecipientID: parent.AuthorID,
		ActorID:     authorID,
		Kind:        notifdomain.KindComment,
		SubjectID:   &parent.ID,
	})

	return reply, nil
}

func (s *PostService) create(ctx context.Context, authorID uuid.UUID, parentID *uuid.UUID, req CreatePostRequest) (*domain.Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}
	if len(content) > maxContentLength {
		return nil, domain.ErrContentTooLong
	}

	post := &domain.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		ParentID:  parentID,
		Content:   content,
		MediaURL:  req.MediaURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// DeletePost removes the caller's own post
func (s *PostService) DeletePost(ctx context.Context, id, authorID uuid.UUID) error {
	return s.repo.Delete(ctx, id, authorID)
}

// ListReplies pages through the replies of a post, newest first
func (s *PostService) ListReplies(ctx context.Context, parentID uuid.UUID, cursor *time.Time, limit int) (domain.Page, error) {
	if limit <= 0 || limit > 100 {
		limit = s.pageSize
	}
	if _, err := s.repo.GetByID(ctx, parentID); err != nil {
		return domain.Page{}, err
	}
	return s.repo.ListReplies(ctx, parentID, cursor, limit)
}

// Feed pages through posts by the user and everyone the user follows
func (s *PostService) Feed(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int) (domain.Page, error) {
	if limit <= 0 || limit > 100 {
		limit = s.pageSize
	}
	return s.repo.Feed(ctx, userID, cursor, limit)
}
