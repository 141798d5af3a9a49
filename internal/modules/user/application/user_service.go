package application

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	authdomain "github.com/minhquang4309/social-be/internal/modules/auth/domain"
	fileapp "github.com/minhquang4309/social-be/internal/modules/filestorage/application"
	"github.com/minhquang4309/social-be/internal/modules/user/domain"
)

const maxBioLength = 200

type UpdateProfileRequest struct {
	Bio      *string `json:"bio"`
	CoverURL *string `json:"cover_url"`
}

// UserService provides public profile operations on top of the account
// store owned by the auth module.
type UserService struct {
	users       authdomain.UserRepository
	suggestions domain.SuggestionRepository
	files       *fileapp.FileService

	log *logrus.Entry
}

func NewUserService(users authdomain.UserRepository, suggestions domain.SuggestionRepository, files *fileapp.FileService) *UserService {
	return &UserService{
		users:       users,
		suggestions: suggestions,
		files:       files,
		log:         logrus.WithField("module", "user"),
	}
}

// GetProfile returns a user's public profile
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*authdomain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile updates the caller's bio and cover image URL
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*authdomain.User, error) {
	if req.Bio != nil && len(*req.Bio) > maxBioLength {
		return nil, errors.New("bio exceeds maximum length")
	}

	if err := s.users.UpdateProfile(ctx, userID, req.Bio, nil, req.CoverURL); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// UploadAvatar stores the image and points the profile at it. The previous
// avatar is deleted best-effort after the profile row is updated.
func (s *UserService) UploadAvatar(ctx context.Context, userID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*authdomain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, key, err := s.files.UploadImage(ctx, file, header, "avatars")
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateProfile(ctx, userID, nil, &url, nil); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.log.WithError(delErr).WithField("key", key).Warn("orphaned avatar cleanup failed")
		}
		return nil, err
	}

	if user.AvatarURL != nil {
		if delErr := s.files.DeleteByURL(ctx, *user.AvatarURL); delErr != nil {
			s.log.WithError(delErr).WithField("url", *user.AvatarURL).Warn("old avatar cleanup failed")
		}
	}

	return s.users.GetByID(ctx, userID)
}

// Suggestions returns accounts the caller might want to follow
func (s *UserService) Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Suggestion, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.suggestions.SuggestForUser(ctx, userID, limit)
}
