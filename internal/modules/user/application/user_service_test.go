package application

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authdomain "github.com/minhquang4309/social-be/internal/modules/auth/domain"
	fileapp "github.com/minhquang4309/social-be/internal/modules/filestorage/application"
	"github.com/minhquang4309/social-be/internal/modules/user/domain"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *authdomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*authdomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdomain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, bio, avatarURL, coverURL *string) error {
	args := m.Called(ctx, id, bio, avatarURL, coverURL)
	return args.Error(0)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type mockSuggestionRepository struct {
	mock.Mock
}

func (m *mockSuggestionRepository) SuggestForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Suggestion, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Suggestion), args.Error(1)
}

// memoryStorage is an in-memory FileStorage for service-level tests
type memoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{blobs: make(map[string][]byte)}
}

func (s *memoryStorage) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return "mem://" + key, nil
}

func (s *memoryStorage) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *memoryStorage) GetKeyFromURL(url string) (string, error) {
	return url[len("mem://"):], nil
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile_BioTooLong(t *testing.T) {
	users := new(mockUserRepository)
	svc := NewUserService(users, new(mockSuggestionRepository), fileapp.NewFileService(newMemoryStorage()))

	long := make([]byte, maxBioLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{Bio: strPtr(string(long))})
	assert.Error(t, err)
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_Success(t *testing.T) {
	users := new(mockUserRepository)
	svc := NewUserService(users, new(mockSuggestionRepository), fileapp.NewFileService(newMemoryStorage()))
	ctx := context.Background()

	userID := uuid.New()
	bio := strPtr("hello")
	users.On("UpdateProfile", ctx, userID, bio, (*string)(nil), (*string)(nil)).Return(nil).Once()
	users.On("GetByID", ctx, userID).Return(&authdomain.User{ID: userID, Bio: bio}, nil).Once()

	user, err := svc.UpdateProfile(ctx, userID, UpdateProfileRequest{Bio: bio})
	require.NoError(t, err)
	assert.Equal(t, "hello", *user.Bio)
	users.AssertExpectations(t)
}

func TestSuggestions_LimitFallback(t *testing.T) {
	users := new(mockUserRepository)
	suggestions := new(mockSuggestionRepository)
	svc := NewUserService(users, suggestions, fileapp.NewFileService(newMemoryStorage()))
	ctx := context.Background()

	userID := uuid.New()
	suggestions.On("SuggestForUser", ctx, userID, 10).Return([]domain.Suggestion{}, nil).Twice()

	_, err := svc.Suggestions(ctx, userID, 0)
	assert.NoError(t, err)

	_, err = svc.Suggestions(ctx, userID, 500)
	assert.NoError(t, err)

	suggestions.AssertExpectations(t)
}
