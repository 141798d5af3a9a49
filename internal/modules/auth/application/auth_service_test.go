package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"github.com/minhquang4309/social-be/internal/modules/auth/domain"
	"github.com/minhquang4309/social-be/internal/modules/auth/infrastructure/jwt"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, bio, avatarURL, coverURL *string) error {
	args := m.Called(ctx, id, bio, avatarURL, coverURL)
	return args.Error(0)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type mockResetCodeStore struct {
	mock.Mock
}

func (m *mockResetCodeStore) Issue(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockResetCodeStore) Consume(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendResetCode(to, code string) error {
	args := m.Called(to, code)
	return args.Error(0)
}

func newTestAuthService(repo *mockUserRepository, codes *mockResetCodeStore, mailer *mockMailer) *AuthService {
	return NewAuthService(repo, codes, mailer, "secret", time.Hour)
}

func TestRegister_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestAuthService(repo, new(mockResetCodeStore), new(mockMailer))
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	user, err := svc.Register(ctx, RegisterRequest{
		Email:    "test@example.com",
		Username: "tester",
		Password: "password123",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestRegister_InvalidInput(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestAuthService(repo, new(mockResetCodeStore), new(mockMailer))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "not-an-email", Username: "tester", Password: "password123"})
	assert.EqualError(t, err, "invalid email format")

	_, err = svc.Register(ctx, RegisterRequest{Email: "test@example.com", Username: "ab", Password: "password123"})
	assert.EqualError(t, err, "username must be at least 3 characters")

	_, err = svc.Register(ctx, RegisterRequest{Email: "test@example.com", Username: "tester", Password: "short"})
	assert.EqualError(t, err, "password must be at least 8 characters")

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestAuthService(repo, new(mockResetCodeStore), new(mockMailer))
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userID := uuid.New()
	repo.On("GetByEmail", ctx, "test@example.com").Return(&domain.User{
		ID:           userID,
		Email:        "test@example.com",
		PasswordHash: string(hash),
	}, nil).Once()

	token, err := svc.Login(ctx, LoginRequest{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := jwt.ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestAuthService(repo, new(mockResetCodeStore), new(mockMailer))
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.On("GetByEmail", ctx, "test@example.com").Return(&domain.User{
		ID:           uuid.New(),
		PasswordHash: string(hash),
	}, nil).Once()

	_, err := svc.Login(ctx, LoginRequest{Email: "test@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailHidesExistence(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestAuthService(repo, new(mockResetCodeStore), new(mockMailer))
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound).Once()

	_, err := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGoogleLogin_ProvisionsNewAccount(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestAuthService(repo, new(mockResetCodeStore), new(mockMailer))
	ctx := context.Background()

	svc.googleTokenValidator = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Claims: map[string]interface{}{
			"email":   "new@example.com",
			"name":    "New User",
			"picture": "https://example.com/p.png",
		}}, nil
	}

	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, domain.ErrUserNotFound).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	token, err := svc.GoogleLogin(ctx, "client-id", GoogleLoginRequest{Token: "google-token"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	repo.AssertExpectations(t)
}

func TestGoogleLogin_RejectsBadToken(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestAuthService(repo, new(mockResetCodeStore), new(mockMailer))

	svc.googleTokenValidator = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		return nil, errors.New("signature mismatch")
	}

	_, err := svc.GoogleLogin(context.Background(), "client-id", GoogleLoginRequest{Token: "forged"})
	assert.EqualError(t, err, "invalid google token")
}

func TestForgotPassword_UnknownEmailIsSilentSuccess(t *testing.T) {
	repo := new(mockUserRepository)
	codes := new(mockResetCodeStore)
	mailer := new(mockMailer)
	svc := newTestAuthService(repo, codes, mailer)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound).Once()

	err := svc.ForgotPassword(ctx, "ghost@example.com")
	assert.NoError(t, err)
	codes.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "SendResetCode", mock.Anything, mock.Anything)
}

func TestForgotPassword_IssuesAndMailsCode(t *testing.T) {
	repo := new(mockUserRepository)
	codes := new(mockResetCodeStore)
	mailer := new(mockMailer)
	svc := newTestAuthService(repo, codes, mailer)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "test@example.com").Return(&domain.User{
		ID:    uuid.New(),
		Email: "test@example.com",
	}, nil).Once()
	codes.On("Issue", ctx, "test@example.com").Return("123456", nil).Once()
	mailer.On("SendResetCode", "test@example.com", "123456").Return(nil).Once()

	err := svc.ForgotPassword(ctx, "test@example.com")
	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestResetPassword_ConsumesCodeAndUpdatesHash(t *testing.T) {
	repo := new(mockUserRepository)
	codes := new(mockResetCodeStore)
	svc := newTestAuthService(repo, codes, new(mockMailer))
	ctx := context.Background()

	userID := uuid.New()
	repo.On("GetByEmail", ctx, "test@example.com").Return(&domain.User{
		ID:    userID,
		Email: "test@example.com",
	}, nil).Once()
	codes.On("Consume", ctx, "test@example.com", "123456").Return(nil).Once()
	repo.On("UpdatePassword", ctx, userID, mock.AnythingOfType("string")).Return(nil).Once()

	err := svc.ResetPassword(ctx, "test@example.com", "123456", "new-password-1")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestResetPassword_BadCode(t *testing.T) {
	repo := new(mockUserRepository)
	codes := new(mockResetCodeStore)
	svc := newTestAuthService(repo, codes, new(mockMailer))
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "test@example.com").Return(&domain.User{
		ID:    uuid.New(),
		Email: "test@example.com",
	}, nil).Once()
	codes.On("Consume", ctx, "test@example.com", "999999").Return(domain.ErrInvalidResetCode).Once()

	err := svc.ResetPassword(ctx, "test@example.com", "999999", "new-password-1")
	assert.ErrorIs(t, err, domain.ErrInvalidResetCode)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}
