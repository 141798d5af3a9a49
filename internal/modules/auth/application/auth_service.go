package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"github.com/minhquang4309/social-be/internal/modules/auth/domain"
	"github.com/minhquang4309/social-be/internal/modules/auth/infrastructure/jwt"
	"github.com/minhquang4309/social-be/internal/shared/utils"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Token string `json:"token"`
}

// ResetCodeStore issues and consumes short-lived password-reset codes
type ResetCodeStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, email, code string) error
}

// Mailer delivers reset codes out of band
type Mailer interface {
	SendResetCode(to, code string) error
}

// AuthService provides authentication operations
type AuthService struct {
	repo       domain.UserRepository
	resetCodes ResetCodeStore
	mailer     Mailer
	jwtSecret  string
	jwtExpiry  time.Duration

	googleTokenValidator func(ctx context.Context, token string, audience string) (*idtoken.Payload, error)

	log *logrus.Entry
}

// NewAuthService creates a new auth service
func NewAuthService(repo domain.UserRepository, resetCodes ResetCodeStore, mailer Mailer, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		repo:                 repo,
		resetCodes:           resetCodes,
		mailer:               mailer,
		jwtSecret:            jwtSecret,
		jwtExpiry:            jwtExpiry,
		googleTokenValidator: idtoken.Validate,
		log:                  logrus.WithField("module", "auth"),
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Email == "" || !utils.IsValidEmail(req.Email) {
		return nil, errors.New("invalid email format")
	}
	if len(req.Username) < 3 {
		return nil, errors.New("username must be at least 3 characters")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hashedPass),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if req.Email == "" || req.Password == "" {
		return "", errors.New("missing email or password")
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials // Don't reveal user existence
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return jwt.GenerateToken(s.jwtSecret, s.jwtExpiry, user.ID)
}

// GoogleLogin validates a Google ID token and signs the user in, creating
// the account on first login.
func (s *AuthService) GoogleLogin(ctx context.Context, googleClientID string, req GoogleLoginRequest) (string, error) {
	validate := s.googleTokenValidator
	if validate == nil {
		validate = idtoken.Validate
	}

	payload, err := validate(ctx, req.Token, googleClientID)
	if err != nil {
		return "", errors.New("invalid google token")
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	if email == "" {
		return "", errors.New("email not provided by google")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", err
		}
		user = &domain.User{
			ID:           uuid.New(),
			Email:        email,
			Username:     name,
			PasswordHash: "", // No password for OAuth accounts
			AvatarURL:    &picture,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if createErr := s.repo.Create(ctx, user); createErr != nil {
			return "", createErr
		}
	}

	return jwt.GenerateToken(s.jwtSecret, s.jwtExpiry, user.ID)
}

// ForgotPassword issues a reset code and mails it to the account's address.
// An unknown email is treated as success so the endpoint cannot be used to
// probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	code, err := s.resetCodes.Issue(ctx, user.Email)
	if err != nil {
		return err
	}

	if err := s.mailer.SendResetCode(user.Email, code); err != nil {
		s.log.WithError(err).Warn("reset code delivery failed")
		return err
	}
	return nil
}

// ResetPassword verifies the code and replaces the account's password hash
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetCode
		}
		return err
	}

	if err := s.resetCodes.Consume(ctx, email, code); err != nil {
		return err
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, user.ID, string(hashedPass))
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenStr string) (*jwt.CustomClaims, error) {
	return jwt.ValidateToken(tokenStr, s.jwtSecret)
}
