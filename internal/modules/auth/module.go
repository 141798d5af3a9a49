package auth

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/minhquang4309/social-be/internal/modules/auth/application"
	"github.com/minhquang4309/social-be/internal/modules/auth/domain"
	"github.com/minhquang4309/social-be/internal/modules/auth/infrastructure/mail"
	"github.com/minhquang4309/social-be/internal/modules/auth/infrastructure/persistence/postgres"
	"github.com/minhquang4309/social-be/internal/modules/auth/infrastructure/resetcode"
	auth_http "github.com/minhquang4309/social-be/internal/modules/auth/interfaces/http"
	"github.com/minhquang4309/social-be/internal/shared/infrastructure/config"
)

// Module represents the Auth module
type Module struct {
	service    *application.AuthService
	repository *postgres.PgUserRepository
	handler    *auth_http.AuthHandler
}

// NewModule creates and initializes the Auth module
func NewModule(db *sqlx.DB, rdb *redis.Client, jwtCfg config.JWTConfig, mailCfg config.MailConfig, googleClientID string) *Module {
	repository := postgres.NewUserRepository(db)
	resetCodes := resetcode.NewRedisStore(rdb, 15*time.Minute)
	mailer := mail.NewSMTPMailer(mailCfg)
	service := application.NewAuthService(repository, resetCodes, mailer, jwtCfg.Secret, jwtCfg.Expiry)
	handler := auth_http.NewAuthHandler(service, googleClientID)

	return &Module{
		service:    service,
		repository: repository,
		handler:    handler,
	}
}

// Service returns the auth service for use by the gateway layer
func (m *Module) Service() *application.AuthService {
	return m.service
}

// UserFinder returns the read-only user lookup for other modules
func (m *Module) UserFinder() domain.UserFinder {
	return m.repository
}

// UserRepository returns the user repository
func (m *Module) UserRepository() *postgres.PgUserRepository {
	return m.repository
}

// HTTPHandler returns the HTTP handler for the auth module
func (m *Module) HTTPHandler() *auth_http.AuthHandler {
	return m.handler
}
