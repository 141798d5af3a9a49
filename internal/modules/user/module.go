package user

import (
	"github.com/jmoiron/sqlx"

	authdomain "github.com/minhquang4309/social-be/internal/modules/auth/domain"
	fileapp "github.com/minhquang4309/social-be/internal/modules/filestorage/application"
	"github.com/minhquang4309/social-be/internal/modules/user/application"
	"github.com/minhquang4309/social-be/internal/modules/user/infrastructure/persistence/postgres"
	user_http "github.com/minhquang4309/social-be/internal/modules/user/interfaces/http"
)

// Module represents the User module
type Module struct {
	service *application.UserService
	handler *user_http.UserHandler
}

// NewModule creates and initializes the User module
func NewModule(db *sqlx.DB, users authdomain.UserRepository, files *fileapp.FileService) *Module {
	suggestions := postgres.NewPgSuggestionRepository(db)
	service := application.NewUserService(users, suggestions, files)
	handler := user_http.NewUserHandler(service)

	return &Module{
		service: service,
		handler: handler,
	}
}

// Service returns the user service
func (m *Module) Service() *application.UserService {
	return m.service
}

// HTTPHandler returns the HTTP handler for the user module
func (m *Module) HTTPHandler() *user_http.UserHandler {
	return m.handler
}
