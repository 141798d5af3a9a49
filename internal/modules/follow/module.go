package follow

import (
	"github.com/jmoiron/sqlx"

	authdomain "github.com/minhquang4309/social-be/internal/modules/auth/domain"
	"github.com/minhquang4309/social-be/internal/modules/follow/application"
	"github.com/minhquang4309/social-be/internal/modules/follow/domain"
	"github.com/minhquang4309/social-be/internal/modules/follow/infrastructure/persistence/postgres"
	follow_http "github.com/minhquang4309/social-be/internal/modules/follow/interfaces/http"
)

// Module represents the Follow module
type Module struct {
	service    *application.FollowService
	repository domain.FollowRepository
	handler    *follow_http.FollowHandler
}

// NewModule creates and initializes the Follow module
func NewModule(db *sqlx.DB, users authdomain.UserFinder, notifier application.Notifier) *Module {
	repository := postgres.NewPgFollowRepository(db)
	service := application.NewFollowService(repository, users, notifier)
	handler := follow_http.NewFollowHandler(service)

	return &Module{
		service:    service,
		repository: repository,
		handler:    handler,
	}
}

// Service returns the follow service
func (m *Module) Service() *application.FollowService {
	return m.service
}

// HTTPHandler returns the HTTP handler for the follow module
func (m *Module) HTTPHandler() *follow_http.FollowHandler {
	return m.handler
}
