package post

import (
	"github.com/jmoiron/sqlx"

	"github.com/minhquang4309/social-be/internal/modules/post/application"
	"github.com/minhquang4309/social-be/internal/modules/post/domain"
	"github.com/minhquang4309/social-be/internal/modules/post/infrastructure/persistence/postgres"
	post_http "github.com/minhquang4309/social-be/internal/modules/post/interfaces/http"
)

// Module represents the Post module
type Module struct {
	service    *application.PostService
	repository domain.PostRepository
	handler    *post_http.PostHandler
}

// NewModule creates and initializes the Post module
func NewModule(db *sqlx.DB, notifier application.Notifier, pageSize int) *Module {
	repository := postgres.NewPgPostRepository(db)
	service := application.NewPostService(repository, notifier, pageSize)
	handler := post_http.NewPostHandler(service)

	return &Module{
		service:    service,
		repository: repository,
		handler:    handler,
	}
}

// Service returns the post service for use by other modules
func (m *Module) Service() *application.PostService {
	return m.service
}

// Repository returns the post repository
func (m *Module) Repository() domain.PostRepository {
	return m.repository
}

// HTTPHandler returns the HTTP handler for the post module
func (m *Module) HTTPHandler() *post_http.PostHandler {
	return m.handler
}
