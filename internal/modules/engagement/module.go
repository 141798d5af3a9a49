package engagement

import (
	"github.com/jmoiron/sqlx"

	"github.com/minhquang4309/social-be/internal/modules/engagement/application"
	"github.com/minhquang4309/social-be/internal/modules/engagement/domain"
	"github.com/minhquang4309/social-be/internal/modules/engagement/infrastructure/persistence/postgres"
	engagement_http "github.com/minhquang4309/social-be/internal/modules/engagement/interfaces/http"
)

// Module represents the Engagement module
type Module struct {
	service    *application.EngagementService
	repository domain.EngagementRepository
	handler    *engagement_http.EngagementHandler
}

// NewModule creates and initializes the Engagement module
func NewModule(db *sqlx.DB, notifier application.Notifier, pageSize int) *Module {
	repository := postgres.NewPgEngagementRepository(db)
	service := application.NewEngagementService(repository, notifier, pageSize)
	handler := engagement_http.NewEngagementHandler(service)

	return &Module{
		service:    service,
		repository: repository,
		handler:    handler,
	}
}

// Service returns the engagement service
func (m *Module) Service() *application.EngagementService {
	return m.service
}

// HTTPHandler returns the HTTP handler for the engagement module
func (m *Module) HTTPHandler() *engagement_http.EngagementHandler {
	return m.handler
}
