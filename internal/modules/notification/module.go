package notification

import (
	"github.com/jmoiron/sqlx"

	"github.com/minhquang4309/social-be/internal/modules/notification/application"
	"github.com/minhquang4309/social-be/internal/modules/notification/infrastructure/persistence/postgres"
	"github.com/minhquang4309/social-be/internal/modules/notification/infrastructure/ws"
	notification_http "github.com/minhquang4309/social-be/internal/modules/notification/interfaces/http"
	"github.com/minhquang4309/social-be/internal/shared/infrastructure/config"
)

// Module wires the notification core: registry, websocket gateway,
// dispatcher service and HTTP handler.
type Module struct {
	registry *ws.Registry
	gateway  *ws.Gateway
	service  *application.NotificationService
	handler  *notification_http.NotificationHandler
}

// NewModule creates and initializes the Notification module. verify is the
// token check used to bind websocket connections to user identities.
func NewModule(db *sqlx.DB, cfg config.NotificationConfig, verify ws.VerifyFunc) *Module {
	registry := ws.NewRegistry()
	gateway := ws.NewGateway(registry, verify)

	repo := postgres.NewPgNotificationRepository(db)
	service := application.NewNotificationService(repo, gateway, gateway, cfg.DedupeWindow, cfg.BacklogPageSize)
	gateway.AttachSync(service)

	handler := notification_http.NewNotificationHandler(service, gateway)

	return &Module{
		registry: registry,
		gateway:  gateway,
		service:  service,
		handler:  handler,
	}
}

// Service returns the dispatcher for use by social-action producers
func (m *Module) Service() *application.NotificationService {
	return m.service
}

// HTTPHandler returns the HTTP handler for the notification module
func (m *Module) HTTPHandler() *notification_http.NotificationHandler {
	return m.handler
}
