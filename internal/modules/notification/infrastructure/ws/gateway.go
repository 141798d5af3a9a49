package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/minhquang4309/social-be/internal/modules/notification/domain"
)

// Server -> client events
const (
	EventNewNotification = "new-notification"
	EventUnreadCount     = "unread-count"
	EventInitial         = "notifications:initial"
	EventError           = "notifications:error"
)

// Client -> server events
const (
	eventAuth             = "auth"
	eventGetNotifications = "get-notifications"
	eventMarkRead         = "mark-notification-read"
	eventMarkAllRead      = "mark-all-read"
)

var liveConnections = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "websocket_connections",
	Help: "Number of live authenticated websocket connections.",
})

// envelope is the wire format in both directions: a tagged event name and a
// closed-shape payload. Unknown events and malformed payloads are rejected at
// this boundary.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type authPayload struct {
	Token string `json:"token"`
}

type markReadPayload struct {
	NotificationID string `json:"notificationId"`
}

// VerifyFunc checks a bearer token's signature and expiry and returns the
// subject identity. Token issuance lives elsewhere; the gateway only verifies.
type VerifyFunc func(token string) (uuid.UUID, error)

// SyncService is the slice of the notification service the gateway relays
// client-initiated sync requests into.
type SyncService interface {
	Backlog(ctx context.Context, recipientID uuid.UUID, cursor *time.Time, limit int) (domain.Page, error)
	MarkRead(ctx context.Context, notificationID, recipientID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error)
}

// Gateway terminates real-time connections, authenticates them against the
// shared JWT secret, binds them to the registry and relays messages in both
// directions. It is the only component that touches raw connections.
type Gateway struct {
	registry *Registry
	verify   VerifyFunc
	sync     SyncService
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

// NewGateway creates a gateway bound to the given registry
func NewGateway(registry *Registry, verify VerifyFunc) *Gateway {
	return &Gateway{
		registry: registry,
		verify:   verify,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers send credentials over the socket token, not cookies,
			// so cross-origin upgrades are safe to accept here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logrus.WithField("module", "notification.ws"),
	}
}

// AttachSync wires the sync service in after construction. The service needs
// the gateway for pushes and the gateway needs the service for sync requests,
// so one side has to be attached late.
func (g *Gateway) AttachSync(s SyncService) {
	g.sync = s
}

// Registry exposes presence queries for the dispatcher
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// ServeWS upgrades the HTTP request and starts the connection's pumps. The
// connection stays unbound until its auth frame verifies; if none arrives
// within authWait the read deadline tears it down.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := newClient(g, conn)
	go c.writePump()
	go c.readPump()
}

// IsPresent reports whether the user has at least one live connection
func (g *Gateway) IsPresent(userID uuid.UUID) bool {
	return g.registry.IsPresent(userID)
}

// EmitToUser pushes an event to every live connection of the user.
// Fire-and-forget: an absent user is a silent no-op, and a connection whose
// buffer is full is dropped rather than blocking the caller.
func (g *Gateway) EmitToUser(userID uuid.UUID, event string, payload interface{}) {
	message, err := marshalEnvelope(event, payload)
	if err != nil {
		g.log.WithError(err).WithField("event", event).Error("marshal push payload")
		return
	}

	for _, c := range g.registry.ClientsFor(userID) {
		select {
		case c.send <- message:
		default:
			g.dropClient(c)
		}
	}
}

// handleFrame routes one client frame. Until the connection is bound the only
// acceptable event is auth; anything else gets the error event and no
// server-side mutation happens.
func (g *Gateway) handleFrame(c *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.sendToClient(c, EventError, map[string]string{"message": "malformed message"})
		return
	}

	if env.Event == eventAuth {
		g.handleAuth(c, env.Data)
		return
	}

	if !c.authed {
		g.sendToClient(c, EventError, map[string]string{"message": "not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch env.Event {
	case eventGetNotifications:
		page, err := g.sync.Backlog(ctx, c.userID, nil, 0)
		if err != nil {
			g.log.WithError(err).Error("backlog fetch failed")
			g.sendToClient(c, EventError, map[string]string{"message": "failed to load notifications"})
			return
		}
		g.sendToClient(c, EventInitial, page)

	case eventMarkRead:
		var p markReadPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			g.sendToClient(c, EventError, map[string]string{"message": "malformed message"})
			return
		}
		notificationID, err := uuid.Parse(p.NotificationID)
		if err != nil {
			g.sendToClient(c, EventError, map[string]string{"message": "invalid notification id"})
			return
		}
		if _, err := g.sync.MarkRead(ctx, notificationID, c.userID); err != nil {
			g.log.WithError(err).Error("mark read failed")
			g.sendToClient(c, EventError, map[string]string{"message": "failed to mark notification read"})
			return
		}
		count, err := g.sync.UnreadCount(ctx, c.userID)
		if err != nil {
			g.log.WithError(err).Error("unread count failed")
			return
		}
		g.sendToClient(c, EventUnreadCount, map[string]int{"count": count})

	case eventMarkAllRead:
		if _, err := g.sync.MarkAllRead(ctx, c.userID); err != nil {
			g.log.WithError(err).Error("mark all read failed")
			g.sendToClient(c, EventError, map[string]string{"message": "failed to mark notifications read"})
			return
		}
		// Zero by construction, no recount needed.
		g.sendToClient(c, EventUnreadCount, map[string]int{"count": 0})

	default:
		g.sendToClient(c, EventError, map[string]string{"message": "unknown event"})
	}
}

// handleAuth verifies the bearer token from the handshake frame and binds the
// connection. Verification failure tears the connection down immediately; it
// never enters the registry.
func (g *Gateway) handleAuth(c *Client, data json.RawMessage) {
	if c.authed {
		return
	}

	var p authPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Token == "" {
		g.log.Warn("connection rejected: missing token in auth frame")
		c.conn.Close()
		return
	}

	userID, err := g.verify(p.Token)
	if err != nil {
		g.log.WithError(err).Warn("connection rejected: token verification failed")
		c.conn.Close()
		return
	}

	c.userID = userID
	c.authed = true
	g.registry.Bind(userID, c)
	liveConnections.Inc()
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

	g.log.WithField("user_id", userID).Info("user connected")
}

// dropClient unbinds and releases a connection. Called from the read pump on
// disconnect and from emit paths when a send buffer is saturated; the calls
// can overlap, so the gauge and the log follow the registry removal, which
// succeeds at most once per client.
func (g *Gateway) dropClient(c *Client) {
	if g.registry.Unbind(c) {
		liveConnections.Dec()
		g.log.WithField("user_id", c.userID).Info("user disconnected")
	}
	c.close()
}

// sendToClient addresses exactly one connection, used for sync replies
func (g *Gateway) sendToClient(c *Client, event string, payload interface{}) {
	message, err := marshalEnvelope(event, payload)
	if err != nil {
		g.log.WithError(err).WithField("event", event).Error("marshal reply payload")
		return
	}
	select {
	case c.send <- message:
	default:
		g.dropClient(c)
	}
}

func marshalEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: data})
}
