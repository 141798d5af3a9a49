package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Time allowed for the client to present its auth frame after connect.
	authWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is one websocket connection. userID is only set once the auth frame
// has been verified; before that the connection is not in the registry.
type Client struct {
	gw   *Gateway
	conn *websocket.Conn

	// Buffered channel of outbound messages. Never closed: emits from other
	// goroutines may hold a stale handle to a torn-down client, so teardown
	// signals through done instead.
	send chan []byte

	// Closed exactly once when the connection is torn down.
	done chan struct{}

	userID uuid.UUID
	authed bool

	closeOnce sync.Once
}

func newClient(gw *Gateway, conn *websocket.Conn) *Client {
	return &Client{
		gw:   gw,
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
}

// close signals teardown exactly once and closes the underlying connection,
// releasing both pumps.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readPump pumps messages from the websocket connection to the gateway.
// Unbinding happens here, synchronously, so presence never drifts past the
// lifetime of the connection.
func (c *Client) readPump() {
	defer c.gw.dropClient(c)

	c.conn.SetReadLimit(maxMessageSize)
	// Until the auth frame arrives the only deadline is the handshake one.
	_ = c.conn.SetReadDeadline(time.Now().Add(authWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.gw.handleFrame(c, message)
	}
}

// writePump pumps messages from the send channel to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
