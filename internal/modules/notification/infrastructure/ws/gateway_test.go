package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/minhquang4309/social-be/internal/modules/notification/domain"
)

type mockSyncService struct {
	mock.Mock
}

func (m *mockSyncService) Backlog(ctx context.Context, recipientID uuid.UUID, cursor *time.Time, limit int) (domain.Page, error) {
	args := m.Called(ctx, recipientID, cursor, limit)
	return args.Get(0).(domain.Page), args.Error(1)
}

func (m *mockSyncService) MarkRead(ctx context.Context, notificationID, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, notificationID, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSyncService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSyncService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int), args.Error(1)
}

// newTestGateway spins up an httptest server terminating real websocket
// connections. The verify func accepts tokens of the form "valid:<uuid>".
func newTestGateway(t *testing.T, sync SyncService) (*Gateway, *httptest.Server) {
	t.Helper()

	verify := func(token string) (uuid.UUID, error) {
		raw, ok := strings.CutPrefix(token, "valid:")
		if !ok {
			return uuid.Nil, errors.New("bad token")
		}
		return uuid.Parse(raw)
	}

	gw := NewGateway(NewRegistry(), verify)
	gw.AttachSync(sync)

	srv := httptest.NewServer(http.HandlerFunc(gw.ServeWS))
	t.Cleanup(srv.Close)

	return gw, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()

	payload, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(envelope{Event: event, Data: payload}))
}

func readFrame(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func authenticate(t *testing.T, gw *Gateway, conn *websocket.Conn, userID uuid.UUID) {
	t.Helper()

	sendFrame(t, conn, "auth", authPayload{Token: "valid:" + userID.String()})
	waitForPresence(t, gw, userID)
}

func waitForPresence(t *testing.T, gw *Gateway, userID uuid.UUID) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if gw.IsPresent(userID) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("user %s never became present", userID)
}

func TestGateway_AuthBindsConnection(t *testing.T) {
	sync := new(mockSyncService)
	gw, srv := newTestGateway(t, sync)

	userID := uuid.New()
	conn := dial(t, srv)

	assert.False(t, gw.IsPresent(userID))
	authenticate(t, gw, conn, userID)
	assert.True(t, gw.IsPresent(userID))

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for gw.IsPresent(userID) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.False(t, gw.IsPresent(userID))
}

func TestGateway_BadTokenClosesConnection(t *testing.T) {
	sync := new(mockSyncService)
	gw, srv := newTestGateway(t, sync)

	conn := dial(t, srv)
	sendFrame(t, conn, "auth", authPayload{Token: "forged"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	userID := uuid.New()
	assert.False(t, gw.IsPresent(userID))
}

func TestGateway_SyncRequiresAuth(t *testing.T) {
	sync := new(mockSyncService)
	_, srv := newTestGateway(t, sync)

	conn := dial(t, srv)
	sendFrame(t, conn, "get-notifications", struct{}{})

	env := readFrame(t, conn)
	assert.Equal(t, EventError, env.Event)
	sync.AssertNotCalled(t, "Backlog", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_GetNotificationsReturnsInitialPage(t *testing.T) {
	sync := new(mockSyncService)
	gw, srv := newTestGateway(t, sync)

	userID := uuid.New()
	page := domain.Page{
		Items: []domain.Notification{{
			ID:          uuid.New(),
			RecipientID: userID,
			ActorID:     uuid.New(),
			Kind:        domain.KindFollow,
			CreatedAt:   time.Now().UTC(),
		}},
	}
	sync.On("Backlog", mock.Anything, userID, (*time.Time)(nil), 0).Return(page, nil).Once()

	conn := dial(t, srv)
	authenticate(t, gw, conn, userID)

	sendFrame(t, conn, "get-notifications", struct{}{})
	env := readFrame(t, conn)

	assert.Equal(t, EventInitial, env.Event)

	var got domain.Page
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, page.Items[0].ID, got.Items[0].ID)
	sync.AssertExpectations(t)
}

func TestGateway_MarkAllReadPushesZeroCount(t *testing.T) {
	sync := new(mockSyncService)
	gw, srv := newTestGateway(t, sync)

	userID := uuid.New()
	sync.On("MarkAllRead", mock.Anything, userID).Return(int64(4), nil).Once()

	conn := dial(t, srv)
	authenticate(t, gw, conn, userID)

	sendFrame(t, conn, "mark-all-read", struct{}{})
	env := readFrame(t, conn)

	assert.Equal(t, EventUnreadCount, env.Event)

	var got map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 0, got["count"])
	sync.AssertExpectations(t)
}

func TestGateway_MarkReadRepliesWithRecount(t *testing.T) {
	sync := new(mockSyncService)
	gw, srv := newTestGateway(t, sync)

	userID := uuid.New()
	notificationID := uuid.New()
	sync.On("MarkRead", mock.Anything, notificationID, userID).Return(int64(1), nil).Once()
	sync.On("UnreadCount", mock.Anything, userID).Return(2, nil).Once()

	conn := dial(t, srv)
	authenticate(t, gw, conn, userID)

	sendFrame(t, conn, "mark-notification-read", markReadPayload{NotificationID: notificationID.String()})
	env := readFrame(t, conn)

	assert.Equal(t, EventUnreadCount, env.Event)

	var got map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 2, got["count"])
	sync.AssertExpectations(t)
}

func TestGateway_UnknownEventRejected(t *testing.T) {
	sync := new(mockSyncService)
	gw, srv := newTestGateway(t, sync)

	userID := uuid.New()
	conn := dial(t, srv)
	authenticate(t, gw, conn, userID)

	sendFrame(t, conn, "subscribe-to-everything", struct{}{})
	env := readFrame(t, conn)

	assert.Equal(t, EventError, env.Event)
}

func TestGateway_EmitToUserFansOutToAllConnections(t *testing.T) {
	sync := new(mockSyncService)
	gw, srv := newTestGateway(t, sync)

	userID := uuid.New()
	conn1 := dial(t, srv)
	authenticate(t, gw, conn1, userID)
	conn2 := dial(t, srv)
	sendFrame(t, conn2, "auth", authPayload{Token: "valid:" + userID.String()})

	deadline := time.Now().Add(2 * time.Second)
	for len(gw.Registry().ClientsFor(userID)) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Len(t, gw.Registry().ClientsFor(userID), 2)

	gw.EmitToUser(userID, EventNewNotification, map[string]string{"hello": "world"})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		env := readFrame(t, conn)
		assert.Equal(t, EventNewNotification, env.Event)
	}
}

func TestGateway_EmitToAbsentUserIsNoop(t *testing.T) {
	sync := new(mockSyncService)
	gw, _ := newTestGateway(t, sync)

	assert.NotPanics(t, func() {
		gw.EmitToUser(uuid.New(), EventNewNotification, map[string]string{"hello": "world"})
	})
}
