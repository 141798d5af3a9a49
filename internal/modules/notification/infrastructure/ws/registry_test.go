package ws

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testClient(userID uuid.UUID) *Client {
	return &Client{
		send:   make(chan []byte, 64),
		userID: userID,
		authed: true,
	}
}

func TestRegistry_UnbindReportsRemoval(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	c := testClient(userID)
	r.Bind(userID, c)

	assert.True(t, r.Unbind(c))
	assert.False(t, r.Unbind(c))
	assert.False(t, r.Unbind(testClient(uuid.New())))
}

func TestRegistry_BindMakesUserPresent(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	assert.False(t, r.IsPresent(userID))

	c := testClient(userID)
	r.Bind(userID, c)

	assert.True(t, r.IsPresent(userID))
	assert.Len(t, r.ClientsFor(userID), 1)
}

func TestRegistry_UnbindLastConnectionMakesUserAbsent(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	c := testClient(userID)

	r.Bind(userID, c)
	r.Unbind(c)

	assert.False(t, r.IsPresent(userID))
	assert.Empty(t, r.ClientsFor(userID))
}

func TestRegistry_MultipleConnectionsPerUser(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	c1 := testClient(userID)
	c2 := testClient(userID)

	r.Bind(userID, c1)
	r.Bind(userID, c2)
	assert.Len(t, r.ClientsFor(userID), 2)

	// Dropping one device keeps the user present.
	r.Unbind(c1)
	assert.True(t, r.IsPresent(userID))
	assert.Len(t, r.ClientsFor(userID), 1)

	r.Unbind(c2)
	assert.False(t, r.IsPresent(userID))
}

func TestRegistry_BindIsIdempotentPerClient(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	c := testClient(userID)

	r.Bind(userID, c)
	r.Bind(userID, c)

	assert.Len(t, r.ClientsFor(userID), 1)
}

func TestRegistry_UnbindUnknownClientIsNoop(t *testing.T) {
	r := NewRegistry()
	c := testClient(uuid.New())

	assert.NotPanics(t, func() { r.Unbind(c) })
}

func TestRegistry_ConcurrentBindUnbind(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := testClient(userID)
			r.Bind(userID, c)
			r.IsPresent(userID)
			r.Unbind(c)
		}()
	}
	wg.Wait()

	assert.False(t, r.IsPresent(userID))
}
