package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps a user identity to its live connections. It is process-local,
// disposable state: on restart every client reconnects and re-binds. A user
// may own several connections at once (multiple devices or tabs) and pushes
// fan out to all of them.
type Registry struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[*Client]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

// Bind registers a connection for a user. Idempotent per client.
func (r *Registry) Bind(userID uuid.UUID, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[userID]
	if !ok {
		set = make(map[*Client]struct{})
		r.conns[userID] = set
	}
	set[c] = struct{}{}
}

// Unbind removes a connection and reports whether it was still bound. When it
// was the user's last connection the user becomes absent. Safe to call for
// clients that were never bound, and again for clients already removed.
func (r *Registry) Unbind(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[c.userID]
	if !ok {
		return false
	}
	if _, bound := set[c]; !bound {
		return false
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.conns, c.userID)
	}
	return true
}

// IsPresent reports whether the user has at least one live connection
func (r *Registry) IsPresent(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID]) > 0
}

// ClientsFor returns a snapshot of the user's live connections
func (r *Registry) ClientsFor(userID uuid.UUID) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.conns[userID]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}
