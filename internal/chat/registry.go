// internal/chat/registry.go
package chat

import "sync"

// Registry owns the identity -> connection mapping. At most one live
// connection per identity; a new registration for the same identity
// replaces the old one (last write wins). The displaced connection is not
// force-closed here, writes to it simply fail at the transport and it gets
// cleaned up on its own read-loop exit.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Add installs c as the current connection for its user id and returns the
// connection it displaced, if any.
func (r *Registry) Add(c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.clients[c.userID]
	r.clients[c.userID] = c
	if prev == c {
		return nil
	}
	return prev
}

// Remove drops the mapping for c, but only if c is still the current
// connection. A stale connection exiting must not evict its replacement.
func (r *Registry) Remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clients[c.userID] != c {
		return false
	}
	delete(r.clients, c.userID)
	return true
}

// Get returns the live connection for a user id, if any.
func (r *Registry) Get(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[userID]
	return c, ok
}

// Count returns the number of connected identities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
