package auth

import "sync"

// SessionCache holds the decrypted credentials for the life of the
// process. It is explicit state with an explicit Clear, invoked on logout
// and on any terminal authentication failure, rather than an ambient
// module-level singleton.
type SessionCache struct {
	mu    sync.Mutex
	creds *Credentials
}

// NewSessionCache returns an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{}
}

// Get returns a copy of the cached credentials, or nil when the cache is
// empty.
func (c *SessionCache) Get() *Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds == nil {
		return nil
	}
	copied := *c.creds
	return &copied
}

// Set replaces the cached credentials.
func (c *SessionCache) Set(creds *Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if creds == nil {
		c.creds = nil
		return
	}
	copied := *creds
	c.creds = &copied
}

// Clear drops the cached credentials.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = nil
}
