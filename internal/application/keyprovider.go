package application

import "sync"

// KeyProvider holds the catalog API key in effect, enabling runtime
// hot-swap on login and logout without rebuilding the catalog client.
// While no session is active it serves the configured fallback key, so
// anonymous browsing still works.
type KeyProvider struct {
	mu       sync.RWMutex
	active   string
	fallback string
}

// NewKeyProvider creates a provider. fallback is the key used when no
// session key is active; active may be "" when starting logged out.
func NewKeyProvider(fallback, active string) *KeyProvider {
	return &KeyProvider{
		active:   active,
		fallback: fallback,
	}
}

// Key returns the session key when one is active, else the fallback.
func (p *KeyProvider) Key() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.active != "" {
		return p.active
	}
	return p.fallback
}

// Activate swaps in the session key. The next caller of Key sees it.
func (p *KeyProvider) Activate(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = key
}

// Deactivate drops the session key, reverting Key to the fallback.
func (p *KeyProvider) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = ""
}
