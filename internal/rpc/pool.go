package rpc

import "sync"

// ClientPool hands out one Client per provider name, so concurrent commands share
// HTTP connections. Safe for concurrent use.
type ClientPool struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

// NewClientPool returns an empty pool.
func NewClientPool() *ClientPool {
	return &ClientPool{
		clients: make(map[string]*Client),
	}
}

// GetOrCreate returns the client registered under cfg.Name, creating it from cfg on
// first use. Later calls with the same name ignore cfg.
func (p *ClientPool) GetOrCreate(cfg ClientConfig) *Client {
	p.mu.RLock()
	if client, ok := p.clients[cfg.Name]; ok {
		p.mu.RUnlock()
		return client
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another goroutine may have created it while we waited for the lock.
	if client, ok := p.clients[cfg.Name]; ok {
		return client
	}

	client := NewClient(cfg)
	p.clients[cfg.Name] = client
	return client
}

// Get returns the client for name, or nil.
func (p *ClientPool) Get(name string) *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clients[name]
}

// Len reports how many clients the pool holds.
func (p *ClientPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}
