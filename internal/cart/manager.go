package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Manager hands out one engine per cart id, materializing persisted state on
// first use. Engines serialize their own mutations; the manager only
// guarantees that concurrent requests for the same cart share one engine.
type Manager struct {
	mu      sync.Mutex
	engines map[uuid.UUID]*Engine
	deps    Deps
}

// NewManager builds the manager.
func NewManager(deps Deps) *Manager {
	return &Manager{
		engines: make(map[uuid.UUID]*Engine),
		deps:    deps,
	}
}

// Engine returns the engine for cartID, creating it and restoring any
// persisted state on first access.
func (m *Manager) Engine(ctx context.Context, cartID uuid.UUID) (*Engine, error) {
	m.mu.Lock()
	if engine, ok := m.engines[cartID]; ok {
		m.mu.Unlock()
		return engine, nil
	}
	m.mu.Unlock()

	// Load outside the manager lock so a slow store does not stall
	// unrelated carts.
	engine := NewEngine(cartID, m.deps)
	persisted, err := engine.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if persisted != nil {
		engine.restore(*persisted)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.engines[cartID]; ok {
		// Another request materialized the cart first; use its engine.
		return existing, nil
	}
	m.engines[cartID] = engine
	return engine, nil
}

// Evict forgets the in-memory engine for cartID. The persisted blob, if any,
// is untouched.
func (m *Manager) Evict(cartID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, cartID)
}
