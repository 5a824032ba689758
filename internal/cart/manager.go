package cart

import (
	"context"
	"sync"
	"time"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
)

// Manager hands out one cart aggregate per session.
type Manager struct {
	mu      sync.Mutex
	carts   map[string]*Aggregate
	touched map[string]time.Time
	logg    *logger.Logger
	now     func() time.Time
}

// NewManager builds an empty cart manager. The logger may be nil.
func NewManager(logg *logger.Logger) *Manager {
	return &Manager{
		carts:   make(map[string]*Aggregate),
		touched: make(map[string]time.Time),
		logg:    logg,
		now:     time.Now,
	}
}

// Get returns the session's cart, creating it on first use.
func (m *Manager) Get(sessionID string) *Aggregate {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched[sessionID] = m.now()
	if agg, ok := m.carts[sessionID]; ok {
		return agg
	}
	agg := NewAggregate(m.hookFor(sessionID))
	m.carts[sessionID] = agg
	return agg
}

// Drop discards the session's cart entirely.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	delete(m.touched, sessionID)
}

// PruneIdle discards carts that have not been touched within idleFor and
// reports how many were dropped. Anonymous sessions rarely come back, so
// without a sweep every session ID ever minted holds a cart forever.
func (m *Manager) PruneIdle(idleFor time.Duration) int {
	cutoff := m.now().Add(-idleFor)
	m.mu.Lock()
	defer m.mu.Unlock()
	pruned := 0
	for sessionID, last := range m.touched {
		if last.Before(cutoff) {
			delete(m.carts, sessionID)
			delete(m.touched, sessionID)
			pruned++
		}
	}
	return pruned
}

// Len reports how many session carts are live.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}

func (m *Manager) hookFor(sessionID string) EventHook {
	if m.logg == nil {
		return nil
	}
	return func(event Event) {
		ctx := m.logg.WithSessionID(context.Background(), sessionID)
		ctx = m.logg.WithFields(ctx, map[string]any{
			"action":   string(event.Action),
			"product":  event.ProductID.String(),
			"quantity": event.Quantity,
		})
		m.logg.Info(ctx, "cart updated")
	}
}
