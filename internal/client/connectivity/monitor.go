// Package connectivity tracks whether the backend is believed reachable.
package connectivity

import (
	"log/slog"
	"sync"
)

// Monitor holds the current online flag and fans transitions out to subscribers.
// It never polls: state changes only through Set.
type Monitor struct {
	logger    *slog.Logger
	listeners map[uint64]func(online bool)
	mu        sync.RWMutex
	nextID    uint64
	online    bool
}

// NewMonitor creates a monitor with the given initial state
func NewMonitor(online bool, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger:    logger,
		listeners: make(map[uint64]func(bool)),
		online:    online,
	}
}

// Online reports the current connectivity state
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Set updates the state. Subscribers are notified only on a transition,
// synchronously and outside the lock, so a listener may call Online or Subscribe.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	listeners := make([]func(bool), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	m.logger.Info("connectivity changed", "online", online)

	for _, fn := range listeners {
		fn(online)
	}
}

// Subscribe registers fn for state transitions and returns a function that removes it
func (m *Monitor) Subscribe(fn func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}
