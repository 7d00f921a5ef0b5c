// Package connectivity tracks whether the remote API is reachable and
// notifies subscribers on transitions. The offline→online transition is
// what triggers a replay of the offline queue.
package connectivity

import (
	"sync"

	"github.com/jurebordon/meal-frame/internal/logger"
)

// Listener receives the new online state on every transition.
type Listener func(online bool)

// Monitor holds the observable online flag. Notification is synchronous:
// Set returns only after every subscriber has run.
type Monitor struct {
	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]Listener
}

func NewMonitor(online bool) *Monitor {
	return &Monitor{online: online, subs: make(map[int]Listener)}
}

// Online returns the current state without polling.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers a listener for transitions and returns an
// unsubscribe function.
func (m *Monitor) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Set records a new state. Subscribers are notified only on an actual
// transition.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	listeners := make([]Listener, 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	logger.Info("Connectivity changed", "online", online)
	for _, fn := range listeners {
		fn(online)
	}
}
