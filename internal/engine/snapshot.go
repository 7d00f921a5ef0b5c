package engine

import (
	"sync"

	"github.com/jurebordon/meal-frame/internal/models"
)

// SnapshotStore holds one day's cached snapshot and notifies subscribers
// when it changes. It replaces the reactive query cache of a UI framework
// with an explicitly owned container: the engine is its only writer.
type SnapshotStore struct {
	mu     sync.Mutex
	snap   *models.DaySnapshot
	nextID int
	subs   map[int]func()
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{subs: make(map[int]func())}
}

// Get returns a deep copy of the current snapshot, or nil before the first
// fetch. Callers never see later mutations through the returned value.
func (s *SnapshotStore) Get() *models.DaySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Subscribe registers a change listener and returns an unsubscribe function.
func (s *SnapshotStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// set replaces the snapshot and notifies subscribers.
func (s *SnapshotStore) set(snap *models.DaySnapshot) {
	s.mu.Lock()
	s.snap = snap
	listeners := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
