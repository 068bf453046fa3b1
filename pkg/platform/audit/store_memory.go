package audit

import (
	"context"
	"sync"

	id "carelink/pkg/domain"
)

// InMemoryStore records audit events in memory. It doubles as a Publisher
// so tests can assert on emitted events.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Emit(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListAll returns all recorded events in emission order.
func (s *InMemoryStore) ListAll() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events...)
}

// ListBySenior returns events concerning the given senior.
func (s *InMemoryStore) ListBySenior(seniorID id.SeniorID) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.SeniorID == seniorID {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops all recorded events. Use between tests.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
