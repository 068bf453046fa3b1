package loginticket

import (
	"context"
	"sync"
	"time"

	dErrors "carelink/pkg/domain-errors"
)

// InMemoryStore keeps tickets in memory for tests and single-instance dev.
type InMemoryStore struct {
	mu      sync.Mutex
	tickets map[string]memoryTicket
	clock   func() time.Time
}

type memoryTicket struct {
	payload   string
	expiresAt time.Time
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock overrides the expiry clock, for tests.
func WithClock(clock func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewInMemoryStore constructs an empty in-memory ticket store.
func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		tickets: make(map[string]memoryTicket),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Put(_ context.Context, ticketID, encodedPayload string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticketID] = memoryTicket{
		payload:   encodedPayload,
		expiresAt: s.clock().Add(ttl),
	}
	return nil
}

func (s *InMemoryStore) Redeem(_ context.Context, ticketID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[ticketID]
	if !ok || s.clock().After(ticket.expiresAt) {
		delete(s.tickets, ticketID)
		return "", dErrors.New(dErrors.CodeNotFound, "login ticket not found or expired")
	}
	delete(s.tickets, ticketID)
	return ticket.payload, nil
}
