// Package store provides the senior_profiles collection: an in-memory
// implementation for tests and dev, and a PostgreSQL implementation for
// production.
//
// Error contract: all store methods return sentinel.ErrNotFound when the
// requested profile does not exist, sentinel.ErrConflict on duplicate
// creation, and wrapped infrastructure errors otherwise.
package store

import (
	"context"
	"fmt"
	"sync"

	"carelink/internal/profile/models"
	id "carelink/pkg/domain"
	"carelink/pkg/identity"
	"carelink/pkg/platform/sentinel"
)

// IDGenerator produces a fresh senior identity at creation time.
type IDGenerator func() id.SeniorID

// InMemory stores senior profiles in memory.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[id.SeniorID]*models.SeniorProfile
	idgen    IDGenerator
}

// InMemoryOption configures an InMemory store.
type InMemoryOption func(*InMemory)

// WithIDGenerator overrides identity generation, for deterministic tests.
func WithIDGenerator(gen IDGenerator) InMemoryOption {
	return func(s *InMemory) {
		if gen != nil {
			s.idgen = gen
		}
	}
}

// NewInMemory constructs an empty in-memory profile store.
func NewInMemory(opts ...InMemoryOption) *InMemory {
	s := &InMemory{
		profiles: make(map[id.SeniorID]*models.SeniorProfile),
		idgen:    identity.Generate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new profile, assigning its identity. The assigned ID is
// written back into the profile.
func (s *InMemory) Create(_ context.Context, profile *models.SeniorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.ID.IsEmpty() {
		profile.ID = s.idgen()
	}
	if _, exists := s.profiles[profile.ID]; exists {
		return fmt.Errorf("profile %s already exists: %w", profile.ID, sentinel.ErrConflict)
	}
	copied := *profile
	s.profiles[profile.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, seniorID id.SeniorID) (*models.SeniorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[seniorID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", seniorID, sentinel.ErrNotFound)
	}
	copied := *profile
	return &copied, nil
}

// Update replaces the stored profile with the given state.
func (s *InMemory) Update(_ context.Context, profile *models.SeniorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; !ok {
		return fmt.Errorf("profile %s: %w", profile.ID, sentinel.ErrNotFound)
	}
	copied := *profile
	s.profiles[profile.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, seniorID id.SeniorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[seniorID]; !ok {
		return fmt.Errorf("profile %s: %w", seniorID, sentinel.ErrNotFound)
	}
	delete(s.profiles, seniorID)
	return nil
}

// CountAll returns the number of stored profiles. Used by tests to assert
// that failed validation touched nothing.
func (s *InMemory) CountAll(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}
