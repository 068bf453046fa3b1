// Package store provides the caregiver_relations collection with secondary
// lookup by (caregiverID, seniorID) and by seniorID alone.
//
// Error contract: sentinel.ErrNotFound for absent relations,
// sentinel.ErrConflict when a relation for the pair already exists, wrapped
// infrastructure errors otherwise. Updates are last-write-wins: concurrent
// approve/reject decisions on the same pending relation both succeed at the
// store level and the later write determines the final status.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"carelink/internal/relation/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

type pairKey struct {
	caregiverID id.CaregiverID
	seniorID    id.SeniorID
}

// InMemory stores relations in memory.
type InMemory struct {
	mu        sync.RWMutex
	relations map[id.RelationID]*models.CaregiverRelation
	byPair    map[pairKey]id.RelationID
}

// NewInMemory constructs an empty in-memory relation store.
func NewInMemory() *InMemory {
	return &InMemory{
		relations: make(map[id.RelationID]*models.CaregiverRelation),
		byPair:    make(map[pairKey]id.RelationID),
	}
}

// Create persists a new relation. At most one relation may exist per
// (caregiver, senior) pair regardless of status.
func (s *InMemory) Create(_ context.Context, relation *models.CaregiverRelation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{relation.CaregiverID, relation.SeniorID}
	if _, exists := s.byPair[key]; exists {
		return fmt.Errorf("relation for pair (%s, %s) already exists: %w",
			relation.CaregiverID, relation.SeniorID, sentinel.ErrConflict)
	}
	if _, exists := s.relations[relation.ID]; exists {
		return fmt.Errorf("relation %s already exists: %w", relation.ID, sentinel.ErrConflict)
	}
	copied := *relation
	s.relations[relation.ID] = &copied
	s.byPair[key] = relation.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, relationID id.RelationID) (*models.CaregiverRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	relation, ok := s.relations[relationID]
	if !ok {
		return nil, fmt.Errorf("relation %s: %w", relationID, sentinel.ErrNotFound)
	}
	copied := *relation
	return &copied, nil
}

func (s *InMemory) FindByPair(_ context.Context, caregiverID id.CaregiverID, seniorID id.SeniorID) (*models.CaregiverRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	relationID, ok := s.byPair[pairKey{caregiverID, seniorID}]
	if !ok {
		return nil, fmt.Errorf("relation for pair (%s, %s): %w", caregiverID, seniorID, sentinel.ErrNotFound)
	}
	copied := *s.relations[relationID]
	return &copied, nil
}

func (s *InMemory) ListBySenior(_ context.Context, seniorID id.SeniorID) ([]*models.CaregiverRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.CaregiverRelation
	for _, relation := range s.relations {
		if relation.SeniorID == seniorID {
			copied := *relation
			out = append(out, &copied)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemory) ListByCaregiver(_ context.Context, caregiverID id.CaregiverID) ([]*models.CaregiverRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.CaregiverRelation
	for _, relation := range s.relations {
		if relation.CaregiverID == caregiverID {
			copied := *relation
			out = append(out, &copied)
		}
	}
	sortByCreation(out)
	return out, nil
}

// Update replaces the stored relation. Last write wins.
func (s *InMemory) Update(_ context.Context, relation *models.CaregiverRelation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.relations[relation.ID]; !ok {
		return fmt.Errorf("relation %s: %w", relation.ID, sentinel.ErrNotFound)
	}
	copied := *relation
	s.relations[relation.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, relationID id.RelationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	relation, ok := s.relations[relationID]
	if !ok {
		return fmt.Errorf("relation %s: %w", relationID, sentinel.ErrNotFound)
	}
	delete(s.byPair, pairKey{relation.CaregiverID, relation.SeniorID})
	delete(s.relations, relationID)
	return nil
}

// DeleteBySenior removes all relations of a senior and returns how many
// were deleted. Zero deletions is not an error; the deletion saga treats
// this as best-effort cleanup.
func (s *InMemory) DeleteBySenior(_ context.Context, seniorID id.SeniorID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for relationID, relation := range s.relations {
		if relation.SeniorID == seniorID {
			delete(s.byPair, pairKey{relation.CaregiverID, relation.SeniorID})
			delete(s.relations, relationID)
			deleted++
		}
	}
	return deleted, nil
}

func sortByCreation(relations []*models.CaregiverRelation) {
	sort.Slice(relations, func(i, j int) bool {
		if relations[i].CreatedAt.Equal(relations[j].CreatedAt) {
			return relations[i].ID < relations[j].ID
		}
		return relations[i].CreatedAt.Before(relations[j].CreatedAt)
	})
}
