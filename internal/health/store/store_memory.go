// Package store provides the health_records collection with secondary
// lookup by senior and by (senior, type).
//
// Error contract: sentinel.ErrNotFound for absent records, wrapped
// infrastructure errors otherwise.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"carelink/internal/health/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

// InMemory stores health records in memory.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.RecordID]*models.HealthRecord
}

// NewInMemory constructs an empty in-memory health record store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.RecordID]*models.HealthRecord)}
}

// Create persists a record, assigning its ID.
func (s *InMemory) Create(_ context.Context, record *models.HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID.IsEmpty() {
		record.ID = id.RecordID(uuid.NewString())
	}
	copied := *record
	s.records[record.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, recordID id.RecordID) (*models.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[recordID]
	if !ok {
		return nil, fmt.Errorf("health record %s: %w", recordID, sentinel.ErrNotFound)
	}
	copied := *record
	return &copied, nil
}

func (s *InMemory) ListBySenior(_ context.Context, seniorID id.SeniorID) ([]*models.HealthRecord, error) {
	return s.collect(func(r *models.HealthRecord) bool {
		return r.SeniorID == seniorID
	}), nil
}

func (s *InMemory) ListBySeniorAndType(_ context.Context, seniorID id.SeniorID, recordType models.RecordType) ([]*models.HealthRecord, error) {
	return s.collect(func(r *models.HealthRecord) bool {
		return r.SeniorID == seniorID && r.Type == recordType
	}), nil
}

// LatestBySeniorAndType returns the most recently recorded measurement of
// the given type, or ErrNotFound if the senior has none.
func (s *InMemory) LatestBySeniorAndType(_ context.Context, seniorID id.SeniorID, recordType models.RecordType) (*models.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.HealthRecord
	for _, record := range s.records {
		if record.SeniorID != seniorID || record.Type != recordType {
			continue
		}
		if latest == nil || record.RecordedAt.After(latest.RecordedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no %s record for %s: %w", recordType, seniorID, sentinel.ErrNotFound)
	}
	copied := *latest
	return &copied, nil
}

// DeleteBySenior removes all records of a senior and returns the count.
func (s *InMemory) DeleteBySenior(_ context.Context, seniorID id.SeniorID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for recordID, record := range s.records {
		if record.SeniorID == seniorID {
			delete(s.records, recordID)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemory) collect(match func(*models.HealthRecord) bool) []*models.HealthRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.HealthRecord
	for _, record := range s.records {
		if match(record) {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out
}
