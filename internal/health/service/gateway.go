// Package service implements the permission-gated gateway in front of the
// health record store. Every read checks view-health and every write checks
// edit-health against the caller's relation to the senior before the store
// is touched.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"carelink/internal/health/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/audit"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/requestcontext"
)

// RecordStore persists health records.
type RecordStore interface {
	Create(ctx context.Context, record *models.HealthRecord) error
	ListBySenior(ctx context.Context, seniorID id.SeniorID) ([]*models.HealthRecord, error)
	ListBySeniorAndType(ctx context.Context, seniorID id.SeniorID, recordType models.RecordType) ([]*models.HealthRecord, error)
	LatestBySeniorAndType(ctx context.Context, seniorID id.SeniorID, recordType models.RecordType) (*models.HealthRecord, error)
}

// Evaluator answers the two capability questions the gateway needs.
type Evaluator interface {
	CanViewHealth(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error)
	CanEditHealth(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error)
}

// Gateway fronts the record store with permission checks.
type Gateway struct {
	records RecordStore
	authz   Evaluator

	logger  *slog.Logger
	auditor audit.Publisher
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithAuditPublisher enables audit events.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(g *Gateway) {
		if p != nil {
			g.auditor = p
		}
	}
}

// NewGateway wires the gateway dependencies.
func NewGateway(records RecordStore, authz Evaluator, opts ...Option) *Gateway {
	g := &Gateway{
		records: records,
		authz:   authz,
		logger:  slog.Default(),
		auditor: audit.NewSlogPublisher(slog.Default()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Summary returns the latest record of every type for the senior, fetched
// concurrently per type. Types with no records yet are absent from the map.
func (g *Gateway) Summary(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (*models.Summary, error) {
	if err := g.requireView(ctx, requesterID, seniorID); err != nil {
		return nil, err
	}

	summary := &models.Summary{
		SeniorID: seniorID,
		Latest:   make(map[models.RecordType]*models.HealthRecord),
	}
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	for _, recordType := range models.Types() {
		group.Go(func() error {
			latest, err := g.records.LatestBySeniorAndType(gctx, seniorID, recordType)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return nil
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load latest record")
			}
			mu.Lock()
			summary.Latest[recordType] = latest
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// ListRecords returns the senior's records, newest first, optionally
// filtered by type. An empty recordType means all types.
func (g *Gateway) ListRecords(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID, recordType models.RecordType) ([]*models.HealthRecord, error) {
	if err := g.requireView(ctx, requesterID, seniorID); err != nil {
		return nil, err
	}

	if recordType == "" {
		records, err := g.records.ListBySenior(ctx, seniorID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
		}
		return records, nil
	}

	if !models.ValidType(recordType) {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown record type %q", recordType)
	}
	records, err := g.records.ListBySeniorAndType(ctx, seniorID, recordType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	return records, nil
}

// SaveRecord validates and stores a new measurement. The requester needs the
// edit-health capability; validation runs after the permission gate so a
// denied caller learns nothing about accepted value ranges.
func (g *Gateway) SaveRecord(ctx context.Context, requesterID id.CaregiverID, record *models.HealthRecord) (*models.HealthRecord, error) {
	if record == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "record is required")
	}

	allowed, err := g.authz.CanEditHealth(ctx, requesterID, record.SeniorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		g.denied(ctx, requesterID, record.SeniorID, "edit health denied")
		return nil, dErrors.New(dErrors.CodeForbidden, "requester may not edit health records for this senior")
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	record.RecordedBy = requesterID
	if record.RecordedAt.IsZero() {
		record.RecordedAt = now
	}
	record.CreatedAt = now

	if err := g.records.Create(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store record")
	}

	g.emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		Action:   audit.ActionHealthRecordCreated,
		ActorID:  requesterID,
		SeniorID: record.SeniorID,
	})
	return record, nil
}

func (g *Gateway) requireView(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) error {
	if seniorID.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "senior id is required")
	}
	allowed, err := g.authz.CanViewHealth(ctx, requesterID, seniorID)
	if err != nil {
		return err
	}
	if !allowed {
		g.denied(ctx, requesterID, seniorID, "view health denied")
		return dErrors.New(dErrors.CodeForbidden, "requester may not view health records for this senior")
	}
	return nil
}

func (g *Gateway) denied(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID, reason string) {
	g.emit(ctx, audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.ActionHealthAccessDenied,
		ActorID:  requesterID,
		SeniorID: seniorID,
		Reason:   reason,
	})
}

func (g *Gateway) emit(ctx context.Context, event audit.Event) {
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := g.auditor.Emit(ctx, event); err != nil {
		g.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(event.Action), "error", err.Error())
	}
}
