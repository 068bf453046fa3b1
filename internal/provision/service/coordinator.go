// Package service orchestrates the provisioning and deprovisioning sagas.
//
// The sagas span two independently-failing systems (the profile store and
// the external account issuer) with no global transaction. Each step commits
// independently; intermediate states are surfaced, not hidden. Creation
// fails fast and leaves partial state observable (an orphaned profile when
// the issuer fails). Deletion is the opposite: best-effort and lenient, it
// aggregates failures into the report instead of raising them.
//
// No step is retried automatically. Re-invoking creation after a partial
// failure creates a duplicate profile rather than resuming; saga resumption
// is a known gap recorded in DESIGN.md.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"carelink/internal/issuer"
	provisionmetrics "carelink/internal/provision/metrics"
	"carelink/internal/provision/models"
	profilemodels "carelink/internal/profile/models"
	relationmodels "carelink/internal/relation/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/audit"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/requestcontext"
)

// Saga stages, used for metrics and failure reporting.
const (
	StageValidating      = "validating"
	StageProfileCreated  = "profile_created"
	StageAccountIssued   = "account_issued"
	StageRelationCreated = "relation_created"
)

// ProfileStore is the slice of the profile store the coordinator needs.
type ProfileStore interface {
	Create(ctx context.Context, profile *profilemodels.SeniorProfile) error
	FindByID(ctx context.Context, seniorID id.SeniorID) (*profilemodels.SeniorProfile, error)
	Update(ctx context.Context, profile *profilemodels.SeniorProfile) error
	Delete(ctx context.Context, seniorID id.SeniorID) error
}

// RelationStore is the slice of the relation store the coordinator needs.
type RelationStore interface {
	Create(ctx context.Context, relation *relationmodels.CaregiverRelation) error
	DeleteBySenior(ctx context.Context, seniorID id.SeniorID) (int, error)
}

// HealthRecordStore is the slice of the health store the coordinator needs.
type HealthRecordStore interface {
	DeleteBySenior(ctx context.Context, seniorID id.SeniorID) (int, error)
}

// Authorizer answers the deletion authorization question for requesters who
// are not the profile's creator.
type Authorizer interface {
	CanApproveRequests(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error)
}

// TicketStore stores one-time login tickets.
type TicketStore interface {
	Put(ctx context.Context, ticketID, encodedPayload string, ttl time.Duration) error
}

// Coordinator drives the creation and deletion sagas.
type Coordinator struct {
	profiles  ProfileStore
	relations RelationStore
	records   HealthRecordStore
	issuer    issuer.AccountIssuer
	authz     Authorizer

	tickets   TicketStore
	ticketTTL time.Duration

	logger  *slog.Logger
	metrics *provisionmetrics.Metrics
	auditor audit.Publisher
	tracer  trace.Tracer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables provisioning metrics.
func WithMetrics(m *provisionmetrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithAuditPublisher enables audit events.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(c *Coordinator) {
		if p != nil {
			c.auditor = p
		}
	}
}

// WithTicketStore enables one-time login tickets with the given TTL.
func WithTicketStore(store TicketStore, ttl time.Duration) Option {
	return func(c *Coordinator) {
		c.tickets = store
		c.ticketTTL = ttl
	}
}

// NewCoordinator wires the saga dependencies.
func NewCoordinator(
	profiles ProfileStore,
	relations RelationStore,
	records HealthRecordStore,
	accountIssuer issuer.AccountIssuer,
	authz Authorizer,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		profiles:  profiles,
		relations: relations,
		records:   records,
		issuer:    accountIssuer,
		authz:     authz,
		logger:    slog.Default(),
		auditor:   audit.NewSlogPublisher(slog.Default()),
		tracer:    otel.Tracer("carelink/provision"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSeniorIdentity runs the creation saga:
// validate -> create profile -> issue account -> write relation -> result.
//
// Validation failures happen before any external call. An issuer failure
// leaves an orphaned profile with no relation and no external account; this
// partial state is surfaced through the returned error code
// (CodeExternalService) while the profile stays retrievable. No rollback.
func (c *Coordinator) CreateSeniorIdentity(ctx context.Context, req models.CreateSeniorRequest) (*models.ProvisionedSenior, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "CreateSeniorIdentity")
	defer span.End()

	now := requestcontext.Now(ctx)

	profile, err := profilemodels.NewCaregiverCreated(req.Name, req.Age, req.Gender, req.Avatar, req.CreatorID, now)
	if err != nil {
		c.metrics.IncrementFailure(StageValidating)
		return nil, err
	}

	if err := c.profiles.Create(ctx, profile); err != nil {
		c.metrics.IncrementFailure(StageProfileCreated)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create senior profile")
	}
	span.SetAttributes(attribute.String("senior.id", profile.ID.String()))

	account, err := c.issuer.CreateAccount(ctx, issuer.CreateRequest{
		SeniorID: profile.ID,
		Name:     profile.Name,
		Password: req.Password,
	})
	if err != nil {
		// Accepted partial-failure state: the profile stays behind with no
		// relation and no external account. A reconciliation job is the only
		// way to reclaim it.
		c.metrics.IncrementFailure(StageAccountIssued)
		c.logger.ErrorContext(ctx, "account issuance failed, profile orphaned",
			"senior_id", profile.ID.String(),
			"creator_id", req.CreatorID.String(),
			"error", err.Error(),
		)
		c.emit(ctx, audit.Event{
			Category: audit.CategoryOperations,
			Action:   audit.ActionProfileOrphaned,
			ActorID:  req.CreatorID,
			SeniorID: profile.ID,
			Reason:   err.Error(),
		})
		return nil, err
	}

	profile.BindAccount(account.AccountID, now)
	if err := c.profiles.Update(ctx, profile); err != nil {
		c.metrics.IncrementFailure(StageAccountIssued)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to bind issued account to profile")
	}

	relation := relationmodels.NewActive(req.CreatorID, profile.ID, req.Label, req.Nickname, account.Password, now)
	if err := c.relations.Create(ctx, relation); err != nil {
		c.metrics.IncrementFailure(StageRelationCreated)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create caregiver relation")
	}

	payload := models.NewLoginPayload(profile.ID, account.Password)
	result := &models.ProvisionedSenior{
		Profile:      profile,
		Account:      *account,
		Relation:     relation,
		LoginPayload: payload,
	}

	if c.tickets != nil {
		ticketID := uuid.NewString()
		if err := c.tickets.Put(ctx, ticketID, payload.Encode(), c.ticketTTL); err != nil {
			// The payload is already in the response; a missing ticket only
			// disables the scan-based handoff.
			c.logger.WarnContext(ctx, "failed to store login ticket",
				"senior_id", profile.ID.String(),
				"error", err.Error(),
			)
		} else {
			result.TicketID = ticketID
		}
	}

	c.emit(ctx, audit.Event{
		Category:   audit.CategoryCompliance,
		Action:     audit.ActionSeniorProvisioned,
		ActorID:    req.CreatorID,
		SeniorID:   profile.ID,
		RelationID: relation.ID,
	})
	c.metrics.IncrementProvisioned()
	c.metrics.ObserveProvision(start)
	return result, nil
}

// DeleteSeniorIdentity runs the deletion saga in reverse order with
// best-effort compensation. The requester must be the profile's creator or
// hold an active relation with the approve-requests flag (the senior's own
// account also qualifies through the own-data rule).
func (c *Coordinator) DeleteSeniorIdentity(ctx context.Context, seniorID id.SeniorID, requesterID id.CaregiverID) (*models.DeletionReport, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "DeleteSeniorIdentity",
		trace.WithAttributes(attribute.String("senior.id", seniorID.String())))
	defer span.End()

	if seniorID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "senior id is required")
	}
	if requesterID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "requester id is required")
	}

	profile, err := c.profiles.FindByID(ctx, seniorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "senior profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load senior profile")
	}

	if profile.CreatorID != requesterID {
		allowed, err := c.authz.CanApproveRequests(ctx, requesterID, seniorID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			c.emit(ctx, audit.Event{
				Category: audit.CategorySecurity,
				Action:   audit.ActionHealthAccessDenied,
				ActorID:  requesterID,
				SeniorID: seniorID,
				Reason:   "deletion denied",
			})
			return nil, dErrors.New(dErrors.CodeForbidden, "requester may not delete this senior")
		}
	}

	report := &models.DeletionReport{SeniorID: seniorID}

	recordsDeleted, err := c.records.DeleteBySenior(ctx, seniorID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to delete health records",
			"senior_id", seniorID.String(), "error", err.Error())
		report.CleanupErrors = append(report.CleanupErrors, "health records: "+err.Error())
	} else {
		report.RecordsDeleted = recordsDeleted
	}

	relationsDeleted, err := c.relations.DeleteBySenior(ctx, seniorID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to delete relations",
			"senior_id", seniorID.String(), "error", err.Error())
		report.CleanupErrors = append(report.CleanupErrors, "relations: "+err.Error())
	} else {
		report.RelationsDeleted = relationsDeleted
	}

	if err := c.profiles.Delete(ctx, seniorID); err != nil {
		// The profile is the success criterion of the saga. Report the saga
		// as having deleted nothing and skip account revocation; dependent
		// deletions that already happened are noted for the operator.
		c.logger.ErrorContext(ctx, "failed to delete senior profile",
			"senior_id", seniorID.String(), "error", err.Error())
		report.CleanupErrors = append(report.CleanupErrors,
			"profile: "+err.Error())
		report.RecordsDeleted = 0
		report.RelationsDeleted = 0
		report.ProfileDeleted = false
		return report, nil
	}
	report.ProfileDeleted = true

	if err := c.issuer.DeleteAccount(ctx, seniorID); err != nil {
		c.logger.ErrorContext(ctx, "failed to revoke external account",
			"senior_id", seniorID.String(), "error", err.Error())
		report.CleanupErrors = append(report.CleanupErrors, "account: "+err.Error())
	} else {
		report.AccountRevoked = true
		c.emit(ctx, audit.Event{
			Category: audit.CategoryCompliance,
			Action:   audit.ActionAccountRevoked,
			ActorID:  requesterID,
			SeniorID: seniorID,
		})
	}

	c.emit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		Action:   audit.ActionSeniorDeleted,
		ActorID:  requesterID,
		SeniorID: seniorID,
	})
	c.metrics.IncrementDeleted()
	c.metrics.ObserveDeletion(start)
	return report, nil
}

func (c *Coordinator) emit(ctx context.Context, event audit.Event) {
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := c.auditor.Emit(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(event.Action), "error", err.Error())
	}
}
