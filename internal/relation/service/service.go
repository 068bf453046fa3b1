// Package service implements the caregiver-relation lifecycle: request,
// decision (approve or reject), permission and nickname edits, and removal.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	profilemodels "carelink/internal/profile/models"
	"carelink/internal/relation/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/audit"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/requestcontext"
)

// RelationStore persists caregiver relations.
type RelationStore interface {
	Create(ctx context.Context, relation *models.CaregiverRelation) error
	FindByID(ctx context.Context, relationID id.RelationID) (*models.CaregiverRelation, error)
	FindByPair(ctx context.Context, caregiverID id.CaregiverID, seniorID id.SeniorID) (*models.CaregiverRelation, error)
	ListBySenior(ctx context.Context, seniorID id.SeniorID) ([]*models.CaregiverRelation, error)
	ListByCaregiver(ctx context.Context, caregiverID id.CaregiverID) ([]*models.CaregiverRelation, error)
	Update(ctx context.Context, relation *models.CaregiverRelation) error
	Delete(ctx context.Context, relationID id.RelationID) error
}

// ProfileStore checks that the senior a request targets exists.
type ProfileStore interface {
	FindByID(ctx context.Context, seniorID id.SeniorID) (*profilemodels.SeniorProfile, error)
}

// Authorizer decides whether a requester may act on behalf of the senior.
type Authorizer interface {
	CanApproveRequests(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error)
}

// Service drives the relation lifecycle.
type Service struct {
	relations RelationStore
	profiles  ProfileStore
	authz     Authorizer

	logger  *slog.Logger
	auditor audit.Publisher
	newID   func() id.RelationID
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditPublisher enables audit events.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.auditor = p
		}
	}
}

// WithIDGenerator overrides request id generation, for deterministic tests.
func WithIDGenerator(gen func() id.RelationID) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService wires the relation lifecycle dependencies.
func NewService(relations RelationStore, profiles ProfileStore, authz Authorizer, opts ...Option) *Service {
	s := &Service{
		relations: relations,
		profiles:  profiles,
		authz:     authz,
		logger:    slog.Default(),
		auditor:   audit.NewSlogPublisher(slog.Default()),
		newID:     func() id.RelationID { return id.RelationID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request files a pending relation from a caregiver towards an existing
// senior. At most one relation may exist per pair, regardless of status; a
// rejected request must be deleted before a new one can be filed.
func (s *Service) Request(ctx context.Context, caregiverID id.CaregiverID, seniorID id.SeniorID, label, nickname string) (*models.CaregiverRelation, error) {
	if caregiverID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "caregiver id is required")
	}
	if seniorID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "senior id is required")
	}

	if _, err := s.profiles.FindByID(ctx, seniorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "senior profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load senior profile")
	}

	relation := models.NewPending(s.newID(), caregiverID, seniorID, label, nickname, requestcontext.Now(ctx))
	if err := s.relations.Create(ctx, relation); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "a relation for this caregiver and senior already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create relation request")
	}

	s.emit(ctx, audit.Event{
		Category:   audit.CategorySecurity,
		Action:     audit.ActionRelationRequested,
		ActorID:    caregiverID,
		SeniorID:   seniorID,
		RelationID: relation.ID,
	})
	return relation, nil
}

// Approve activates a pending relation with the granted flags. The decider
// must hold the approve-requests capability over the senior, or be the
// senior's own account.
func (s *Service) Approve(ctx context.Context, relationID id.RelationID, deciderID id.CaregiverID, granted models.Permissions) (*models.CaregiverRelation, error) {
	relation, err := s.decidable(ctx, relationID, deciderID)
	if err != nil {
		return nil, err
	}

	relation.ApplyApproval(deciderID, granted, requestcontext.Now(ctx))
	if err := s.relations.Update(ctx, relation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store approval")
	}

	s.emit(ctx, audit.Event{
		Category:   audit.CategorySecurity,
		Action:     audit.ActionRelationApproved,
		ActorID:    deciderID,
		SeniorID:   relation.SeniorID,
		RelationID: relation.ID,
	})
	return relation, nil
}

// Reject declines a pending relation.
func (s *Service) Reject(ctx context.Context, relationID id.RelationID, deciderID id.CaregiverID, reason string) (*models.CaregiverRelation, error) {
	relation, err := s.decidable(ctx, relationID, deciderID)
	if err != nil {
		return nil, err
	}

	relation.ApplyRejection(deciderID, requestcontext.Now(ctx))
	if err := s.relations.Update(ctx, relation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store rejection")
	}

	s.emit(ctx, audit.Event{
		Category:   audit.CategorySecurity,
		Action:     audit.ActionRelationRejected,
		ActorID:    deciderID,
		SeniorID:   relation.SeniorID,
		RelationID: relation.ID,
		Reason:     reason,
	})
	return relation, nil
}

// decidable loads a relation, checks it is still pending and that the
// decider may decide for the senior.
func (s *Service) decidable(ctx context.Context, relationID id.RelationID, deciderID id.CaregiverID) (*models.CaregiverRelation, error) {
	relation, err := s.find(ctx, relationID)
	if err != nil {
		return nil, err
	}
	if err := relation.CanDecide(); err != nil {
		return nil, err
	}
	if err := s.requireApprover(ctx, deciderID, relation.SeniorID); err != nil {
		return nil, err
	}
	return relation, nil
}

// UpdatePermissions replaces the capability flags of an active relation.
// Only an approver for the senior (or the senior's own account) may change
// flags; caregivers cannot raise their own permissions.
func (s *Service) UpdatePermissions(ctx context.Context, relationID id.RelationID, requesterID id.CaregiverID, perms models.Permissions) (*models.CaregiverRelation, error) {
	relation, err := s.find(ctx, relationID)
	if err != nil {
		return nil, err
	}
	if !relation.IsActive() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "cannot set permissions on a %s relation", relation.Status)
	}
	if err := s.requireApprover(ctx, requesterID, relation.SeniorID); err != nil {
		return nil, err
	}

	relation.Permissions = perms
	if err := s.relations.Update(ctx, relation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store permissions")
	}

	s.emit(ctx, audit.Event{
		Category:   audit.CategorySecurity,
		Action:     audit.ActionPermissionsUpdated,
		ActorID:    requesterID,
		SeniorID:   relation.SeniorID,
		RelationID: relation.ID,
	})
	return relation, nil
}

// UpdateNickname changes the caregiver's private nickname for the senior.
// Only the relation's own caregiver may edit it.
func (s *Service) UpdateNickname(ctx context.Context, relationID id.RelationID, requesterID id.CaregiverID, nickname string) (*models.CaregiverRelation, error) {
	relation, err := s.find(ctx, relationID)
	if err != nil {
		return nil, err
	}
	if relation.CaregiverID != requesterID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the relation's caregiver may edit the nickname")
	}

	relation.Nickname = nickname
	if err := s.relations.Update(ctx, relation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store nickname")
	}
	return relation, nil
}

// Delete removes a relation. The relation's own caregiver may sever it, as
// may an approver for the senior.
func (s *Service) Delete(ctx context.Context, relationID id.RelationID, requesterID id.CaregiverID) error {
	relation, err := s.find(ctx, relationID)
	if err != nil {
		return err
	}
	if relation.CaregiverID != requesterID {
		if err := s.requireApprover(ctx, requesterID, relation.SeniorID); err != nil {
			return err
		}
	}

	if err := s.relations.Delete(ctx, relationID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "relation not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete relation")
	}

	s.emit(ctx, audit.Event{
		Category:   audit.CategorySecurity,
		Action:     audit.ActionRelationDeleted,
		ActorID:    requesterID,
		SeniorID:   relation.SeniorID,
		RelationID: relation.ID,
	})
	return nil
}

// ListBySenior returns every relation edge pointing at the senior.
func (s *Service) ListBySenior(ctx context.Context, seniorID id.SeniorID) ([]*models.CaregiverRelation, error) {
	relations, err := s.relations.ListBySenior(ctx, seniorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list relations")
	}
	return relations, nil
}

// ListByCaregiver returns every relation edge owned by the caregiver.
func (s *Service) ListByCaregiver(ctx context.Context, caregiverID id.CaregiverID) ([]*models.CaregiverRelation, error) {
	relations, err := s.relations.ListByCaregiver(ctx, caregiverID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list relations")
	}
	return relations, nil
}

func (s *Service) find(ctx context.Context, relationID id.RelationID) (*models.CaregiverRelation, error) {
	relation, err := s.relations.FindByID(ctx, relationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "relation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load relation")
	}
	return relation, nil
}

func (s *Service) requireApprover(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) error {
	allowed, err := s.authz.CanApproveRequests(ctx, requesterID, seniorID)
	if err != nil {
		return err
	}
	if !allowed {
		return dErrors.New(dErrors.CodeForbidden, "requester may not decide for this senior")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(event.Action), "error", err.Error())
	}
}
