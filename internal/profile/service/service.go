// Package service exposes permission-gated reads and demographic updates of
// senior profiles. Provisioning and deletion of profiles live in the
// provisioning saga, not here.
package service

import (
	"context"
	"errors"
	"log/slog"

	"carelink/internal/profile/models"
	relationmodels "carelink/internal/relation/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/requestcontext"
)

// ProfileStore persists senior profiles.
type ProfileStore interface {
	FindByID(ctx context.Context, seniorID id.SeniorID) (*models.SeniorProfile, error)
	Update(ctx context.Context, profile *models.SeniorProfile) error
}

// RelationStore resolves whether a requester is related to a senior at all.
type RelationStore interface {
	FindByPair(ctx context.Context, caregiverID id.CaregiverID, seniorID id.SeniorID) (*relationmodels.CaregiverRelation, error)
}

// Authorizer gates demographic edits.
type Authorizer interface {
	CanApproveRequests(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error)
}

// Service answers profile reads and applies demographic updates.
type Service struct {
	profiles  ProfileStore
	relations RelationStore
	authz     Authorizer
	logger    *slog.Logger
}

// NewService wires the profile service dependencies.
func NewService(profiles ProfileStore, relations RelationStore, authz Authorizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{profiles: profiles, relations: relations, authz: authz, logger: logger}
}

// Get returns the profile for the profile's creator, the senior's own
// account, or any caregiver holding an active relation to the senior.
func (s *Service) Get(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (*models.SeniorProfile, error) {
	profile, err := s.load(ctx, seniorID)
	if err != nil {
		return nil, err
	}
	if s.mayView(ctx, requesterID, profile) {
		return profile, nil
	}
	return nil, dErrors.New(dErrors.CodeForbidden, "requester may not view this profile")
}

// Update applies a demographic update. Allowed for the creator, the senior's
// own account, or an approver-capable caregiver.
func (s *Service) Update(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID, update models.Update) (*models.SeniorProfile, error) {
	profile, err := s.load(ctx, seniorID)
	if err != nil {
		return nil, err
	}

	if profile.CreatorID != requesterID {
		allowed, err := s.authz.CanApproveRequests(ctx, requesterID, seniorID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, dErrors.New(dErrors.CodeForbidden, "requester may not edit this profile")
		}
	}

	if err := profile.ApplyUpdate(update, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store profile update")
	}
	return profile, nil
}

func (s *Service) load(ctx context.Context, seniorID id.SeniorID) (*models.SeniorProfile, error) {
	if seniorID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "senior id is required")
	}
	profile, err := s.profiles.FindByID(ctx, seniorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "senior profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load senior profile")
	}
	return profile, nil
}

func (s *Service) mayView(ctx context.Context, requesterID id.CaregiverID, profile *models.SeniorProfile) bool {
	if profile.CreatorID == requesterID {
		return true
	}
	if profile.IsOwnedBy(id.AccountID(requesterID)) {
		return true
	}
	relation, err := s.relations.FindByPair(ctx, requesterID, profile.ID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.ErrorContext(ctx, "relation lookup failed during profile view check",
				"senior_id", profile.ID.String(), "error", err.Error())
		}
		return false
	}
	return relation.IsActive()
}
