// Package permission resolves the effective capability set of a requester
// over a senior's data from the relation graph.
package permission

import (
	"context"
	"errors"

	profilemodels "carelink/internal/profile/models"
	relationmodels "carelink/internal/relation/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/sentinel"
)

// RelationStore is the slice of the relation store the evaluator needs.
type RelationStore interface {
	FindByPair(ctx context.Context, caregiverID id.CaregiverID, seniorID id.SeniorID) (*relationmodels.CaregiverRelation, error)
}

// ProfileStore is the slice of the profile store the evaluator needs.
type ProfileStore interface {
	FindByID(ctx context.Context, seniorID id.SeniorID) (*profilemodels.SeniorProfile, error)
}

// Evaluator decides capability questions. Deterministic and side-effect-free
// beyond the underlying store reads.
//
// Senior-own-data rule: a requester whose account is the profile's linked
// account has full access. This is resolved against the profile store, not
// the relation graph, since a senior has no relation record with themselves.
type Evaluator struct {
	relations RelationStore
	profiles  ProfileStore
}

func NewEvaluator(relations RelationStore, profiles ProfileStore) *Evaluator {
	return &Evaluator{relations: relations, profiles: profiles}
}

// Can reports whether the requester holds the capability over the senior.
// A missing profile or missing/non-active relation yields false without
// error; only infrastructure failures are returned.
func (e *Evaluator) Can(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID, capability relationmodels.Capability) (bool, error) {
	if requesterID.IsEmpty() || seniorID.IsEmpty() {
		return false, nil
	}

	profile, err := e.profiles.FindByID(ctx, seniorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile for permission check")
	}
	if profile.IsOwnedBy(id.AccountID(requesterID)) {
		return true, nil
	}

	relation, err := e.relations.FindByPair(ctx, requesterID, seniorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load relation for permission check")
	}
	return relation.Grants(capability), nil
}

// CanViewHealth reports view access to health data.
func (e *Evaluator) CanViewHealth(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error) {
	return e.Can(ctx, requesterID, seniorID, relationmodels.CapViewHealth)
}

// CanEditHealth reports write access to health data.
func (e *Evaluator) CanEditHealth(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error) {
	return e.Can(ctx, requesterID, seniorID, relationmodels.CapEditHealth)
}

// CanViewReminders reports view access to reminders.
func (e *Evaluator) CanViewReminders(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error) {
	return e.Can(ctx, requesterID, seniorID, relationmodels.CapViewReminders)
}

// CanEditReminders reports write access to reminders.
func (e *Evaluator) CanEditReminders(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error) {
	return e.Can(ctx, requesterID, seniorID, relationmodels.CapEditReminders)
}

// CanApproveRequests reports whether the requester may approve relation
// requests and deletion of the senior's identity.
func (e *Evaluator) CanApproveRequests(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (bool, error) {
	return e.Can(ctx, requesterID, seniorID, relationmodels.CapApproveRequests)
}
