package models

import (
	"time"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

// Status of a caregiver-senior relation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// Capability names one of the per-edge permission bits.
type Capability string

const (
	CapViewHealth      Capability = "view_health"
	CapEditHealth      Capability = "edit_health"
	CapViewReminders   Capability = "view_reminders"
	CapEditReminders   Capability = "edit_reminders"
	CapApproveRequests Capability = "approve_requests"
)

// Permissions holds the five independent capability flags of a relation.
// Flags are only meaningful while the relation status is active.
type Permissions struct {
	ViewHealth      bool `json:"view_health"`
	EditHealth      bool `json:"edit_health"`
	ViewReminders   bool `json:"view_reminders"`
	EditReminders   bool `json:"edit_reminders"`
	ApproveRequests bool `json:"approve_requests"`
}

// FullPermissions grants every capability. Used for the relation written at
// the end of a successful provisioning saga.
func FullPermissions() Permissions {
	return Permissions{
		ViewHealth:      true,
		EditHealth:      true,
		ViewReminders:   true,
		EditReminders:   true,
		ApproveRequests: true,
	}
}

// Has reports whether the capability flag is set.
func (p Permissions) Has(c Capability) bool {
	switch c {
	case CapViewHealth:
		return p.ViewHealth
	case CapEditHealth:
		return p.EditHealth
	case CapViewReminders:
		return p.ViewReminders
	case CapEditReminders:
		return p.EditReminders
	case CapApproveRequests:
		return p.ApproveRequests
	default:
		return false
	}
}

// CaregiverRelation is the authorization edge between a caregiver and a
// senior.
//
// Invariants:
//   - a caregiver has at most one relation record per senior
//   - capability flags are only meaningful when Status is active
//   - PasswordCopy is set only for caregiver-created seniors, so the
//     caregiver can relay the issued credential
//
// Concurrent approve/reject calls on the same pending relation are resolved
// by the store with last-write-wins; the later call overwrites the earlier
// status.
type CaregiverRelation struct {
	ID          id.RelationID  `json:"id"`
	CaregiverID id.CaregiverID `json:"caregiver_id"`
	SeniorID    id.SeniorID    `json:"senior_id"`
	Status      Status         `json:"status"`
	// Label is the kinship label, e.g. "Son" or "Nurse".
	Label        string         `json:"label"`
	Nickname     string         `json:"nickname"`
	Permissions  Permissions    `json:"permissions"`
	PasswordCopy string         `json:"-"`
	ApproverID   id.CaregiverID `json:"approver_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	ApprovedAt   time.Time      `json:"approved_at,omitzero"`
}

// NewActive builds the fully-permissioned active relation written by the
// provisioning saga. The deterministic pair ID enforces at most one relation
// per (caregiver, senior).
func NewActive(caregiverID id.CaregiverID, seniorID id.SeniorID, label, nickname, passwordCopy string, now time.Time) *CaregiverRelation {
	return &CaregiverRelation{
		ID:           id.PairRelationID(caregiverID, seniorID),
		CaregiverID:  caregiverID,
		SeniorID:     seniorID,
		Status:       StatusActive,
		Label:        label,
		Nickname:     nickname,
		Permissions:  FullPermissions(),
		PasswordCopy: passwordCopy,
		ApproverID:   caregiverID,
		CreatedAt:    now,
		ApprovedAt:   now,
	}
}

// NewPending builds a relation request awaiting approval. The caller
// supplies the store-assigned request ID.
func NewPending(requestID id.RelationID, caregiverID id.CaregiverID, seniorID id.SeniorID, label, nickname string, now time.Time) *CaregiverRelation {
	return &CaregiverRelation{
		ID:          requestID,
		CaregiverID: caregiverID,
		SeniorID:    seniorID,
		Status:      StatusPending,
		Label:       label,
		Nickname:    nickname,
		CreatedAt:   now,
	}
}

// IsActive reports whether the relation currently grants any access at all.
func (r *CaregiverRelation) IsActive() bool {
	return r.Status == StatusActive
}

// Grants reports whether the relation grants the capability: active status
// plus the flag.
func (r *CaregiverRelation) Grants(c Capability) bool {
	return r.IsActive() && r.Permissions.Has(c)
}

// CanDecide checks whether an approve or reject decision is still possible.
func (r *CaregiverRelation) CanDecide() error {
	if r.Status != StatusPending {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "relation is already %s", r.Status)
	}
	return nil
}

// ApplyApproval activates the relation with the granted permissions.
func (r *CaregiverRelation) ApplyApproval(approverID id.CaregiverID, granted Permissions, now time.Time) {
	r.Status = StatusActive
	r.Permissions = granted
	r.ApproverID = approverID
	r.ApprovedAt = now
}

// ApplyRejection marks the request rejected and clears any flags.
func (r *CaregiverRelation) ApplyRejection(approverID id.CaregiverID, now time.Time) {
	r.Status = StatusRejected
	r.Permissions = Permissions{}
	r.ApproverID = approverID
	r.ApprovedAt = now
}
