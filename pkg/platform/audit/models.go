package audit

import (
	"context"
	"time"

	id "carelink/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// identity provisioning and deletion, permission grants over health data.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring:
	// denied accesses, credential issuance.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility: partial saga failures, best-effort cleanup counts.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    Action        `json:"action"`
	// ActorID is the caregiver (or senior account) performing the action.
	ActorID id.CaregiverID `json:"actor_id"`
	// SeniorID is the senior profile the action concerns, when applicable.
	SeniorID id.SeniorID `json:"senior_id,omitempty"`
	// RelationID is the relation edge the action concerns, when applicable.
	RelationID id.RelationID `json:"relation_id,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
}

// Action names an auditable domain action.
type Action string

const (
	// Provisioning saga
	ActionSeniorProvisioned Action = "senior_provisioned"
	ActionProfileOrphaned   Action = "profile_orphaned"
	ActionSeniorDeleted     Action = "senior_deleted"
	ActionAccountRevoked    Action = "account_revoked"

	// Relation lifecycle
	ActionRelationRequested  Action = "relation_requested"
	ActionRelationApproved   Action = "relation_approved"
	ActionRelationRejected   Action = "relation_rejected"
	ActionRelationDeleted    Action = "relation_deleted"
	ActionPermissionsUpdated Action = "permissions_updated"

	// Health data
	ActionHealthRecordCreated Action = "health_record_created"
	ActionHealthAccessDenied  Action = "health_access_denied"
)

// Publisher delivers audit events to a sink. Emit must not block domain
// logic on sink failures; implementations log and drop instead.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
