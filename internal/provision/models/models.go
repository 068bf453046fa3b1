package models

import (
	"encoding/base64"
	"encoding/json"

	"carelink/internal/issuer"
	profilemodels "carelink/internal/profile/models"
	relationmodels "carelink/internal/relation/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

// LoginPayloadType is the type marker of the machine-readable login payload.
const LoginPayloadType = "carelink/senior-login"

// LoginPayload is the small structured payload handed to the caregiver for
// out-of-band credential transfer, e.g. rendered as a scannable code on the
// caregiver's device and scanned by the senior's.
type LoginPayload struct {
	Type     string      `json:"type"`
	SeniorID id.SeniorID `json:"senior_id"`
	Password string      `json:"password"`
}

// NewLoginPayload builds a payload with the type marker set.
func NewLoginPayload(seniorID id.SeniorID, password string) LoginPayload {
	return LoginPayload{Type: LoginPayloadType, SeniorID: seniorID, Password: password}
}

// Encode serializes the payload for embedding in a scannable code.
func (p LoginPayload) Encode() string {
	raw, _ := json.Marshal(p)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeLoginPayload parses an encoded payload, rejecting unknown type
// markers.
func DecodeLoginPayload(encoded string) (LoginPayload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return LoginPayload{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed login payload")
	}
	var p LoginPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return LoginPayload{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed login payload")
	}
	if p.Type != LoginPayloadType {
		return LoginPayload{}, dErrors.Newf(dErrors.CodeBadRequest, "unknown login payload type %q", p.Type)
	}
	return p, nil
}

// CreateSeniorRequest carries the caregiver's provisioning input.
type CreateSeniorRequest struct {
	Name      string
	Age       int
	Gender    string
	Avatar    string
	CreatorID id.CaregiverID
	// Password is optional; empty requests auto-generation by the issuer.
	Password string
	// Label is the kinship label of the creating caregiver, e.g. "Son".
	Label    string
	Nickname string
}

// ProvisionedSenior is the composite result of a successful creation saga.
type ProvisionedSenior struct {
	Profile      *profilemodels.SeniorProfile      `json:"profile"`
	Account      issuer.IssuedAccount              `json:"account"`
	Relation     *relationmodels.CaregiverRelation `json:"relation"`
	LoginPayload LoginPayload                      `json:"login_payload"`
	// TicketID references the one-time login ticket, when ticket storage
	// is configured.
	TicketID string `json:"ticket_id,omitempty"`
}

// DeletionReport is the composite result of the deletion saga. Partial
// failures are reported through its fields, never raised: deletion is
// deliberately lenient, unlike creation.
type DeletionReport struct {
	SeniorID         id.SeniorID `json:"senior_id"`
	RecordsDeleted   int         `json:"records_deleted"`
	RelationsDeleted int         `json:"relations_deleted"`
	ProfileDeleted   bool        `json:"profile_deleted"`
	AccountRevoked   bool        `json:"account_revoked"`
	// CleanupErrors lists best-effort steps that failed, for observability.
	CleanupErrors []string `json:"cleanup_errors,omitempty"`
}
