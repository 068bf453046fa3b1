// Package issuer talks to the external account-issuing service that owns
// real login credentials. The service is opaque: this package only knows its
// two RPCs and treats anything but a truthy success as failure.
package issuer

import (
	"context"

	id "carelink/pkg/domain"
)

// CreateRequest asks the issuer to provision a login credential bound to
// the virtual address derived from the senior's profile id. Password may be
// empty to request auto-generation.
type CreateRequest struct {
	SeniorID id.SeniorID `json:"seniorId"`
	Name     string      `json:"name"`
	Password string      `json:"password,omitempty"`
}

// IssuedAccount is the credential the issuer provisioned.
type IssuedAccount struct {
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	AccountID id.AccountID `json:"accountId"`
}

// AccountIssuer is the client contract for the external account service.
// Implementations return domain errors with CodeExternalService on any
// transport failure or non-success response.
type AccountIssuer interface {
	CreateAccount(ctx context.Context, req CreateRequest) (*IssuedAccount, error)
	DeleteAccount(ctx context.Context, seniorID id.SeniorID) error
}
