package models

import (
	"strings"
	"time"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

// Age bounds accepted for a senior profile.
const (
	MinAge = 1
	MaxAge = 150
)

// RegistrationType records how a senior entered the system.
type RegistrationType string

const (
	// RegistrationSelf marks a senior who registered with their own account.
	RegistrationSelf RegistrationType = "self_registered"
	// RegistrationCaregiver marks a senior provisioned by a caregiver.
	RegistrationCaregiver RegistrationType = "caregiver_created"
)

// SeniorProfile is the senior's demographic record.
//
// Invariants:
//   - ID is empty until the profile store assigns it at creation, immutable after
//   - AccountID is empty until an external account is bound
//   - Name is non-blank; Age is within [MinAge, MaxAge]
//   - CreatorID is the provisioning caregiver, empty for self-registration
//
// Owned exclusively by the profile store; deleted only via the deletion saga.
type SeniorProfile struct {
	ID               id.SeniorID      `json:"id"`
	AccountID        id.AccountID     `json:"account_id,omitempty"`
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Gender           string           `json:"gender"`
	Avatar           string           `json:"avatar"`
	CreatorID        id.CaregiverID   `json:"creator_id,omitempty"`
	RegistrationType RegistrationType `json:"registration_type"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewCaregiverCreated builds an unpersisted caregiver-created profile.
// The store assigns the ID at creation.
func NewCaregiverCreated(name string, age int, gender, avatar string, creatorID id.CaregiverID, now time.Time) (*SeniorProfile, error) {
	if err := validateDemographics(name, age); err != nil {
		return nil, err
	}
	if creatorID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "creator id is required")
	}
	return &SeniorProfile{
		Name:             strings.TrimSpace(name),
		Age:              age,
		Gender:           gender,
		Avatar:           avatar,
		CreatorID:        creatorID,
		RegistrationType: RegistrationCaregiver,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// NewSelfRegistered builds an unpersisted self-registered profile already
// bound to the senior's own account.
func NewSelfRegistered(name string, age int, gender, avatar string, accountID id.AccountID, now time.Time) (*SeniorProfile, error) {
	if err := validateDemographics(name, age); err != nil {
		return nil, err
	}
	if accountID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "account id is required")
	}
	return &SeniorProfile{
		Name:             strings.TrimSpace(name),
		Age:              age,
		Gender:           gender,
		Avatar:           avatar,
		AccountID:        accountID,
		RegistrationType: RegistrationSelf,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// BindAccount links the external account issued for this profile.
func (p *SeniorProfile) BindAccount(accountID id.AccountID, now time.Time) {
	p.AccountID = accountID
	p.UpdatedAt = now
}

// IsOwnedBy reports whether the given account is the senior's own login.
// Used for the senior-viewing-own-data rule, which bypasses the relation
// graph since a senior has no relation record with themselves.
func (p *SeniorProfile) IsOwnedBy(accountID id.AccountID) bool {
	return !p.AccountID.IsEmpty() && p.AccountID == accountID
}

// Update carries optional demographic changes. Nil fields are left untouched.
type Update struct {
	Name   *string
	Age    *int
	Gender *string
	Avatar *string
}

// ApplyUpdate validates and applies an update in place.
func (p *SeniorProfile) ApplyUpdate(u Update, now time.Time) error {
	name := p.Name
	if u.Name != nil {
		name = *u.Name
	}
	age := p.Age
	if u.Age != nil {
		age = *u.Age
	}
	if err := validateDemographics(name, age); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.Age = age
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	p.UpdatedAt = now
	return nil
}

func validateDemographics(name string, age int) error {
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be blank")
	}
	if age < MinAge || age > MaxAge {
		return dErrors.Newf(dErrors.CodeValidation, "age must be between %d and %d", MinAge, MaxAge)
	}
	return nil
}
