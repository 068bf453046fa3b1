// Package domain defines the typed identifiers shared across modules.
//
// Senior identifiers are synthetic 16-character tokens issued by
// pkg/identity, not UUIDs, so every ID here is a string type. Typed IDs keep
// (caregiver, senior) argument order mistakes out of store and service
// signatures.
package domain

// SeniorID is the synthetic textual handle assigned to a senior profile.
// Format: "SNR-" followed by exactly 12 characters from [A-Z0-9].
type SeniorID string

func (i SeniorID) String() string { return string(i) }
func (i SeniorID) IsEmpty() bool  { return i == "" }

// CaregiverID identifies a caregiver account in the external account system.
type CaregiverID string

func (i CaregiverID) String() string { return string(i) }
func (i CaregiverID) IsEmpty() bool  { return i == "" }

// AccountID identifies a login credential issued by the account issuer.
// For seniors it is bound to the profile's virtual address.
type AccountID string

func (i AccountID) String() string { return string(i) }
func (i AccountID) IsEmpty() bool  { return i == "" }

// RelationID identifies a caregiver-senior relation edge. Paired relations
// use the deterministic form "<caregiverID>_<seniorID>" so at most one
// relation per pair can exist; pending requests get a store-assigned UUID.
type RelationID string

func (i RelationID) String() string { return string(i) }
func (i RelationID) IsEmpty() bool  { return i == "" }

// PairRelationID builds the deterministic relation ID for a paired
// caregiver-senior edge.
func PairRelationID(caregiverID CaregiverID, seniorID SeniorID) RelationID {
	return RelationID(caregiverID.String() + "_" + seniorID.String())
}

// RecordID identifies a single health record.
type RecordID string

func (i RecordID) String() string { return string(i) }
func (i RecordID) IsEmpty() bool  { return i == "" }
