package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors at the boundary.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: profile/relation/record does not exist in the store
// - ErrConflict: a relation for the (caregiver, senior) pair already exists
// - ErrInvalidState: entity in wrong status for the requested transition
// - ErrUnavailable: backing store or external service temporarily unreachable
//
// For validation errors (bad input, out-of-range vitals), use
// pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
