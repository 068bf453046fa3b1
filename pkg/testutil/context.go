package testutil

import (
	"net/http"
	"time"

	id "carelink/pkg/domain"
	"carelink/pkg/requestcontext"
)

// WithCaregiver adds a caregiver ID to the request context, simulating what
// the auth middleware does for authenticated requests.
func WithCaregiver(req *http.Request, caregiverID string) *http.Request {
	ctx := requestcontext.WithCaregiverID(req.Context(), id.CaregiverID(caregiverID))
	return req.WithContext(ctx)
}

// WithFixedTime pins the request clock, so handlers under test produce
// deterministic timestamps.
func WithFixedTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
